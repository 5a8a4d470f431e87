package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Jan", 0},
		{"feb", 1},
		{" MAR ", 2},
		{"Sep", 8},
		{"Sept", 8},
		{"December", 11},
		{"july", 6},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "Janu", "13", "Smarch"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Jan", MonthName(0))
	assert.Equal(t, "Jul", MonthName(6))
	assert.Equal(t, "Dec", MonthName(11))
	assert.Empty(t, MonthName(12))
	assert.Empty(t, MonthName(-1))
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, 6, MonthOf(time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, MonthOf(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 11, MonthOf(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)))
}

func TestMonthRange(t *testing.T) {
	t.Run("single month when start equals end", func(t *testing.T) {
		for m := range MonthsPerYear {
			assert.Equal(t, []int{m}, MonthRange(m, m))
		}
	})

	t.Run("forward range", func(t *testing.T) {
		assert.Equal(t, []int{2, 3, 4, 5}, MonthRange(2, 5))
	})

	t.Run("wraps the year boundary", func(t *testing.T) {
		assert.Equal(t, []int{10, 11, 0, 1}, MonthRange(10, 1))
		assert.Equal(t, []int{11, 0}, MonthRange(11, 0))
	})

	t.Run("full year", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, MonthRange(0, 11))
		assert.Len(t, MonthRange(1, 0), 12)
	})

	t.Run("invalid bounds", func(t *testing.T) {
		assert.Nil(t, MonthRange(-1, 3))
		assert.Nil(t, MonthRange(0, 12))
	})
}

//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/seasonal-produce/internal/adapter/kafka"
	"github.com/couchcryptid/seasonal-produce/internal/adapter/spreadsheet"
	"github.com/couchcryptid/seasonal-produce/internal/adapter/tablestore"
	"github.com/couchcryptid/seasonal-produce/internal/config"
	"github.com/couchcryptid/seasonal-produce/internal/domain"
	"github.com/couchcryptid/seasonal-produce/internal/observability"
	"github.com/couchcryptid/seasonal-produce/internal/pipeline"
)

const testTableTopic = "test-season-table"

// TestBuildAndPublish runs the builder pipeline over the sample sheet with
// both the file and Kafka loaders, then reads the twelve bucket messages back.
func TestBuildAndPublish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTableTopic)

	cfg := &config.Config{
		KafkaBrokers:    []string{broker},
		KafkaTableTopic: testTableTopic,
	}

	reader := spreadsheet.NewReader(filepath.Join("..", "..", "data", "uk_seasonal_produce.csv"), "")
	out := filepath.Join(t.TempDir(), "produce_data.json")
	file := tablestore.NewFileWriter(out, false, discardLogger())
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, domain.DefaultRegion, discardLogger(), observability.NewMetricsForTesting(), file, writer)
	table, stats, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Positive(t, stats.Placed)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testTableTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	seen := make(map[string]kafka.BucketMessage, domain.MonthsPerYear)
	for len(seen) < domain.MonthsPerYear {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from table topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "UK", headers["region"])
		_, err = time.Parse(time.RFC3339, headers["built_at"])
		assert.NoError(t, err, "built_at should be valid RFC3339")

		var bucket kafka.BucketMessage
		require.NoError(t, json.Unmarshal(msg.Value, &bucket))
		assert.Equal(t, fmt.Sprintf("UK:%d", bucket.Month), string(msg.Key))
		seen[string(msg.Key)] = bucket
	}

	for month := range domain.MonthsPerYear {
		want, err := table.Bucket("UK", month)
		require.NoError(t, err)
		got := seen[fmt.Sprintf("UK:%d", month)]
		assert.Equal(t, want, got.Items, "month %d", month)
		assert.Equal(t, domain.MonthName(month), got.MonthName)
	}
}

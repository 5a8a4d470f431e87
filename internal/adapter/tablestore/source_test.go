package tablestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produce_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"UK":{}}`), 0o600))

	src := NewFile(path)
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"UK":{}}`, string(data))
	assert.Equal(t, "file:"+path, src.Describe())
}

func TestFile_FetchMissing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope.json")).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTP_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"UK":{"0":[]}}`)) //nolint:errcheck // test response
	}))
	defer srv.Close()

	data, err := NewHTTP(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"UK":{"0":[]}}`, string(data))
}

func TestHTTP_FetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, "HTTP error! status: 404", err.Error())
}

func TestHTTP_FetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTTP(srv.URL, 20*time.Millisecond).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch season table")
}

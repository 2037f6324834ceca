package power

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/enviro-series/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewClient(5*time.Second, logger, observability.NewMetrics())
	c.SetBaseURL(srv.URL)
	return c
}

func fetchWindow() (time.Time, time.Time) {
	return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)
}

func TestFetchDaily(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		// Dates deliberately out of order; the client must sort.
		w.Write([]byte(`{
			"properties": {
				"parameter": {
					"T2M": {
						"20250103": -2.4,
						"20250101": -5.1,
						"20250102": -999
					}
				}
			}
		}`))
	})

	start, end := fetchWindow()
	samples, err := c.FetchDaily(context.Background(), "T2M", 61.0587, 28.1887, start, end)
	require.NoError(t, err)

	assert.Equal(t, "T2M", gotQuery["parameters"])
	assert.Equal(t, "AG", gotQuery["community"])
	assert.Equal(t, "61.0587", gotQuery["latitude"])
	assert.Equal(t, "28.1887", gotQuery["longitude"])
	assert.Equal(t, "20250101", gotQuery["start"])
	assert.Equal(t, "20250103", gotQuery["end"])
	assert.Equal(t, "JSON", gotQuery["format"])

	// The -999 sentinel day is dropped, the rest come back date-sorted.
	require.Len(t, samples, 2)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), samples[0].Date)
	assert.Equal(t, -5.1, samples[0].Value)
	assert.Equal(t, time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), samples[1].Date)
	assert.Equal(t, -2.4, samples[1].Value)
}

func TestFetchDailyErrors(t *testing.T) {
	start, end := fetchWindow()

	t.Run("non-200 status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
		})
		_, err := c.FetchDaily(context.Background(), "T2M", 61, 28, start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
		assert.Contains(t, err.Error(), "upstream unavailable")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})
		_, err := c.FetchDaily(context.Background(), "T2M", 61, 28, start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})

	t.Run("missing parameter", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"properties": {"parameter": {"RH2M": {"20250101": 80}}}}`))
		})
		_, err := c.FetchDaily(context.Background(), "T2M", 61, 28, start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing parameter T2M")
	})

	t.Run("all observations missing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"properties": {"parameter": {"T2M": {"20250101": -999}}}}`))
		})
		_, err := c.FetchDaily(context.Background(), "T2M", 61, 28, start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no observations")
	})

	t.Run("bad date key", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"properties": {"parameter": {"T2M": {"not-a-date": 1.5}}}}`))
		})
		_, err := c.FetchDaily(context.Background(), "T2M", 61, 28, start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad date")
	})

	t.Run("context cancelled", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.FetchDaily(ctx, "T2M", 61, 28, start, end)
		require.Error(t, err)
	})
}

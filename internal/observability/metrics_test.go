package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersOnPrivateRegistry(t *testing.T) {
	m := NewMetrics()

	m.SeriesGenerated.Add(4)
	m.ChecksRun.Inc()
	m.FetchRequests.WithLabelValues("T2M", "success").Inc()
	m.FetchDuration.Observe(0.3)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["enviro_series_series_generated_total"])
	assert.True(t, names["enviro_series_constraint_checks_total"])
	assert.True(t, names["enviro_series_fetch_requests_total"])
	assert.True(t, names["enviro_series_fetch_duration_seconds"])
}

func TestNewMetricsInstancesAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.ChecksRun.Inc()

	families, err := b.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "enviro_series_constraint_checks_total" {
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, 0.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"json info", "info", "json"},
		{"text debug", "debug", "text"},
		{"unknown falls back", "loud", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.level, tt.format)
			require.NotNil(t, logger)
		})
	}
}

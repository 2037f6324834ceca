package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the generator,
// verifier, and fetch commands.
type Metrics struct {
	SeriesGenerated  prometheus.Counter
	SamplesGenerated prometheus.Counter

	ChecksRun     prometheus.Counter
	CheckFailures prometheus.Counter

	// Fetch metrics.
	FetchRequests *prometheus.CounterVec // labels: parameter, outcome={success,error,empty}
	FetchDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates all metrics registered on a private registry, so batch
// runs can push exactly their own samples to a Pushgateway.
func NewMetrics() *Metrics {
	m := &Metrics{
		SeriesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_series",
			Name:      "series_generated_total",
			Help:      "Total series produced by the generator.",
		}),
		SamplesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_series",
			Name:      "samples_generated_total",
			Help:      "Total daily samples produced across all series.",
		}),
		ChecksRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_series",
			Name:      "constraint_checks_total",
			Help:      "Total constraint checks executed by the verifier.",
		}),
		CheckFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "enviro_series",
			Name:      "constraint_check_failures_total",
			Help:      "Total constraint checks that failed.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "enviro_series",
			Name:      "fetch_requests_total",
			Help:      "NASA POWER API requests by parameter and outcome.",
		}, []string{"parameter", "outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "enviro_series",
			Name:      "fetch_duration_seconds",
			Help:      "NASA POWER API request duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SeriesGenerated,
		m.SamplesGenerated,
		m.ChecksRun,
		m.CheckFailures,
		m.FetchRequests,
		m.FetchDuration,
	)

	return m
}

// Registry exposes the private registry, used for pushing and in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

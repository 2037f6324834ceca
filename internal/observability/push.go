package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// PushMetrics sends the run's metrics to a Prometheus Pushgateway. Batch
// commands have no scrape surface, so they push once at the end of a run.
func PushMetrics(url, job string, m *Metrics) error {
	if err := push.New(url, job).Gatherer(m.Registry()).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

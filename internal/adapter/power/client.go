// Package power is a client for the NASA POWER daily-point API, the opaque
// external source of real weather observations. It is deliberately thin:
// one parameter per request, no retries, failures surfaced to the caller.
package power

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/couchcryptid/enviro-series/internal/domain"
	"github.com/couchcryptid/enviro-series/internal/observability"
)

const defaultBaseURL = "https://power.larc.nasa.gov/api/temporal/daily/point"

// missingValue is the POWER sentinel for days with no observation.
const missingValue = -999

// Client fetches daily observations from the NASA POWER API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	community  string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a POWER client with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		community:  "AG",
		logger:     logger,
		metrics:    metrics,
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// FetchDaily retrieves one POWER parameter (e.g. "T2M", "PRECTOTCORR") for a
// point and date range, returning date-sorted samples. Days carrying the
// POWER missing-value sentinel are dropped.
func (c *Client) FetchDaily(ctx context.Context, param string, lat, lon float64, start, end time.Time) ([]domain.Sample, error) {
	params := url.Values{
		"parameters": {param},
		"community":  {c.community},
		"latitude":   {fmt.Sprintf("%.4f", lat)},
		"longitude":  {fmt.Sprintf("%.4f", lon)},
		"start":      {start.Format("20060102")},
		"end":        {end.Format("20060102")},
		"format":     {"JSON"},
	}

	began := time.Now()
	samples, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode(), param)
	c.metrics.FetchDuration.Observe(time.Since(began).Seconds())

	switch {
	case err != nil:
		c.metrics.FetchRequests.WithLabelValues(param, "error").Inc()
		return nil, err
	case len(samples) == 0:
		c.metrics.FetchRequests.WithLabelValues(param, "empty").Inc()
		return nil, fmt.Errorf("POWER returned no observations for %s", param)
	default:
		c.metrics.FetchRequests.WithLabelValues(param, "success").Inc()
		return samples, nil
	}
}

func (c *Client) doRequest(ctx context.Context, fullURL, param string) ([]domain.Sample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", param, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("POWER API error: status %d: %s", resp.StatusCode, body)
	}

	var powerResp response
	if err := json.NewDecoder(resp.Body).Decode(&powerResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	byDate, ok := powerResp.Properties.Parameter[param]
	if !ok {
		return nil, fmt.Errorf("response missing parameter %s", param)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	samples := make([]domain.Sample, 0, len(dates))
	for _, d := range dates {
		date, err := time.Parse("20060102", d)
		if err != nil {
			return nil, fmt.Errorf("bad date %q in response: %w", d, err)
		}
		val := byDate[d]
		if val == missingValue {
			c.logger.Debug("skipping missing observation", "parameter", param, "date", d)
			continue
		}
		samples = append(samples, domain.Sample{Date: date, Value: val})
	}
	return samples, nil
}

// POWER API response types.

type response struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

package ingest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fieldwise/cropadvisor/internal/metrics"
	"github.com/fieldwise/cropadvisor/internal/models"
)

// HTTPSource fetches the market dataset from an HTTP endpoint, retrying
// transient failures with exponential backoff.
type HTTPSource struct {
	url    string
	client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads and parses the dataset. Rate-limit and server errors are
// retried; client errors are permanent.
func (h *HTTPSource) Fetch() ([]models.MarketEntry, error) {
	start := time.Now()

	var body []byte
	operation := func() error {
		resp, err := h.client.Get(h.url)
		if err != nil {
			return fmt.Errorf("fetch market dataset: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("transient: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch market dataset: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		metrics.DatasetFetchesTotal.WithLabelValues("http", "error").Inc()
		return nil, err
	}

	metrics.DatasetFetchesTotal.WithLabelValues("http", "ok").Inc()
	metrics.DatasetFetchLatency.WithLabelValues("http").Observe(time.Since(start).Seconds())

	return ReadMarketCSV(bytes.NewReader(body))
}

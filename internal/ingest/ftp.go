package ingest

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/fieldwise/cropadvisor/internal/metrics"
	"github.com/fieldwise/cropadvisor/internal/models"
)

// FTPSource fetches the market dataset from an FTP mirror, the common
// distribution channel for agriculture-department reference data.
type FTPSource struct {
	host string
	path string
}

// NewFTPSource creates a source for host (host:port) and a remote file path.
func NewFTPSource(host, path string) *FTPSource {
	return &FTPSource{host: host, path: path}
}

// Fetch retrieves and parses the dataset with an anonymous login.
func (f *FTPSource) Fetch() ([]models.MarketEntry, error) {
	start := time.Now()

	conn, err := ftp.Dial(f.host, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		metrics.DatasetFetchesTotal.WithLabelValues("ftp", "error").Inc()
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		metrics.DatasetFetchesTotal.WithLabelValues("ftp", "error").Inc()
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(f.path)
	if err != nil {
		metrics.DatasetFetchesTotal.WithLabelValues("ftp", "error").Inc()
		return nil, fmt.Errorf("ftp retr %s: %w", f.path, err)
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		metrics.DatasetFetchesTotal.WithLabelValues("ftp", "error").Inc()
		return nil, fmt.Errorf("read body: %w", err)
	}

	metrics.DatasetFetchesTotal.WithLabelValues("ftp", "ok").Inc()
	metrics.DatasetFetchLatency.WithLabelValues("ftp").Observe(time.Since(start).Seconds())

	return ReadMarketCSV(bytes.NewReader(body))
}

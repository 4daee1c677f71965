package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxCSVBytes caps how much of a remote CSV is read. Exported sheets
// are small; anything past this is almost certainly not a CSV export.
const maxCSVBytes = 10 << 20

// CSVFetcher downloads CSV content from a remote URL, typically a
// published Google Sheets export link.
type CSVFetcher struct {
	httpClient *http.Client
}

func NewCSVFetcher(timeoutSeconds int) *CSVFetcher {
	return &CSVFetcher{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
	}
}

// Fetch retrieves the body at url as text. It does not validate that
// the body is CSV; the import pipeline detects HTML responses itself
// so it can explain the sheet-publishing mistake to the user.
func (f *CSVFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain, */*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch CSV: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching CSV", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCSVBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxCSVBytes {
		return "", fmt.Errorf("CSV response exceeds %d bytes", maxCSVBytes)
	}

	return string(body), nil
}

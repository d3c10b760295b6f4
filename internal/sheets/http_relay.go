package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPRelay posts rows to a spreadsheet web app (for example an Apps Script
// deployment) that appends them on its side.
type HTTPRelay struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPRelay returns a relay posting to url.
func NewHTTPRelay(url string, timeout time.Duration, httpClient *http.Client) (*HTTPRelay, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("sheets: relay url required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &HTTPRelay{url: url, timeout: timeout, httpClient: httpClient}, nil
}

// Append posts the row as JSON. Any non-2xx answer is an error.
func (r *HTTPRelay) Append(ctx context.Context, row Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("sheets: marshal row: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sheets: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheets: post row: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheets: relay returned status %d", resp.StatusCode)
	}
	return nil
}

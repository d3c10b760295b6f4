package automation

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

	"github.com/wolfman30/consult-leads/pkg/logging"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "consult-leads-relay/0.1"
	maxResponseBytes = 64 << 10
)

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("automation: webhook url not configured")

// Payload is the body posted to the automation webhook.
type Payload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
}

// HTTPStatusError reports a non-2xx answer from the webhook.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("automation: webhook returned status %d", e.StatusCode)
}

// Config controls how the webhook client behaves.
type Config struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	UserAgent  string
}

// Client posts lead payloads to a single workflow-automation webhook.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logging.Logger
	userAgent  string
}

// New creates a webhook client. An empty URL yields a client whose calls
// return ErrNotConfigured.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		url:        strings.TrimSpace(cfg.URL),
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

// Notify posts the payload and returns the HTTP status. Non-2xx statuses are
// returned together with an *HTTPStatusError.
func (c *Client) Notify(ctx context.Context, payload Payload) (int, error) {
	resp, err := c.post(ctx, payload)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &HTTPStatusError{StatusCode: resp.StatusCode}
	}
	return resp.StatusCode, nil
}

// ProbeResult captures what the webhook answered to a probe.
type ProbeResult struct {
	StatusCode int
	OK         bool
	Response   any
}

// Probe posts the payload and decodes whatever the webhook answers. An empty
// body is reported as {"status":"no_content"} and a non-JSON body as
// {"status":"non_json_response"}.
func (c *Client) Probe(ctx context.Context, payload Payload) (*ProbeResult, error) {
	resp, err := c.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("automation: read response: %w", err)
	}
	c.logger.Debug("automation webhook probe response", "status", resp.StatusCode, "body", string(raw))

	return &ProbeResult{
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode <= 299,
		Response:   decodeProbeBody(raw),
	}, nil
}

func decodeProbeBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]string{"status": "no_content"}
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return map[string]string{"status": "non_json_response"}
	}
	return decoded
}

func (c *Client) post(ctx context.Context, payload Payload) (*http.Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("automation: marshal payload: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("automation: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("automation: post webhook: %w", err)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose releases the request context once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

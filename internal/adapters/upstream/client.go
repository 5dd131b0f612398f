// Package upstream talks to the speed-checker API from the server side.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/speedcheck-web/internal/domain/origin"
	"github.com/okian/speedcheck-web/pkg/metrics"
)

// Outcome labels for upstream metrics.
const (
	outcomeOK        = "ok"
	outcomeStatus    = "status"
	outcomeTransport = "transport"
)

// Options mirror the request knobs a caller may set. A nil *Options means GET
// with no body and only the default headers.
type Options struct {
	Method string
	Header map[string]string
	Body   io.Reader
}

// Client issues requests against the server-side API origin.
type Client struct {
	resolver   origin.Resolver
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a Client for the origins held by resolver.
func NewClient(resolver origin.Resolver, opts ...Option) *Client {
	c := &Client{
		resolver:   resolver,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// URL returns the absolute server-side URL for path.
func (c *Client) URL(path string) string {
	return c.resolver.ServerURL(path)
}

// Fetch sends a request to the server-side origin + path and returns the
// response untouched. Content-Type defaults to application/json; headers in
// opts are applied afterwards and win on conflict. Non-2xx statuses are not
// errors here. The caller must close the body.
func (c *Client) Fetch(ctx context.Context, path string, opts *Options) (*http.Response, error) {
	method := http.MethodGet
	var body io.Reader
	if opts != nil {
		if opts.Method != "" {
			method = opts.Method
		}
		body = opts.Body
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if opts != nil {
		for k, v := range opts.Header {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000
	label := metricPath(path)
	if err != nil {
		metrics.RecordUpstreamRequest(label, outcomeTransport, latencyMs)
		return nil, err
	}
	outcome := outcomeOK
	if !isSuccess(resp.StatusCode) {
		outcome = outcomeStatus
	}
	metrics.RecordUpstreamRequest(label, outcome, latencyMs)
	return resp, nil
}

// GetJSON fetches path and returns the body once it is known to be valid
// JSON. Failures are reported as *FetchError.
func (c *Client) GetJSON(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := c.Fetch(ctx, path, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: KindStatus, Path: path, Status: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Path: path, Err: err}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FetchError{Kind: KindDecode, Path: path, Err: errors.Join(ErrInvalidJSON, err)}
	}
	return raw, nil
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// metricPath drops the query string so labels stay bounded.
func metricPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}

// Package transport issues the HTTP calls of the tester. Every call is captured as an
// HTTPTransaction; HTTP error statuses are data, only network-level faults are errors.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/JeffreyRichter/pixtester/internal/aids"
)

// DefaultTimeout is used when a Request carries no timeout of its own.
const DefaultTimeout = 10 * time.Second

// Request describes one outbound call.
type Request struct {
	Method  string
	URL     string
	Header  http.Header
	Body    any // marshaled as JSON when non-nil
	Timeout time.Duration
}

// HTTPTransaction represents a complete HTTP request/response cycle
type HTTPTransaction struct {
	Method          string
	URL             string
	RequestBody     string
	RequestHeaders  http.Header
	StatusCode      int
	ResponseHeaders http.Header
	ResponseBody    string
	Body            Body
	Timestamp       time.Time
	Duration        time.Duration
	Error           error
}

// Unmarshal decodes the raw response body into v whatever the response's content-type said.
func (t *HTTPTransaction) Unmarshal(v any) error {
	if err := json.Unmarshal([]byte(t.ResponseBody), v); aids.IsError(err) {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Client wraps http.Client. The zero value is usable.
type Client struct {
	HTTP      *http.Client
	Logger    *slog.Logger
	UserAgent string
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{HTTP: &http.Client{}, Logger: logger, UserAgent: "pixtester/1.0"}
}

// Do issues r exactly once. The returned transaction is non-nil whenever the request could be
// built, even if err != nil. err is always a *Error.
func (c *Client) Do(ctx context.Context, r Request) (*HTTPTransaction, error) {
	timeout := aids.Iif(r.Timeout > 0, r.Timeout, DefaultTimeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body []byte
	if r.Body != nil {
		var err error
		if body, err = json.Marshal(r.Body); aids.IsError(err) {
			return nil, &Error{Kind: Other, Err: fmt.Errorf("failed to marshal request body: %w", err)}
		}
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(body))
	if aids.IsError(err) {
		return nil, &Error{Kind: Other, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for name, values := range r.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	txn := &HTTPTransaction{
		Method:         req.Method,
		URL:            req.URL.String(),
		RequestBody:    string(body),
		RequestHeaders: req.Header.Clone(),
		Timestamp:      time.Now(),
	}

	resp, err := c.httpClient().Do(req)
	if aids.IsError(err) {
		return c.fail(ctx, txn, err)
	}
	defer resp.Body.Close()
	txn.StatusCode = resp.StatusCode
	txn.ResponseHeaders = resp.Header.Clone()

	raw, err := io.ReadAll(resp.Body)
	if aids.IsError(err) {
		return c.fail(ctx, txn, err)
	}
	txn.Duration = time.Since(txn.Timestamp)
	txn.ResponseBody = string(raw)
	txn.Body = Decode(raw, resp.Header.Get("Content-Type"))

	c.logger().LogAttrs(ctx, slog.LevelInfo, "<-", slog.String("method", txn.Method), slog.String("url", txn.URL),
		slog.Int("StatusCode", txn.StatusCode), slog.Duration("duration", txn.Duration))
	return txn, nil
}

func (c *Client) fail(ctx context.Context, txn *HTTPTransaction, err error) (*HTTPTransaction, error) {
	txn.Duration = time.Since(txn.Timestamp)
	terr := classify(err)
	txn.Error = terr
	c.logger().LogAttrs(ctx, slog.LevelWarn, "<- failed", slog.String("method", txn.Method), slog.String("url", txn.URL),
		slog.String("kind", terr.Kind.String()), slog.String("error", err.Error()))
	return txn, terr
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Package remote talks to the playground back-end: the interpreter service,
// the relational query service and the suggestion service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

type runRequest struct {
	Code  string `json:"code"`
	Debug bool   `json:"debug"`
}

type runResponse struct {
	Output string `json:"output"`
	Error  string `json:"error"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type suggestRequest struct {
	Code   string `json:"code"`
	Cursor int    `json:"cursor"`
}

type suggestResponse struct {
	Suggestions *[]string `json:"suggestions"`
}

// Endpoints are the absolute service URLs a Client posts to.
type Endpoints struct {
	Run     string
	SQL     string
	Suggest string
}

// Client posts JSON to the back-end services.
type Client struct {
	httpClient *http.Client
	endpoints  Endpoints
	runTimeout time.Duration
	sqlTimeout time.Duration
	logger     ports.Logger
	newID      func() string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger ports.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRequestIDs overrides the correlation id generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New builds a Client from the server and timeout settings in cfg.
func New(cfg domain.Config, opts ...Option) (*Client, error) {
	endpoints, err := ResolveEndpoints(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{
		httpClient: &http.Client{},
		endpoints:  endpoints,
		runTimeout: cfg.RunTimeout(),
		sqlTimeout: cfg.SQLTimeout(),
		newID:      func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ResolveEndpoints joins the configured base URL with each service path.
func ResolveEndpoints(cfg domain.Config) (Endpoints, error) {
	run, err := cfg.Endpoint(cfg.Server.RunPath)
	if err != nil {
		return Endpoints{}, err
	}
	sql, err := cfg.Endpoint(cfg.Server.SQLPath)
	if err != nil {
		return Endpoints{}, err
	}
	suggest, err := cfg.Endpoint(cfg.Server.SuggestPath)
	if err != nil {
		return Endpoints{}, err
	}
	return Endpoints{Run: run, SQL: sql, Suggest: suggest}, nil
}

// Endpoints returns the resolved service URLs.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// RunCode sends code to the interpreter service.
func (c *Client) RunCode(ctx context.Context, code string, debug bool) (domain.GeneralResult, error) {
	ctx, cancel := withTimeout(ctx, c.runTimeout)
	defer cancel()

	var resp runResponse
	if err := c.post(ctx, c.endpoints.Run, runRequest{Code: code, Debug: debug}, &resp); err != nil {
		return domain.GeneralResult{}, err
	}
	return domain.GeneralResult{Output: resp.Output, Error: resp.Error}, nil
}

// RunQuery sends a query to the relational service.
func (c *Client) RunQuery(ctx context.Context, query string) (domain.RelationalResult, error) {
	ctx, cancel := withTimeout(ctx, c.sqlTimeout)
	defer cancel()

	var resp queryResponse
	if err := c.post(ctx, c.endpoints.SQL, queryRequest{Query: query}, &resp); err != nil {
		return domain.RelationalResult{}, err
	}
	return domain.RelationalResult{Result: resp.Result, Error: resp.Error}, nil
}

// Suggest fetches cursor-scoped suggestions. The caller bounds the call with ctx.
func (c *Client) Suggest(ctx context.Context, code string, cursor int) ([]string, error) {
	var resp suggestResponse
	if err := c.post(ctx, c.endpoints.Suggest, suggestRequest{Code: code, Cursor: cursor}, &resp); err != nil {
		return nil, err
	}
	if resp.Suggestions == nil {
		return nil, fmt.Errorf("suggest: %w: missing suggestions", domain.ErrMalformedResponse)
	}
	return *resp.Suggestions, nil
}

// Ping reports whether endpoint answers HTTP at all. Any status code counts as
// reachable; the status line is returned for display.
func (c *Client) Ping(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set(RequestIDHeader, c.newID())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Status, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return err
	}
	requestID := c.newID()
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.debug("request failed", map[string]interface{}{"endpoint": endpoint, "request_id": requestID, "error": err.Error()})
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	c.debug("response received", map[string]interface{}{
		"endpoint":   endpoint,
		"request_id": requestID,
		"status":     resp.StatusCode,
		"elapsed_ms": time.Since(started).Milliseconds(),
	})

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s: %s", domain.ErrTransport, endpoint, resp.Status)
	}

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}
	if err := json.Unmarshal(responseBody.Bytes(), out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrTransport, endpoint, err)
	}
	return nil
}

func (c *Client) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

var (
	_ ports.CodeRunner       = (*Client)(nil)
	_ ports.QueryRunner      = (*Client)(nil)
	_ ports.SuggestionSource = (*Client)(nil)
)

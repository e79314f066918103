// Package httpapi is the REST plumbing shared by every API client: request
// building, authentication editors, logging and metrics middleware, and
// uniform error values for non-2xx responses.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// RequestIDHeader carries a per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Config contains configuration options for creating a Client.
type Config struct {
	// BaseURL is the API root every request path is resolved against,
	// e.g. "http://haproxy:5555/v2".
	BaseURL string

	// HTTPClient allows injecting a custom HTTP client. Defaults to a client
	// built by NewHTTPClient.
	HTTPClient *http.Client

	// Editors are applied to every request in order.
	Editors []RequestEditorFn

	Logger *slog.Logger
}

// Client sends JSON requests below a base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	editors    []RequestEditorFn
	logger     *slog.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(TransportOptions{ValidateCerts: true, Logger: cfg.Logger})
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		editors:    cfg.Editors,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one API call.
type Request struct {
	Method string

	// Path is relative to the base URL.
	Path  string
	Query url.Values

	// RawQuery is appended to the encoded Query as it is.
	RawQuery string

	// JSON is marshalled as the request body when non-nil. Values of type
	// json.RawMessage and []byte are sent as they are.
	JSON any

	// Body is sent verbatim with ContentType when JSON is nil.
	Body        io.Reader
	ContentType string

	Header http.Header

	// Operation names the call in errors and logs.
	Operation string
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into out.
func (r *Response) Decode(out any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Get returns the value at a gjson path of the response body.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// URL resolves path and query against the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do sends req and reads the full response. Any non-2xx status is returned
// as an *APIError together with the response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", req.Operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", req.Operation, err)
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if !IsSuccess(resp.StatusCode) {
		return out, newAPIError(req.Operation, resp.StatusCode, body)
	}

	c.logger.Debug("API call completed",
		"operation", req.Operation,
		"method", httpReq.Method,
		"url", httpReq.URL.Redacted(),
		"status_code", resp.StatusCode,
		"request_id", httpReq.Header.Get(RequestIDHeader))

	return out, nil
}

// DoJSON sends req and decodes a 2xx response body into out. A nil out
// discards the body.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("%s: %w", req.Operation, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	contentType := req.ContentType
	switch {
	case req.JSON != nil:
		data, err := marshalBody(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request body: %w", req.Operation, err)
		}
		body = bytes.NewReader(data)
		if contentType == "" {
			contentType = "application/json"
		}
	case req.Body != nil:
		body = req.Body
	}

	target := c.URL(req.Path, req.Query)
	if req.RawQuery != "" {
		sep := "?"
		if len(req.Query) > 0 {
			sep = "&"
		}
		target += sep + req.RawQuery
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", req.Operation, err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())

	for _, edit := range c.editors {
		if err := edit(ctx, httpReq); err != nil {
			return nil, fmt.Errorf("%s: request editor failed: %w", req.Operation, err)
		}
	}

	return httpReq, nil
}

func marshalBody(v any) ([]byte, error) {
	switch b := v.(type) {
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	default:
		return json.Marshal(v)
	}
}

package httpapi

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
)

// loggingRoundTripper logs request details when an API returns a non-2xx
// status code. Successful requests pass through untouched.
type loggingRoundTripper struct {
	base   http.RoundTripper
	logger *slog.Logger
	system string
	redact bool
}

// newLoggingRoundTripper wraps base. If base is nil, http.DefaultTransport is used.
func newLoggingRoundTripper(base http.RoundTripper, logger *slog.Logger, system string, redact bool) *loggingRoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingRoundTripper{
		base:   base,
		logger: logger,
		system: system,
		redact: redact,
	}
}

// RoundTrip implements the http.RoundTripper interface.
func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// Read the body up front and restore it for the real request.
	var requestBody []byte
	if req.Body != nil && !t.redact {
		var err error
		requestBody, err = io.ReadAll(req.Body)
		if err != nil {
			t.logger.Warn("failed to read request body for logging", "error", err)
		}
		req.Body = io.NopCloser(bytes.NewBuffer(requestBody))
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.logger.Error("API request failed",
			"system", t.system,
			"method", req.Method,
			"url", req.URL.Redacted(),
			"error", err)
		return resp, err
	}

	if !IsSuccess(resp.StatusCode) {
		var responseBody []byte
		if resp.Body != nil {
			var readErr error
			responseBody, readErr = io.ReadAll(resp.Body)
			if readErr != nil {
				t.logger.Warn("failed to read response body for logging", "error", readErr)
			}
			resp.Body = io.NopCloser(bytes.NewBuffer(responseBody))
		}

		attrs := []any{
			"system", t.system,
			"method", req.Method,
			"url", req.URL.Redacted(),
			"status_code", resp.StatusCode,
			"request_id", req.Header.Get(RequestIDHeader),
		}
		if !t.redact {
			attrs = append(attrs,
				"request_body", string(requestBody),
				"response_body", string(responseBody))
		}
		// 404 is the normal "absent" answer for lookups.
		if resp.StatusCode == http.StatusNotFound {
			t.logger.Debug("API returned non-2xx status code", attrs...)
		} else {
			t.logger.Error("API returned non-2xx status code", attrs...)
		}
	}

	return resp, nil
}

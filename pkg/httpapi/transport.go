package httpapi

import (
	"crypto/tls"
	"log/slog"
	"net/http"
	"os"
	"time"

	"restops/pkg/metrics"
)

// TimeoutEnvVar overrides the per-request timeout for every API client.
const TimeoutEnvVar = "RESTOPS_HTTP_TIMEOUT"

// TransportOptions configures NewHTTPClient.
type TransportOptions struct {
	// System labels metrics and logs ("dataplane", "sonarqube", ...).
	System string

	// ValidateCerts disables TLS verification when false.
	ValidateCerts bool

	// Timeout bounds each request. Zero means TimeoutFromEnv().
	Timeout time.Duration

	// RedactBodies keeps request and response bodies out of error logs.
	RedactBodies bool

	Metrics *metrics.APIMetrics
	Logger  *slog.Logger
}

// NewHTTPClient builds the *http.Client used by the API clients. The
// transport chain is: metrics instrumentation, then error logging, then the
// base transport.
func NewHTTPClient(opts TransportOptions) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.ValidateCerts {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // validate_certs=false
	}

	var rt http.RoundTripper = newLoggingRoundTripper(base, opts.Logger, opts.System, opts.RedactBodies)
	rt = opts.Metrics.InstrumentTransport(opts.System, rt)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = TimeoutFromEnv()
	}

	return &http.Client{Transport: rt, Timeout: timeout}
}

// TimeoutFromEnv parses RESTOPS_HTTP_TIMEOUT as a Go duration ("30s").
// Unset or invalid values mean no timeout.
func TimeoutFromEnv() time.Duration {
	raw := os.Getenv(TimeoutEnvVar)
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("ignoring invalid HTTP timeout", "env", TimeoutEnvVar, "value", raw)
		return 0
	}
	return d
}

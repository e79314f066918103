package module

import (
	"log/slog"
	"net/http"
	"time"

	"restops/pkg/core/logging"
	"restops/pkg/httpapi"
	"restops/pkg/metrics"
)

// Env is the per-invocation context handed to modules and lookups.
type Env struct {
	CheckMode bool
	Diff      bool
	Logger    *slog.Logger
	Metrics   *metrics.APIMetrics

	// Now is the clock used for time-dependent requests.
	Now func() time.Time
}

// TestEnv returns an Env that logs nowhere and records no metrics.
func TestEnv(checkMode bool) *Env {
	return &Env{CheckMode: checkMode, Logger: logging.Discard(), Now: time.Now}
}

// HTTPClient builds the client for one target system. noLog keeps request
// and response bodies out of error logs.
func (e *Env) HTTPClient(system string, validateCerts, noLog bool) *http.Client {
	return httpapi.NewHTTPClient(httpapi.TransportOptions{
		System:        system,
		ValidateCerts: validateCerts,
		RedactBodies:  noLog,
		Metrics:       e.Metrics,
		Logger:        e.logger(),
	})
}

// Log returns the logger scoped to module.
func (e *Env) Log(module string) *slog.Logger {
	return e.logger().With("module", module)
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Clock returns Now, or time.Now when unset.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

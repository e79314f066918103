package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics records outbound REST calls made by the API clients.
//
// Requests are labelled with the target system ("dataplane", "sonarqube",
// "gitlab", "github", "ovh"), the HTTP method and the response code.
type APIMetrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ModuleRuns      *prometheus.CounterVec
	LastRun         prometheus.Gauge
}

// NewAPIMetrics creates and registers the API client metrics with registry.
func NewAPIMetrics(registry prometheus.Registerer) *APIMetrics {
	return &APIMetrics{
		Requests: NewCounterVec(registry,
			"restops_api_requests_total",
			"Total number of REST API requests by target system",
			[]string{"system", "code", "method"},
		),
		RequestDuration: NewHistogramVec(registry,
			"restops_api_request_duration_seconds",
			"REST API request latency by target system",
			DurationBuckets(),
			[]string{"system", "code", "method"},
		),
		ModuleRuns: NewCounterVec(registry,
			"restops_module_runs_total",
			"Module invocations by outcome",
			[]string{"module", "outcome"},
		),
		LastRun: NewGauge(registry,
			"restops_last_run_timestamp_seconds",
			"Unix time of the last finished module run",
		),
	}
}

// InstrumentTransport wraps next so that every round trip is counted and
// timed under the given system label. A nil receiver returns next unchanged.
func (m *APIMetrics) InstrumentTransport(system string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}

	labels := prometheus.Labels{"system": system}
	next = promhttp.InstrumentRoundTripperDuration(m.RequestDuration.MustCurryWith(labels), next)
	return promhttp.InstrumentRoundTripperCounter(m.Requests.MustCurryWith(labels), next)
}

// RecordModuleRun counts a finished module run. outcome is one of
// "changed", "ok" or "failed".
func (m *APIMetrics) RecordModuleRun(module, outcome string) {
	if m == nil {
		return
	}
	m.ModuleRuns.WithLabelValues(module, outcome).Inc()
	m.LastRun.SetToCurrentTime()
}

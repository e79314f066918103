package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
)

// mockRoundTripper is a mock implementation of http.RoundTripper for testing.
type mockRoundTripper struct {
	response *http.Response
	err      error
	seen     *http.Request
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.seen = req
	return m.response, m.err
}

// captureLogger captures log output for testing.
type captureLogger struct {
	*slog.Logger
	buffer *bytes.Buffer
}

func newCaptureLogger() *captureLogger {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return &captureLogger{
		Logger: slog.New(handler),
		buffer: buf,
	}
}

func (c *captureLogger) output() string {
	return c.buffer.String()
}

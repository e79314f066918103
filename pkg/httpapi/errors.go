package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	// Operation names the call that failed, e.g. "get backend".
	Operation string

	StatusCode int

	// Message is the error text reported by the remote API, if any.
	Message string

	// Body is the raw response body.
	Body []byte
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Operation == "" {
		return fmt.Sprintf("API Error : [Status : %d, Message : %s]", e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: API Error : [Status : %d, Message : %s]", e.Operation, e.StatusCode, msg)
}

// messagePaths are tried in order to find a human readable error in a
// response body. They cover the Dataplane API, SonarQube, GitLab, GitHub and
// OVH error shapes.
var messagePaths = []string{
	"message",
	"errors.0.msg",
	"errors.0.message",
	"error",
	"msg",
}

// newAPIError builds an APIError from a failed response.
func newAPIError(operation string, status int, body []byte) *APIError {
	return &APIError{
		Operation:  operation,
		StatusCode: status,
		Message:    extractMessage(body),
		Body:       body,
	}
}

func extractMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range messagePaths {
			if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String && r.Str != "" {
				return r.Str
			}
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 512 {
		text = text[:512]
	}
	return text
}

// IsSuccess reports whether code is a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}

// StatusCode returns the HTTP status of an APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

package httpapi

import (
	"context"
	"net/http"
)

// RequestEditorFn mutates an outgoing request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// BasicAuth authenticates with HTTP basic credentials.
func BasicAuth(username, password string) RequestEditorFn {
	return func(_ context.Context, req *http.Request) error {
		req.SetBasicAuth(username, password)
		return nil
	}
}

// BearerToken sends "Authorization: Bearer <token>".
func BearerToken(token string) RequestEditorFn {
	return func(_ context.Context, req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// StaticHeader sets a fixed header on every request.
func StaticHeader(key, value string) RequestEditorFn {
	return func(_ context.Context, req *http.Request) error {
		req.Header.Set(key, value)
		return nil
	}
}

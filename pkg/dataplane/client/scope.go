package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"restops/pkg/httpapi"
)

// Scope selects how a mutation is applied.
//
// With a TransactionID the change is staged in that transaction. Without
// one, the current configuration version is fetched and the change is
// applied directly, reloading HAProxy when ForceReload is set.
type Scope struct {
	TransactionID string
	ForceReload   bool
}

// InTransaction reports whether the scope names a transaction.
func (s Scope) InTransaction() bool {
	return strings.TrimSpace(s.TransactionID) != ""
}

// Parent identifies the section owning a child resource.
type Parent struct {
	Type string
	Name string
}

func (p Parent) query() url.Values {
	return url.Values{"parent_type": {p.Type}, "parent_name": {p.Name}}
}

func (p Parent) String() string {
	return p.Name + "/" + p.Type
}

// VersionConflictError is returned when the Dataplane API rejects a change
// because the configuration version moved (HTTP 406 or 409).
type VersionConflictError struct {
	ExpectedVersion int64
	ActualVersion   string
	Err             error
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: expected %d, got %s", e.ExpectedVersion, e.ActualVersion)
}

func (e *VersionConflictError) Unwrap() error {
	return e.Err
}

// IsVersionConflict reports whether err is a VersionConflictError. It can be
// used directly as an httpapi.RetryCondition.
func IsVersionConflict(err error) bool {
	var vce *VersionConflictError
	return errors.As(err, &vce)
}

// asVersionConflict converts 406/409 API errors into VersionConflictError.
func asVersionConflict(err error, resp *httpapi.Response, version int64) error {
	switch httpapi.StatusCode(err) {
	case http.StatusConflict, http.StatusNotAcceptable:
	default:
		return err
	}

	actual := "unknown"
	if resp != nil {
		if v := resp.Header.Get("Configuration-Version"); v != "" {
			actual = v
		}
	}
	return &VersionConflictError{ExpectedVersion: version, ActualVersion: actual, Err: err}
}

// mutation is one write against a configuration resource.
type mutation struct {
	operation string
	method    string
	path      string
	query     url.Values
	body      any
}

// mutate applies m under scope. Version conflicts outside a transaction are
// retried ConflictRetries times, re-reading the version on every attempt.
func (c *DataplaneClient) mutate(ctx context.Context, scope Scope, m mutation) (*httpapi.Response, error) {
	attempts := 1
	if !scope.InTransaction() {
		attempts += c.conflictRetries
	}

	return httpapi.WithRetry(ctx, httpapi.RetryConfig{
		MaxAttempts: attempts,
		RetryIf:     IsVersionConflict,
		Backoff:     httpapi.BackoffExponential,
		Logger:      c.logger,
	}, func(int) (*httpapi.Response, error) {
		query, version, err := c.scopeQuery(ctx, scope, m.query)
		if err != nil {
			return nil, err
		}

		resp, err := c.api.Do(ctx, httpapi.Request{
			Method:    m.method,
			Path:      m.path,
			Query:     query,
			JSON:      m.body,
			Operation: m.operation,
		})
		if err != nil {
			return nil, asVersionConflict(err, resp, version)
		}
		return resp, nil
	})
}

// scopeQuery merges the scope parameters into extra. The returned version is
// zero inside a transaction.
func (c *DataplaneClient) scopeQuery(ctx context.Context, scope Scope, extra url.Values) (url.Values, int64, error) {
	query := url.Values{}
	for k, vs := range extra {
		query[k] = append([]string(nil), vs...)
	}

	if scope.InTransaction() {
		query.Set("transaction_id", strings.TrimSpace(scope.TransactionID))
		return query, 0, nil
	}

	version, err := c.GetVersion(ctx)
	if err != nil {
		return nil, 0, err
	}
	query.Set("version", strconv.FormatInt(version, 10))
	query.Set("force_reload", strconv.FormatBool(scope.ForceReload))
	return query, version, nil
}

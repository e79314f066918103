// Package sonarqube is a client for the SonarQube Web API (v1 and v2
// endpoints) covering users, groups, permissions, settings, DevOps platform
// integrations and project import.
package sonarqube

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"restops/pkg/httpapi"
)

const mergePatchJSON = "application/merge-patch+json"

// ErrNotFound is wrapped by lookups that found no matching resource in an
// otherwise successful search.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether err is a failed lookup, either an empty search
// result or a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || httpapi.IsNotFound(err)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Username   string
	Password   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to a SonarQube server with basic authentication. The
// username may also be a user token with an empty password.
type Client struct {
	api *httpapi.Client
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("[SonarQubeClient] - Initialization failed : 'base_url' is required")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("[SonarQubeClient] - Initialization failed : 'username' is required")
	}

	api, err := httpapi.New(httpapi.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
		Editors:    []httpapi.RequestEditorFn{httpapi.BasicAuth(cfg.Username, cfg.Password)},
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("[SonarQubeClient] - Initialization failed : %w", err)
	}
	return &Client{api: api}, nil
}

func notFound(kind, field, value string) error {
	return fmt.Errorf("%s %w (%s : %s)", kind, ErrNotFound, field, value)
}

func required(scope, field string) error {
	return fmt.Errorf("[%s] : '%s' is required", scope, field)
}

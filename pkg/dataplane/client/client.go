// Package client is a Dataplane API client for the configuration resources
// managed by the haproxy_* modules.
//
// It adds on top of plain REST calls:
//   - Basic authentication
//   - Transaction or configuration-version scoping of every mutation
//   - Version conflict detection with optional retry
//   - Unwrapping of {"_version": N, "data": ...} envelopes
package client

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"restops/pkg/core/config"
	"restops/pkg/httpapi"
)

// DataplaneClient talks to one Dataplane API endpoint.
type DataplaneClient struct {
	api             *httpapi.Client
	logger          *slog.Logger
	conflictRetries int
}

// Config contains configuration options for creating a DataplaneClient.
type Config struct {
	// BaseURL is the Dataplane API endpoint without version (e.g., "http://haproxy:5555").
	BaseURL string

	// APIVersion is the path prefix appended to BaseURL. Default: "v2".
	APIVersion string

	// Username for basic authentication
	Username string

	// Password for basic authentication
	Password string

	// ConflictRetries is the number of extra attempts for mutations that hit
	// a version conflict outside of a transaction.
	ConflictRetries int

	// HTTPClient allows injecting a custom HTTP client (useful for testing)
	HTTPClient *http.Client

	Logger *slog.Logger
}

// New creates a new DataplaneClient with the provided configuration.
//
// Example:
//
//	c, err := client.New(client.Config{
//	    BaseURL:  "http://haproxy-dataplane:5555",
//	    Username: "admin",
//	    Password: "password",
//	})
func New(cfg Config) (*DataplaneClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("[Dataplane Client] - Initialization failed : 'base_url' is required")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("[Dataplane Client] - Initialization failed : 'username' is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("[Dataplane Client] - Initialization failed : 'password' is required")
	}

	version := strings.Trim(cfg.APIVersion, "/ ")
	if version == "" {
		version = config.DefaultDataplaneAPIVersion
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api, err := httpapi.New(httpapi.Config{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/" + version,
		HTTPClient: cfg.HTTPClient,
		Editors:    []httpapi.RequestEditorFn{httpapi.BasicAuth(cfg.Username, cfg.Password)},
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dataplane client: %w", err)
	}

	retries := cfg.ConflictRetries
	if retries < 0 {
		retries = 0
	}

	return &DataplaneClient{
		api:             api,
		logger:          logger,
		conflictRetries: retries,
	}, nil
}

// BaseURL returns the versioned API root.
func (c *DataplaneClient) BaseURL() string {
	return c.api.BaseURL()
}

// Package github issues GitHub App installation access tokens.
package github

import (
	"context"
	"crypto"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restops/pkg/httpapi"
)

const (
	DefaultBaseURL    = "https://api.github.com"
	DefaultAPIVersion = "2022-11-28"
	DefaultAlgorithm  = "RS256"

	DefaultJWTDuration   = 30 * time.Second
	DefaultJWTClockDrift = 60 * time.Second

	acceptV3         = "application/vnd.github.v3+json"
	apiVersionHeader = "X-GitHub-Api-Version"
)

// Config configures a Client. Zero values take the documented defaults.
type Config struct {
	BaseURL    string
	APIVersion string

	InstallationID string
	ApplicationID  string

	PrivateKey         string
	PrivateKeyPassword string
	PrivateKeyFormat   string

	JWTDuration   time.Duration
	JWTClockDrift time.Duration
	JWTAlgorithm  string

	HTTPClient *http.Client
	Logger     *slog.Logger

	// Now overrides the clock used for JWT claims.
	Now func() time.Time
}

// AccessToken is the installation token returned by GitHub.
type AccessToken struct {
	Token               string            `json:"token"`
	ExpiresAt           time.Time         `json:"expires_at"`
	Permissions         map[string]string `json:"permissions,omitempty"`
	RepositorySelection string            `json:"repository_selection,omitempty"`
}

// Client requests installation tokens for one App installation.
type Client struct {
	api            *httpapi.Client
	installationID string
}

// New validates cfg, loads the private key and builds a Client that signs
// a fresh JWT for every request.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.InstallationID) == "" {
		return nil, fmt.Errorf("[AppAccessTokenClient] - Initialization failed : 'app_installation_id' is required")
	}
	if strings.TrimSpace(cfg.ApplicationID) == "" {
		return nil, fmt.Errorf("[AppAccessTokenClient] - Initialization failed : 'app_id' is required")
	}
	if strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, fmt.Errorf("[AppAccessTokenClient] - Initialization failed : 'app_private_key' is required")
	}

	key, err := ParsePrivateKey(cfg.PrivateKey, cfg.PrivateKeyFormat, cfg.PrivateKeyPassword)
	if err != nil {
		return nil, fmt.Errorf("[AppAccessTokenClient] - Initialization failed : %w", err)
	}

	cfg = withDefaults(cfg)

	api, err := httpapi.New(httpapi.Config{
		BaseURL:    cfg.BaseURL,
		HTTPClient: cfg.HTTPClient,
		Editors: []httpapi.RequestEditorFn{
			jwtAuth(cfg, key),
			httpapi.StaticHeader("Accept", acceptV3),
			httpapi.StaticHeader(apiVersionHeader, cfg.APIVersion),
		},
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("[AppAccessTokenClient] - Initialization failed : %w", err)
	}

	return &Client{api: api, installationID: strings.TrimSpace(cfg.InstallationID)}, nil
}

// CreateAccessToken requests a new installation access token.
func (c *Client) CreateAccessToken(ctx context.Context) (*AccessToken, error) {
	var out AccessToken
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      "app/installations/" + url.PathEscape(c.installationID) + "/access_tokens",
		Operation: "create installation access token",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func withDefaults(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.JWTAlgorithm == "" {
		cfg.JWTAlgorithm = DefaultAlgorithm
	}
	if cfg.JWTDuration <= 0 {
		cfg.JWTDuration = DefaultJWTDuration
	}
	if cfg.JWTClockDrift <= 0 {
		cfg.JWTClockDrift = DefaultJWTClockDrift
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg
}

func jwtAuth(cfg Config, key crypto.Signer) httpapi.RequestEditorFn {
	return func(_ context.Context, req *http.Request) error {
		token, err := AppJWT(strings.TrimSpace(cfg.ApplicationID), key, cfg.JWTAlgorithm, cfg.Now(), cfg.JWTDuration, cfg.JWTClockDrift)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	}
}

// Package github registers the github_app_token lookup.
package github

import (
	"context"
	"time"

	"restops/pkg/core/config"
	githubapi "restops/pkg/github"
	"restops/pkg/module"
)

// AppTokenParams are the github_app_token lookup arguments.
type AppTokenParams struct {
	BaseURL            string `yaml:"base_url"`
	InstallationID     string `yaml:"installation_id" validate:"required"`
	ApplicationID      string `yaml:"application_id" validate:"required"`
	PrivateKey         string `yaml:"private_key" validate:"required"`
	PrivateKeyPassword string `yaml:"private_key_password"`
	PrivateKeyFormat   string `yaml:"private_key_format" validate:"enum=github_private_key_format"`
	JWTKeyDuration     int    `yaml:"jwt_key_duration" validate:"gte=0"`
	JWTAlgorithm       string `yaml:"jwt_algorithm"`
	GitHubAPIVersion   string `yaml:"github_api_version"`
	ValidateCerts      bool   `yaml:"validate_certs"`
}

// SetDefaults implements config.Defaulter.
func (p *AppTokenParams) SetDefaults() {
	p.BaseURL = config.DefaultGitHubAPIURL
	p.PrivateKeyFormat = githubapi.FormatPKCS8
	p.JWTKeyDuration = config.DefaultJWTDuration
	p.JWTAlgorithm = config.DefaultJWTAlgorithm
	p.GitHubAPIVersion = config.DefaultGitHubAPIVersion
	p.ValidateCerts = true
}

func lookupAppToken(ctx context.Context, env *module.Env, p *AppTokenParams) (any, error) {
	c, err := githubapi.New(githubapi.Config{
		BaseURL:            p.BaseURL,
		APIVersion:         p.GitHubAPIVersion,
		InstallationID:     p.InstallationID,
		ApplicationID:      p.ApplicationID,
		PrivateKey:         p.PrivateKey,
		PrivateKeyPassword: p.PrivateKeyPassword,
		PrivateKeyFormat:   p.PrivateKeyFormat,
		JWTDuration:        time.Duration(p.JWTKeyDuration) * time.Second,
		JWTAlgorithm:       p.JWTAlgorithm,
		HTTPClient:         env.HTTPClient("github", p.ValidateCerts, true),
		Logger:             env.Log("github_app_token"),
		Now:                env.Clock,
	})
	if err != nil {
		return nil, err
	}

	token, err := c.CreateAccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return []any{token}, nil
}

func init() {
	module.RegisterLookup(module.NewLookup("github_app_token", lookupAppToken))
}

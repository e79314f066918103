// Package sonarqube implements the sonarqube_* modules.
package sonarqube

import (
	"fmt"

	"restops/pkg/core/config"
	"restops/pkg/httpapi"
	"restops/pkg/module"
	sonar "restops/pkg/sonarqube"
)

// ConnectionParams are the SonarQube connection arguments shared by every
// module. Username may be a user token with an empty password.
type ConnectionParams struct {
	BaseURL       string `yaml:"base_url" validate:"required"`
	Username      string `yaml:"username" validate:"required"`
	Password      string `yaml:"password"`
	ValidateCerts bool   `yaml:"validate_certs"`
}

// SetDefaults implements config.Defaulter.
func (p *ConnectionParams) SetDefaults() {
	p.ValidateCerts = true
}

// crudParams are the connection and state arguments of the reconciling
// modules.
type crudParams struct {
	ConnectionParams   `yaml:",inline"`
	config.StateParams `yaml:",inline"`
}

// SetDefaults implements config.Defaulter.
func (p *crudParams) SetDefaults() {
	p.ConnectionParams.SetDefaults()
	p.StateParams.SetDefaults()
}

func newClient(env *module.Env, conn ConnectionParams, noLog bool) (*sonar.Client, error) {
	c, err := sonar.New(sonar.Config{
		BaseURL:    conn.BaseURL,
		Username:   conn.Username,
		Password:   conn.Password,
		HTTPClient: env.HTTPClient("sonarqube", conn.ValidateCerts, noLog),
		Logger:     env.Log("sonarqube"),
	})
	if err != nil {
		return nil, fmt.Errorf("[Build Client] - Failed Build Sonarqube API Client: %w", err)
	}
	return c, nil
}

func instance(v any) map[string]any {
	m, err := httpapi.ToMap(v)
	if err != nil {
		return nil
	}
	return m
}

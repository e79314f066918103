// Package haproxy implements the haproxy_* modules and lookups on top of the
// Dataplane API client.
package haproxy

import (
	"encoding/json"
	"fmt"
	"strings"

	"restops/pkg/core/config"
	"restops/pkg/dataplane/client"
	"restops/pkg/enums"
	"restops/pkg/httpapi"
	"restops/pkg/module"
)

// ConnectionParams are the Dataplane API connection arguments shared by
// every module.
type ConnectionParams struct {
	BaseURL         string `yaml:"base_url" validate:"required"`
	Username        string `yaml:"username" validate:"required"`
	Password        string `yaml:"password" validate:"required"`
	APIVersion      string `yaml:"api_version"`
	ValidateCerts   bool   `yaml:"validate_certs"`
	ConflictRetries int    `yaml:"conflict_retries" validate:"gte=0"`
}

// SetDefaults implements config.Defaulter.
func (p *ConnectionParams) SetDefaults() {
	p.APIVersion = config.DefaultDataplaneAPIVersion
	p.ValidateCerts = true
}

// ScopeParams select the transaction or version a mutation is applied to.
type ScopeParams struct {
	TransactionID string `yaml:"transaction_id"`
	ForceReload   bool   `yaml:"force_reload"`
}

// SetDefaults implements config.Defaulter.
func (p *ScopeParams) SetDefaults() {
	p.ForceReload = true
}

// Scope converts the params to a client scope.
func (p ScopeParams) Scope() client.Scope {
	return client.Scope{TransactionID: strings.TrimSpace(p.TransactionID), ForceReload: p.ForceReload}
}

// crudDefaults sets the defaults of the three embedded param groups.
func crudDefaults(conn *ConnectionParams, scope *ScopeParams, state *config.StateParams) {
	conn.SetDefaults()
	scope.SetDefaults()
	state.SetDefaults()
}

func newClient(env *module.Env, conn ConnectionParams) (*client.DataplaneClient, error) {
	return newClientNoLog(env, conn, false)
}

// newClientNoLog is newClient with request and response body logging
// suppressed when noLog is set.
func newClientNoLog(env *module.Env, conn ConnectionParams, noLog bool) (*client.DataplaneClient, error) {
	c, err := client.New(client.Config{
		BaseURL:         conn.BaseURL,
		APIVersion:      conn.APIVersion,
		Username:        conn.Username,
		Password:        conn.Password,
		ConflictRetries: conn.ConflictRetries,
		HTTPClient:      env.HTTPClient("dataplane", conn.ValidateCerts, noLog),
		Logger:          env.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("[Build Client] - Failed Build HA Proxy Dataplane API Client: %w", err)
	}
	return c, nil
}

// toModel copies the JSON form of fields into model. Param structs carry
// json tags named after the Dataplane API fields, so the copy lands on the
// matching client-native model fields.
func toModel(fields, model any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, model)
}

// instance renders v for the "instance" result key without null members.
func instance(v any) map[string]any {
	m, err := httpapi.ToMap(v)
	if err != nil {
		return nil
	}
	return m
}

// matches reports whether desired is a subset of existing. In diff mode
// the drift is logged before the update.
func matches(env *module.Env, desired, existing any) (bool, error) {
	diff, err := httpapi.Diff(desired, existing)
	if err != nil {
		return false, err
	}
	if diff != "" && env.Diff {
		env.Log("haproxy").Info("configuration drift", "diff", diff)
	}
	return diff == "", nil
}

// parseEnums resolves each non-empty value through its set, in place.
func parseEnums(fields ...enumField) error {
	for _, f := range fields {
		v, err := f.set.Parse(*f.value)
		if err != nil {
			return err
		}
		*f.value = v
	}
	return nil
}

type enumField struct {
	value *string
	set   enums.Set
}

func enum(value *string, set enums.Set) enumField {
	return enumField{value: value, set: set}
}

// ParentParams name the section a child resource belongs to.
type ParentParams struct {
	ParentName string `yaml:"parent_name" validate:"required"`
	ParentType string `yaml:"parent_type" validate:"required,oneof=frontend backend"`
}

func (p ParentParams) parent() client.Parent {
	return client.Parent{Type: p.ParentType, Name: p.ParentName}
}

// result builds the result data shared by child resource modules.
func (p ParentParams) result(v any) map[string]any {
	return map[string]any{
		"instance":    instance(v),
		"parent_name": p.ParentName,
		"parent_type": p.ParentType,
	}
}

package haproxy

import (
	"context"
	"fmt"

	"github.com/haproxytech/client-native/v6/models"

	"restops/pkg/core/config"
	"restops/pkg/dataplane/client"
	"restops/pkg/httpapi"
	"restops/pkg/module"
)

type frontendFields struct {
	Name           string         `yaml:"name" json:"name" validate:"required"`
	Mode           string         `yaml:"mode" json:"mode,omitempty" validate:"enum=haproxy_proxy_protocol"`
	DefaultBackend string         `yaml:"default_backend" json:"default_backend,omitempty"`
	Description    string         `yaml:"description" json:"description,omitempty"`
	LogFormat      string         `yaml:"log_format" json:"log_format,omitempty"`
	LogFormatSd    string         `yaml:"log_format_sd" json:"log_format_sd,omitempty"`
	LogTag         string         `yaml:"log_tag" json:"log_tag,omitempty"`
	Logasap        string         `yaml:"logsap" json:"logasap,omitempty" validate:"enum=haproxy_enable_disable"`
	Maxconn        *int64         `yaml:"maxconn" json:"maxconn,omitempty"`
	Enabled        bool           `yaml:"enabled" json:"enabled,omitempty"`
	Httplog        bool           `yaml:"httplog" json:"httplog,omitempty"`
	Httpslog       string         `yaml:"httpslog" json:"httpslog,omitempty" validate:"enum=haproxy_enable_disable"`
	ErrorLogFormat string         `yaml:"error_log_format" json:"error_log_format,omitempty"`
	Forwardfor     map[string]any `yaml:"forwardfor" json:"forwardfor,omitempty"`
	StatsOptions   map[string]any `yaml:"stats_options" json:"stats_options,omitempty"`
}

// FrontendParams are the haproxy_frontend arguments.
type FrontendParams struct {
	ConnectionParams   `yaml:",inline"`
	ScopeParams        `yaml:",inline"`
	config.StateParams `yaml:",inline"`
	frontendFields     `yaml:",inline"`
}

// SetDefaults implements config.Defaulter.
func (p *FrontendParams) SetDefaults() {
	crudDefaults(&p.ConnectionParams, &p.ScopeParams, &p.StateParams)
	p.Mode = "HTTP"
}

func (p *FrontendParams) model() (*models.Frontend, error) {
	f := p.frontendFields
	err := parseEnums(
		enum(&f.Mode, client.ProxyProtocol),
		enum(&f.Logasap, client.EnableDisable),
		enum(&f.Httpslog, client.EnableDisable),
	)
	if err != nil {
		return nil, err
	}

	var frontend models.Frontend
	if err := toModel(f, &frontend); err != nil {
		return nil, fmt.Errorf("invalid frontend: %w", err)
	}
	return &frontend, nil
}

func runFrontend(ctx context.Context, env *module.Env, p *FrontendParams) (module.Result, error) {
	desired, err := p.model()
	if err != nil {
		return module.Result{}, err
	}
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	existing, err := c.GetFrontend(ctx, desired.Name)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Frontend] - Failed Get HA Proxy Frontend (Name : %s): %w", desired.Name, err)
	}

	equal := false
	if existing != nil {
		if equal, err = matches(env, desired, existing); err != nil {
			return module.Result{}, err
		}
	}

	label := fmt.Sprintf("%s - %s", desired.Name, desired.Mode)
	data := map[string]any{"instance": instance(desired)}
	scope := p.Scope()

	switch module.Decide(existing != nil, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged("Frontend ["+label+"] Not Changed", data), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateFrontend(ctx, scope, desired.Name, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Update Frontend] - Failed Update HA Proxy Frontend (Name : %s): %w", desired.Name, err)
			}
		}
		return module.Changed("Frontend ["+label+"] Has Been Updated", data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateFrontend(ctx, scope, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Create Frontend] - Failed Create HA Proxy Frontend (Name : %s): %w", desired.Name, err)
			}
		}
		return module.Changed("["+label+"] Has been Created", data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteFrontend(ctx, scope, desired.Name); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Frontend] - Failed Delete HA Proxy Frontend (Name : %s): %w", desired.Name, err)
			}
		}
		return module.Changed("["+label+"] Has been Deleted", data), nil
	default:
		return module.Unchanged("["+label+"] Not Found", data), nil
	}
}

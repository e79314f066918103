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

type backendFields struct {
	Name                      string         `yaml:"name" json:"name" validate:"required"`
	Mode                      string         `yaml:"mode" json:"mode,omitempty" validate:"enum=haproxy_proxy_protocol"`
	AdvCheck                  string         `yaml:"adv_check" json:"adv_check,omitempty" validate:"enum=haproxy_adv_check"`
	Balance                   map[string]any `yaml:"balance" json:"balance,omitempty"`
	HttpchkParams             map[string]any `yaml:"httpchk_params" json:"httpchk_params,omitempty"`
	PgsqlCheckParams          map[string]any `yaml:"pgsql_check_params" json:"pgsql_check_params,omitempty"`
	IgnorePersist             map[string]any `yaml:"ignore_persist" json:"ignore_persist,omitempty"`
	Forwardfor                map[string]any `yaml:"forwardfor" json:"forwardfor,omitempty"`
	StatsOptions              map[string]any `yaml:"stats_options" json:"stats_options,omitempty"`
	Abortonclose              string         `yaml:"abortonclose" json:"abortonclose,omitempty" validate:"enum=haproxy_enable_disable"`
	AcceptInvalidHTTPResponse string         `yaml:"accept_invalid_http_response" json:"accept_invalid_http_response,omitempty" validate:"enum=haproxy_enable_disable"`
	Allbackups                string         `yaml:"allbackups" json:"allbackups,omitempty" validate:"enum=haproxy_enable_disable"`
	Checkcache                string         `yaml:"checkcache" json:"checkcache,omitempty" validate:"enum=haproxy_enable_disable"`
	ExternalCheck             string         `yaml:"external_check" json:"external_check,omitempty" validate:"enum=haproxy_enable_disable"`
	Nolinger                  string         `yaml:"nolinger" json:"nolinger,omitempty" validate:"enum=haproxy_enable_disable"`
	PreferLastServer          string         `yaml:"prefer_last_server" json:"prefer_last_server,omitempty" validate:"enum=haproxy_enable_disable"`
	SpliceAuto                string         `yaml:"splice_auto" json:"splice_auto,omitempty" validate:"enum=haproxy_enable_disable"`
	SpliceRequest             string         `yaml:"splice_request" json:"splice_request,omitempty" validate:"enum=haproxy_enable_disable"`
	SpliceResponse            string         `yaml:"splice_response" json:"splice_response,omitempty" validate:"enum=haproxy_enable_disable"`
	SpopCheck                 string         `yaml:"spop_check" json:"spop_check,omitempty" validate:"enum=haproxy_enable_disable"`
	Srvtcpka                  string         `yaml:"srvtcpka" json:"srvtcpka,omitempty" validate:"enum=haproxy_enable_disable"`
	IndependentStreams        string         `yaml:"independent_streams" json:"independent_streams,omitempty" validate:"enum=haproxy_enable_disable"`
	LogHealthChecks           string         `yaml:"log_health_checks" json:"log_health_checks,omitempty" validate:"enum=haproxy_enable_disable"`
	CheckTimeout              *int64         `yaml:"check_timeout" json:"check_timeout,omitempty"`
	ConnectTimeout            *int64         `yaml:"connect_timeout" json:"connect_timeout,omitempty"`
	Description               string         `yaml:"description" json:"description,omitempty"`
	Disabled                  bool           `yaml:"disabled" json:"disabled,omitempty"`
	Enabled                   bool           `yaml:"enabled" json:"enabled,omitempty"`
	ExternalCheckCommand      string         `yaml:"external_check_command" json:"external_check_command,omitempty"`
	ExternalCheckPath         string         `yaml:"external_check_path" json:"external_check_path,omitempty"`
	Fullconn                  *int64         `yaml:"fullconn" json:"fullconn,omitempty"`
	QueueTimeout              *int64         `yaml:"queue_timeout" json:"queue_timeout,omitempty"`
	Retries                   *int64         `yaml:"retries" json:"retries,omitempty"`
	RetryOn                   string         `yaml:"retry_on" json:"retry_on,omitempty"`
	ServerFinTimeout          *int64         `yaml:"server_fin_timeout" json:"server_fin_timeout,omitempty"`
	ServerStateFileName       string         `yaml:"server_state_file_name" json:"server_state_file_name,omitempty"`
	ServerTimeout             *int64         `yaml:"server_timeout" json:"server_timeout,omitempty"`
	SrvtcpkaCnt               *int64         `yaml:"srvtcpka_cnt" json:"srvtcpka_cnt,omitempty"`
	SrvtcpkaIdle              *int64         `yaml:"srvtcpka_idle" json:"srvtcpka_idle,omitempty"`
	SrvtcpkaIntvl             *int64         `yaml:"srvtcpka_intvl" json:"srvtcpka_intvl,omitempty"`
}

// BackendParams are the haproxy_backend arguments.
type BackendParams struct {
	ConnectionParams   `yaml:",inline"`
	ScopeParams        `yaml:",inline"`
	config.StateParams `yaml:",inline"`
	backendFields      `yaml:",inline"`
}

// SetDefaults implements config.Defaulter.
func (p *BackendParams) SetDefaults() {
	crudDefaults(&p.ConnectionParams, &p.ScopeParams, &p.StateParams)
	p.Mode = "HTTP"
}

func (p *BackendParams) model() (*models.Backend, error) {
	f := p.backendFields
	toggles := []*string{
		&f.Abortonclose, &f.AcceptInvalidHTTPResponse, &f.Allbackups, &f.Checkcache,
		&f.ExternalCheck, &f.Nolinger, &f.PreferLastServer, &f.SpliceAuto,
		&f.SpliceRequest, &f.SpliceResponse, &f.SpopCheck, &f.Srvtcpka,
		&f.IndependentStreams, &f.LogHealthChecks,
	}
	fields := []enumField{enum(&f.Mode, client.ProxyProtocol), enum(&f.AdvCheck, client.AdvancedHealthCheck)}
	for _, t := range toggles {
		fields = append(fields, enum(t, client.EnableDisable))
	}
	if err := parseEnums(fields...); err != nil {
		return nil, err
	}
	if alg, ok := f.Balance["algorithm"].(string); ok {
		v, err := client.LoadBalancingAlgorithm.Parse(alg)
		if err != nil {
			return nil, err
		}
		f.Balance["algorithm"] = v
	}

	var backend models.Backend
	if err := toModel(f, &backend); err != nil {
		return nil, fmt.Errorf("invalid backend: %w", err)
	}
	return &backend, nil
}

func runBackend(ctx context.Context, env *module.Env, p *BackendParams) (module.Result, error) {
	desired, err := p.model()
	if err != nil {
		return module.Result{}, err
	}
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	existing, err := c.GetBackend(ctx, desired.Name)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Backend] - Failed Get HA Proxy Backend (Name : %s): %w", desired.Name, err)
	}

	equal := false
	if existing != nil {
		if equal, err = matches(env, desired, existing); err != nil {
			return module.Result{}, err
		}
	}

	action := module.Decide(existing != nil, p.Present(), equal)
	label := fmt.Sprintf("%s - %s", desired.Name, desired.Mode)
	data := map[string]any{"instance": instance(desired)}
	scope := p.Scope()

	switch action {
	case module.NoChange:
		return module.Unchanged("Backend ["+label+"] Not Changed", data), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateBackend(ctx, scope, desired.Name, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Update Backend] - Failed Update HA Proxy Backend (Name : %s): %w", desired.Name, err)
			}
		}
		return module.Changed("Backend ["+label+"] Has Been Updated", data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateBackend(ctx, scope, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Create Backend] - Failed Create HA Proxy Backend (Name : %s): %w", desired.Name, err)
			}
		}
		return module.Changed("["+label+"] Has been Created", data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteBackend(ctx, scope, desired.Name); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Backend] - Failed Delete HA Proxy Backend (Name : %s): %w", desired.Name, err)
			}
		}
		return module.Changed("["+label+"] Has been Deleted", data), nil
	default:
		return module.Unchanged("["+label+"] Not Found", data), nil
	}
}

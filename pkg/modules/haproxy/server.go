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

type serverFields struct {
	Name               string `yaml:"name" json:"name" validate:"required"`
	Address            string `yaml:"address" json:"address" validate:"required"`
	Port               *int64 `yaml:"port" json:"port" validate:"required"`
	Verify             string `yaml:"verify" json:"verify,omitempty" validate:"enum=haproxy_requirement"`
	Verifyhost         string `yaml:"verifyhost" json:"verifyhost,omitempty"`
	Weight             *int64 `yaml:"weight" json:"weight,omitempty"`
	Track              string `yaml:"track" json:"track,omitempty"`
	Ws                 string `yaml:"ws" json:"ws,omitempty" validate:"enum=haproxy_ws_protocol"`
	Check              string `yaml:"check" json:"check,omitempty" validate:"enum=haproxy_enable_disable"`
	HealthCheckAddress string `yaml:"health_check_address" json:"health_check_address,omitempty"`
	HealthCheckPort    *int64 `yaml:"health_check_port" json:"health_check_port,omitempty"`
	MaxReuse           *int64 `yaml:"max_reuse" json:"max_reuse,omitempty"`
	Maxconn            *int64 `yaml:"maxconn" json:"maxconn,omitempty"`
	Maxqueue           *int64 `yaml:"maxqueue" json:"maxqueue,omitempty"`
	Minconn            *int64 `yaml:"minconn" json:"minconn,omitempty"`
	Npn                string `yaml:"npn" json:"npn,omitempty"`
	Fall               *int64 `yaml:"fall" json:"fall,omitempty"`
	Rise               *int64 `yaml:"rise" json:"rise,omitempty"`
	Inter              *int64 `yaml:"inter" json:"inter,omitempty"`
	Fastinter          *int64 `yaml:"fastinter" json:"fastinter,omitempty"`
	ErrorLimit         *int64 `yaml:"error_limit" json:"error_limit,omitempty"`
	PoolLowConn        *int64 `yaml:"pool_low_conn" json:"pool_low_conn,omitempty"`
	PoolMaxConn        *int64 `yaml:"pool_max_conn" json:"pool_max_conn,omitempty"`
	PoolPurgeDelay     *int64 `yaml:"pool_purge_delay" json:"pool_purge_delay,omitempty"`
	Proto              string `yaml:"proto" json:"proto,omitempty"`
	Redir              string `yaml:"redir" json:"redir,omitempty"`
	ResolveOpts        string `yaml:"resolve_opts" json:"resolve_opts,omitempty"`
	Resolvers          string `yaml:"resolvers" json:"resolvers,omitempty"`
	SslCafile          string `yaml:"ssl_cafile" json:"ssl_cafile,omitempty"`
	SslCertificate     string `yaml:"ssl_certificate" json:"ssl_certificate,omitempty"`
	TCPUt              *int64 `yaml:"tcp_ut" json:"tcp_ut,omitempty"`
	Maintenance        string `yaml:"maintenance" json:"maintenance,omitempty" validate:"enum=haproxy_enable_disable"`
	NoSslv3            string `yaml:"no_sslv3" json:"no_sslv3,omitempty" validate:"enum=haproxy_enable_disable"`
	NoTlsv10           string `yaml:"no_tlsv10" json:"no_tlsv10,omitempty" validate:"enum=haproxy_enable_disable"`
	NoTlsv11           string `yaml:"no_tlsv11" json:"no_tlsv11,omitempty" validate:"enum=haproxy_enable_disable"`
	NoTlsv12           string `yaml:"no_tlsv12" json:"no_tlsv12,omitempty" validate:"enum=haproxy_enable_disable"`
	NoTlsv13           string `yaml:"no_tlsv13" json:"no_tlsv13,omitempty" validate:"enum=haproxy_enable_disable"`
	NoVerifyhost       string `yaml:"no_verifyhost" json:"no_verifyhost,omitempty" validate:"enum=haproxy_enable_disable"`
	Stick              string `yaml:"stick" json:"stick,omitempty" validate:"enum=haproxy_enable_disable"`
	Tfo                string `yaml:"tfo" json:"tfo,omitempty" validate:"enum=haproxy_enable_disable"`
	SendProxyV2Ssl     string `yaml:"send_proxy_v2_ssl" json:"send_proxy_v2_ssl,omitempty" validate:"enum=haproxy_enable_disable"`
	SendProxyV2SslCn   string `yaml:"send_proxy_v2_ssl_cn" json:"send_proxy_v2_ssl_cn,omitempty" validate:"enum=haproxy_enable_disable"`
	SslReuse           string `yaml:"ssl_reuse" json:"ssl_reuse,omitempty" validate:"enum=haproxy_enable_disable"`
	Ssl                string `yaml:"ssl" json:"ssl,omitempty" validate:"enum=haproxy_enable_disable"`
	SslMaxVer          string `yaml:"ssl_max_ver" json:"ssl_max_ver,omitempty" validate:"enum=haproxy_ssl_version"`
	SslMinVer          string `yaml:"ssl_min_ver" json:"ssl_min_ver,omitempty" validate:"enum=haproxy_ssl_version"`
}

// ServerParams are the haproxy_server arguments.
type ServerParams struct {
	ConnectionParams   `yaml:",inline"`
	ScopeParams        `yaml:",inline"`
	config.StateParams `yaml:",inline"`
	ParentParams       `yaml:",inline"`
	serverFields       `yaml:",inline"`
}

// SetDefaults implements config.Defaulter.
func (p *ServerParams) SetDefaults() {
	crudDefaults(&p.ConnectionParams, &p.ScopeParams, &p.StateParams)
}

func (p *ServerParams) model() (*models.Server, error) {
	f := p.serverFields
	fields := []enumField{
		enum(&f.Verify, client.Requirement),
		enum(&f.Ws, client.WebSocketProtocol),
		enum(&f.SslMaxVer, client.SSLVersion),
		enum(&f.SslMinVer, client.SSLVersion),
	}
	for _, t := range []*string{
		&f.Check, &f.Maintenance, &f.NoSslv3, &f.NoTlsv10, &f.NoTlsv11, &f.NoTlsv12,
		&f.NoTlsv13, &f.NoVerifyhost, &f.Stick, &f.Tfo, &f.SendProxyV2Ssl,
		&f.SendProxyV2SslCn, &f.SslReuse, &f.Ssl,
	} {
		fields = append(fields, enum(t, client.EnableDisable))
	}
	if err := parseEnums(fields...); err != nil {
		return nil, err
	}

	var server models.Server
	if err := toModel(f, &server); err != nil {
		return nil, fmt.Errorf("invalid server: %w", err)
	}
	return &server, nil
}

func runServer(ctx context.Context, env *module.Env, p *ServerParams) (module.Result, error) {
	desired, err := p.model()
	if err != nil {
		return module.Result{}, err
	}
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	parent := p.parent()
	existing, err := c.GetServer(ctx, parent, desired.Name)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Server] - Failed Get HA Proxy Server (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
	}

	equal := false
	if existing != nil {
		if equal, err = matches(env, desired, existing); err != nil {
			return module.Result{}, err
		}
	}

	label := fmt.Sprintf("[Parent : %s, Name : %s]", parent, desired.Name)
	data := p.result(desired)
	scope := p.Scope()

	switch module.Decide(existing != nil, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged("Server "+label+" Not Changed", data), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateServer(ctx, scope, parent, desired.Name, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Update Server] - Failed Update HA Proxy Server (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Server "+label+" Has Been Updated", data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateServer(ctx, scope, parent, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Create Server] - Failed Create HA Proxy Server (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Server "+label+" Has Been Created", data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteServer(ctx, scope, parent, desired.Name); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Server] - Failed Delete HA Proxy Server (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Server "+label+" Has Been Deleted", data), nil
	default:
		return module.Unchanged("Server Not Found "+label, data), nil
	}
}

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

type bindFields struct {
	Name                 string `yaml:"name" json:"name" validate:"required"`
	Address              string `yaml:"address" json:"address,omitempty"`
	Port                 *int64 `yaml:"port" json:"port,omitempty"`
	Maxconn              *int64 `yaml:"maxconn" json:"maxconn,omitempty"`
	Ssl                  bool   `yaml:"ssl" json:"ssl,omitempty"`
	SslCafile            string `yaml:"ssl_cafile" json:"ssl_cafile,omitempty"`
	SslCertificate       string `yaml:"ssl_certificate" json:"ssl_certificate,omitempty"`
	StrictSni            bool   `yaml:"strict_sni" json:"strict_sni,omitempty"`
	TCPUserTimeout       *int64 `yaml:"tcp_user_timeout" json:"tcp_user_timeout,omitempty"`
	Tfo                  bool   `yaml:"tfo" json:"tfo,omitempty"`
	Thread               string `yaml:"thread" json:"thread,omitempty"`
	TLSTicketKeys        string `yaml:"tls_ticket_keys" json:"tls_ticket_keys,omitempty"`
	Transparent          bool   `yaml:"transparent" json:"transparent,omitempty"`
	UID                  string `yaml:"uid" json:"uid,omitempty"`
	User                 string `yaml:"user" json:"user,omitempty"`
	V4v6                 bool   `yaml:"v4v6" json:"v4v6,omitempty"`
	V6only               bool   `yaml:"v6only" json:"v6only,omitempty"`
	NoAlpn               bool   `yaml:"no_alpn" json:"no_alpn,omitempty"`
	NoCaNames            bool   `yaml:"no_ca_names" json:"no_ca_names,omitempty"`
	NoSslv3              bool   `yaml:"no_sslv3" json:"no_sslv3,omitempty"`
	NoTLSTickets         bool   `yaml:"no_tls_tickets" json:"no_tls_tickets,omitempty"`
	NoTlsv10             bool   `yaml:"no_tlsv10" json:"no_tlsv10,omitempty"`
	NoTlsv11             bool   `yaml:"no_tlsv11" json:"no_tlsv11,omitempty"`
	NoTlsv12             bool   `yaml:"no_tlsv12" json:"no_tlsv12,omitempty"`
	NoTlsv13             bool   `yaml:"no_tlsv13" json:"no_tlsv13,omitempty"`
	ForceSslv3           bool   `yaml:"force_sslv3" json:"force_sslv3,omitempty"`
	ForceTlsv10          bool   `yaml:"force_tlsv10" json:"force_tlsv10,omitempty"`
	ForceTlsv11          bool   `yaml:"force_tlsv11" json:"force_tlsv11,omitempty"`
	ForceTlsv12          bool   `yaml:"force_tlsv12" json:"force_tlsv12,omitempty"`
	ForceTlsv13          bool   `yaml:"force_tlsv13" json:"force_tlsv13,omitempty"`
	GenerateCertificates bool   `yaml:"generate_certificates" json:"generate_certificates,omitempty"`
	CrtList              string `yaml:"crt_list" json:"crt_list,omitempty"`
	CaIgnoreErr          string `yaml:"ca_ignore_err" json:"ca_ignore_err,omitempty"`
	CaSignFile           string `yaml:"ca_sign_file" json:"ca_sign_file,omitempty"`
	CaSignPass           string `yaml:"ca_sign_pass" json:"ca_sign_pass,omitempty"`
	CaVerifyFile         string `yaml:"ca_verify_file" json:"ca_verify_file,omitempty"`
	Ciphers              string `yaml:"ciphers" json:"ciphers,omitempty"`
	Ciphersuites         string `yaml:"ciphersuites" json:"ciphersuites,omitempty"`
	ClientSigalgs        string `yaml:"client_sigalgs" json:"client_sigalgs,omitempty"`
	CrlFile              string `yaml:"crl_file" json:"crl_file,omitempty"`
	CrtIgnoreErr         string `yaml:"crt_ignore_err" json:"crt_ignore_err,omitempty"`
	Curves               string `yaml:"curves" json:"curves,omitempty"`
	DeferAccept          bool   `yaml:"defer_accept" json:"defer_accept,omitempty"`
	AcceptProxy          bool   `yaml:"accept_proxy" json:"accept_proxy,omitempty"`
	Allow0rtt            bool   `yaml:"allow_0rtt" json:"allow_0rtt,omitempty"`
	Alpn                 string `yaml:"alpn" json:"alpn,omitempty"`
	Verify               string `yaml:"verify" json:"verify,omitempty" validate:"enum=haproxy_requirement"`
	SslMaxVer            string `yaml:"ssl_max_ver" json:"ssl_max_ver,omitempty" validate:"enum=haproxy_ssl_version"`
	SslMinVer            string `yaml:"ssl_min_ver" json:"ssl_min_ver,omitempty" validate:"enum=haproxy_ssl_version"`
	Level                string `yaml:"level" json:"level,omitempty" validate:"enum=haproxy_stats_level"`
}

// BindParams are the haproxy_bind arguments.
type BindParams struct {
	ConnectionParams   `yaml:",inline"`
	ScopeParams        `yaml:",inline"`
	config.StateParams `yaml:",inline"`
	ParentParams       `yaml:",inline"`
	bindFields         `yaml:",inline"`
}

// SetDefaults implements config.Defaulter.
func (p *BindParams) SetDefaults() {
	crudDefaults(&p.ConnectionParams, &p.ScopeParams, &p.StateParams)
	p.ParentType = "frontend"
}

func (p *BindParams) model() (*models.Bind, error) {
	f := p.bindFields
	err := parseEnums(
		enum(&f.Verify, client.Requirement),
		enum(&f.SslMaxVer, client.SSLVersion),
		enum(&f.SslMinVer, client.SSLVersion),
		enum(&f.Level, client.StatsLevel),
	)
	if err != nil {
		return nil, err
	}

	var bind models.Bind
	if err := toModel(f, &bind); err != nil {
		return nil, fmt.Errorf("invalid bind: %w", err)
	}
	return &bind, nil
}

func runBind(ctx context.Context, env *module.Env, p *BindParams) (module.Result, error) {
	desired, err := p.model()
	if err != nil {
		return module.Result{}, err
	}
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	parent := p.parent()
	existing, err := c.GetBind(ctx, parent, desired.Name)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Bind] - Failed Get HA Proxy Bind (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
	}

	equal := false
	if existing != nil {
		if equal, err = matches(env, desired, existing); err != nil {
			return module.Result{}, err
		}
	}

	label := fmt.Sprintf("[%s - %s]", desired.Name, parent)
	data := p.result(desired)
	scope := p.Scope()

	switch module.Decide(existing != nil, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged("Bind "+label+" Not Changed", data), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateBind(ctx, scope, parent, desired.Name, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Update Bind] - Failed Update HA Proxy Bind (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Bind "+label+" Has Been Updated", data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateBind(ctx, scope, parent, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Create Bind] - Failed Create HA Proxy Bind (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Bind "+label+" Has Been Created", data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteBind(ctx, scope, parent, desired.Name); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Bind] - Failed Delete HA Proxy Bind (Name : %s, Parent : %s:%s): %w", desired.Name, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("Bind "+label+" Has Been Deleted", data), nil
	default:
		return module.Unchanged("Bind Not Found "+label, data), nil
	}
}

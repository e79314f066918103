package haproxy

import (
	"context"
	"fmt"

	"restops/pkg/core/config"
	"restops/pkg/dataplane/client"
	"restops/pkg/httpapi"
	"restops/pkg/module"
)

// SSLCertificateParams are the haproxy_ssl_certificate arguments.
type SSLCertificateParams struct {
	ConnectionParams   `yaml:",inline"`
	config.StateParams `yaml:",inline"`

	Name        string `yaml:"name" validate:"required"`
	Path        string `yaml:"path"`
	ForceUpdate bool   `yaml:"force_update"`
	ForceReload bool   `yaml:"force_reload"`
}

// SetDefaults implements config.Defaulter.
func (p *SSLCertificateParams) SetDefaults() {
	p.ConnectionParams.SetDefaults()
	p.StateParams.SetDefaults()
	p.ForceUpdate = true
	p.ForceReload = true
}

func runSSLCertificate(ctx context.Context, env *module.Env, p *SSLCertificateParams) (module.Result, error) {
	c, err := newClientNoLog(env, p.ConnectionParams, true)
	if err != nil {
		return module.Result{}, err
	}

	existing, err := c.GetSSLCertificate(ctx, p.Name)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Certificate] - Failed Get HA Proxy Certificate (Name : %s): %w", p.Name, err)
	}
	found := existing != nil

	var out client.SSLCertificate
	switch module.Decide(found, p.Present(), !p.ForceUpdate) {
	case module.NoChange:
		return module.Unchanged(fmt.Sprintf("Certificate [%s] Not Changed", p.Name), certData(existing)), nil
	case module.Update:
		out = existing
		if !env.CheckMode {
			if out, err = c.UpdateSSLCertificate(ctx, p.Name, p.Path, p.ForceReload); err != nil {
				return module.Result{}, fmt.Errorf("[Update Certificate] - Failed Update HA Proxy Certificate (Name : %s): %w", p.Name, err)
			}
		}
		return module.Changed(fmt.Sprintf("Certificate [%s] Has Been Updated", p.Name), certData(out)), nil
	case module.Create:
		out = client.SSLCertificate{"storage_name": p.Name}
		if !env.CheckMode {
			if out, err = c.CreateSSLCertificate(ctx, p.Name, p.Path, p.ForceReload); err != nil {
				return module.Result{}, fmt.Errorf("[Create Certificate] - Failed Create HA Proxy Certificate (Name : %s): %w", p.Name, err)
			}
		}
		return module.Changed(fmt.Sprintf("Certificate[%s] Has been Created", p.Name), certData(out)), nil
	case module.Delete:
		out = existing
		if !env.CheckMode {
			if out, err = c.DeleteSSLCertificate(ctx, p.Name, p.ForceReload); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Certificate] - Failed Delete HA Proxy Certificate (Name : %s): %w", p.Name, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Deleted", p.Name), certData(out)), nil
	default:
		return module.Unchanged(fmt.Sprintf("[%s] Not Found", p.Name), certData(nil)), nil
	}
}

func certData(cert client.SSLCertificate) map[string]any {
	if cert == nil {
		return map[string]any{"instance": map[string]any{}}
	}
	return map[string]any{"instance": map[string]any(cert)}
}

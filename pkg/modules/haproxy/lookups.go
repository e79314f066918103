package haproxy

import (
	"context"
	"fmt"

	"restops/pkg/module"
)

// TxLookupParams are the haproxy_tx lookup arguments.
type TxLookupParams struct {
	ConnectionParams `yaml:",inline"`

	// Version is the configuration version to open the transaction on.
	// Zero selects the current version.
	Version int64 `yaml:"version" validate:"gte=0"`
}

func lookupTransaction(ctx context.Context, env *module.Env, p *TxLookupParams) (any, error) {
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return nil, err
	}
	tx, err := c.CreateTransaction(ctx, p.Version)
	if err != nil {
		return nil, fmt.Errorf("[Create Transaction] - Failed Create HA Proxy Dataplane API Transaction : %w", err)
	}
	return []any{tx}, nil
}

// CertLookupParams are the haproxy_cert lookup arguments.
type CertLookupParams struct {
	ConnectionParams `yaml:",inline"`

	Name string `yaml:"name" validate:"required"`
}

func lookupCertificate(ctx context.Context, env *module.Env, p *CertLookupParams) (any, error) {
	c, err := newClientNoLog(env, p.ConnectionParams, true)
	if err != nil {
		return nil, err
	}
	cert, err := c.GetSSLCertificate(ctx, p.Name)
	if err != nil {
		return nil, fmt.Errorf("[Get Certificate] - Failed Get HA Proxy Certificate (Name : %s): %w", p.Name, err)
	}
	return []any{cert}, nil
}

// Package ovh implements the ovh_dns_record module.
package ovh

import (
	"context"
	"fmt"

	"restops/pkg/core/config"
	"restops/pkg/module"
	ovhapi "restops/pkg/ovh"
)

// DNSRecordParams are the ovh_dns_record arguments.
type DNSRecordParams struct {
	config.StateParams `yaml:",inline"`

	Endpoint          string `yaml:"endpoint" validate:"required"`
	ApplicationKey    string `yaml:"application_key" validate:"required"`
	ApplicationSecret string `yaml:"application_secret" validate:"required"`
	ConsumerKey       string `yaml:"consumer_key" validate:"required"`

	Domain     string `yaml:"domain" validate:"required"`
	RecordName string `yaml:"record_name" validate:"required"`
	RecordType string `yaml:"record_type" validate:"enum=ovh_record_type"`
	Target     string `yaml:"target" validate:"required"`
	TTL        int64  `yaml:"ttl" validate:"gte=0"`
}

// SetDefaults implements config.Defaulter.
func (p *DNSRecordParams) SetDefaults() {
	p.StateParams.SetDefaults()
	p.Endpoint = config.DefaultOVHEndpoint
	p.RecordType = config.DefaultDNSRecordType
	p.TTL = config.DefaultDNSRecordTTL
}

func runDNSRecord(ctx context.Context, env *module.Env, p *DNSRecordParams) (module.Result, error) {
	// Check runs never contact OVH.
	if env.CheckMode {
		return module.Changed("", nil), nil
	}

	fieldType := ovhapi.RecordType.MustParse(p.RecordType)
	if p.Present() {
		if err := ovhapi.CheckTarget(fieldType, p.Target); err != nil {
			return module.Result{}, err
		}
	}
	label := fmt.Sprintf("[%s %s.%s]", fieldType, p.RecordName, p.Domain)

	c, err := ovhapi.New(ovhapi.Config{
		Endpoint:          p.Endpoint,
		ApplicationKey:    p.ApplicationKey,
		ApplicationSecret: p.ApplicationSecret,
		ConsumerKey:       p.ConsumerKey,
		HTTPClient:        env.HTTPClient("ovh", true, true),
		Logger:            env.Log("ovh_dns_record"),
	})
	if err != nil {
		return module.Result{}, err
	}

	known, err := c.HasZone(ctx, p.Domain)
	if err != nil {
		return module.Result{}, err
	}
	if !known {
		return module.Result{}, fmt.Errorf("The target domain [%s] is unknown", p.Domain) //nolint:staticcheck // message shown to users as is
	}

	ids, err := c.RecordIDs(ctx, p.Domain, fieldType, p.RecordName)
	if err != nil {
		return module.Result{}, err
	}

	desired := ovhapi.Record{SubDomain: p.RecordName, FieldType: fieldType, Target: p.Target, TTL: p.TTL}
	if p.Present() {
		return ensureRecord(ctx, c, p.Domain, label, ids, desired)
	}
	return removeRecords(ctx, c, p.Domain, label, ids)
}

func ensureRecord(ctx context.Context, c *ovhapi.Client, zone, label string, ids []int64, desired ovhapi.Record) (module.Result, error) {
	if len(ids) == 0 {
		created, err := c.CreateRecord(ctx, zone, desired)
		if err != nil {
			return module.Result{}, err
		}
		if err := c.Refresh(ctx, zone); err != nil {
			return module.Result{}, err
		}
		return module.Changed(label+" Has been Created", map[string]any{
			"id":        created.ID,
			"zone":      created.Zone,
			"subDomain": created.SubDomain,
			"fieldType": created.FieldType,
			"target":    created.Target,
			"ttl":       created.TTL,
		}), nil
	}

	for _, id := range ids {
		record, err := c.GetRecord(ctx, zone, id)
		if err != nil {
			return module.Result{}, err
		}
		if record.Target == desired.Target && record.TTL == desired.TTL {
			return module.Unchanged(label+" Not Changed", nil), nil
		}
	}

	if err := c.UpdateRecord(ctx, zone, ids[0], desired); err != nil {
		return module.Result{}, err
	}
	if err := c.Refresh(ctx, zone); err != nil {
		return module.Result{}, err
	}
	return module.Changed(label+" Has been Updated", nil), nil
}

func removeRecords(ctx context.Context, c *ovhapi.Client, zone, label string, ids []int64) (module.Result, error) {
	if len(ids) == 0 {
		return module.Unchanged(label+" Not Found", nil), nil
	}

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		record, err := c.GetRecord(ctx, zone, id)
		if err != nil {
			return module.Result{}, err
		}
		if err := c.DeleteRecord(ctx, zone, id); err != nil {
			return module.Result{}, err
		}
		deleted = append(deleted, record.String())
	}

	if err := c.Refresh(ctx, zone); err != nil {
		return module.Result{}, err
	}
	return module.Changed(label+" Has been Deleted", map[string]any{"deleted": deleted}), nil
}

func init() {
	module.Register(module.New("ovh_dns_record", runDNSRecord))
}

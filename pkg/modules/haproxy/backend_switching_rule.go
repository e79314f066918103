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

// BackendSwitchingRuleParams are the haproxy_backend_switching_rule
// arguments. The rule is identified by the backend it switches to.
type BackendSwitchingRuleParams struct {
	ConnectionParams   `yaml:",inline"`
	ScopeParams        `yaml:",inline"`
	config.StateParams `yaml:",inline"`

	Frontend string `yaml:"rule_frontend" validate:"required"`
	Name     string `yaml:"rule_name"`
	Cond     string `yaml:"rule_cond" validate:"enum=haproxy_condition"`
	CondTest string `yaml:"rule_cond_test"`
}

// SetDefaults implements config.Defaulter.
func (p *BackendSwitchingRuleParams) SetDefaults() {
	crudDefaults(&p.ConnectionParams, &p.ScopeParams, &p.StateParams)
}

func runBackendSwitchingRule(ctx context.Context, env *module.Env, p *BackendSwitchingRuleParams) (module.Result, error) {
	cond, err := client.ConditionType.Parse(p.Cond)
	if err != nil {
		return module.Result{}, err
	}
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	rules, err := c.GetBackendSwitchingRules(ctx, p.Frontend)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Rules] - Failed Get HA Proxy Rules (Frontend : %s): %w", p.Frontend, err)
	}

	desired := client.Indexed[models.BackendSwitchingRule]{
		Index: int64(len(rules)),
		Item:  models.BackendSwitchingRule{Name: p.Name, Cond: cond, CondTest: p.CondTest},
	}
	existing, found := findByName(rules, p.Name, func(r models.BackendSwitchingRule) string { return r.Name })
	equal := false
	if found {
		desired.Index = existing.Index
		if equal, err = matches(env, desired.Item, existing.Item); err != nil {
			return module.Result{}, err
		}
	}

	label := fmt.Sprintf("[Frontend : %s, Name : %s/%d]", p.Frontend, p.Name, desired.Index)
	data := map[string]any{"instance": instance(desired), "frontend": p.Frontend}
	scope := p.Scope()

	switch module.Decide(found, p.Present(), equal) {
	case module.NoChange:
		data["instance"] = instance(existing)
		return module.Unchanged("Rule "+label+" Not Changed", data), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateBackendSwitchingRule(ctx, scope, p.Frontend, desired.Index, desired.Item); err != nil {
				return module.Result{}, fmt.Errorf("[Update Rule] - Failed Update HA Proxy Rule (Index : %d, Frontend : %s): %w", desired.Index, p.Frontend, err)
			}
		}
		return module.Changed("Rule "+label+" Has Been Updated", data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateBackendSwitchingRule(ctx, scope, p.Frontend, desired.Index, desired.Item); err != nil {
				return module.Result{}, fmt.Errorf("[Create Rule] - Failed Create HA Proxy Rule (Name : %s, Frontend : %s): %w", p.Name, p.Frontend, err)
			}
		}
		return module.Changed("Rule "+label+" Has Been Created", data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteBackendSwitchingRule(ctx, scope, p.Frontend, desired.Index); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Rule] - Failed Delete HA Proxy Rule (Index : %d, Frontend : %s): %w", desired.Index, p.Frontend, err)
			}
		}
		return module.Changed("Rule "+label+" Has Been Deleted", data), nil
	default:
		return module.Unchanged("Rule Not Found "+label, data), nil
	}
}

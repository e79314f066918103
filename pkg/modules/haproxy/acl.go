package haproxy

import (
	"context"
	"fmt"
	"strings"

	"github.com/haproxytech/client-native/v6/models"

	"restops/pkg/core/config"
	"restops/pkg/dataplane/client"
	"restops/pkg/httpapi"
	"restops/pkg/module"
)

// ACLParams are the haproxy_acl arguments.
type ACLParams struct {
	ConnectionParams   `yaml:",inline"`
	ScopeParams        `yaml:",inline"`
	config.StateParams `yaml:",inline"`

	ParentName string `yaml:"acl_parent_name" validate:"required"`
	ParentType string `yaml:"acl_parent_type" validate:"required,oneof=frontend backend"`
	Name       string `yaml:"acl_name"`
	Criterion  string `yaml:"acl_criterion"`
	Value      string `yaml:"acl_value"`
}

// SetDefaults implements config.Defaulter.
func (p *ACLParams) SetDefaults() {
	crudDefaults(&p.ConnectionParams, &p.ScopeParams, &p.StateParams)
}

// findByName returns the first rule whose trimmed, case-folded name equals
// name.
func findByName[T any](rules []client.Indexed[T], name string, nameOf func(T) string) (client.Indexed[T], bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, r := range rules {
		if strings.ToLower(strings.TrimSpace(nameOf(r.Item))) == want {
			return r, true
		}
	}
	return client.Indexed[T]{}, false
}

func runACL(ctx context.Context, env *module.Env, p *ACLParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams)
	if err != nil {
		return module.Result{}, err
	}

	parent := client.Parent{Type: p.ParentType, Name: p.ParentName}
	acls, err := c.GetACLs(ctx, parent)
	if err != nil && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get ACLs] - Failed Get HA Proxy ACLs (Parent : %s:%s): %w", parent.Name, parent.Type, err)
	}

	desired := client.Indexed[models.ACL]{
		Index: int64(len(acls)),
		Item:  models.ACL{ACLName: p.Name, Criterion: p.Criterion, Value: p.Value},
	}
	existing, found := findByName(acls, p.Name, func(a models.ACL) string { return a.ACLName })
	equal := false
	if found {
		desired.Index = existing.Index
		if equal, err = matches(env, desired.Item, existing.Item); err != nil {
			return module.Result{}, err
		}
	}

	label := fmt.Sprintf("[Parent : %s, Name : %s/%d]", parent, p.Name, desired.Index)
	data := map[string]any{
		"instance":        instance(desired),
		"acl_parent_name": p.ParentName,
		"acl_parent_type": p.ParentType,
	}
	scope := p.Scope()

	switch module.Decide(found, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged("ACL "+label+" Not Changed", data), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateACL(ctx, scope, parent, desired.Index, desired.Item); err != nil {
				return module.Result{}, fmt.Errorf("[Update ACL] - Failed Update HA Proxy ACL (Index : %d, Parent : %s:%s): %w", desired.Index, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("ACL "+label+" Has Been Updated", data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateACL(ctx, scope, parent, desired.Index, desired.Item); err != nil {
				return module.Result{}, fmt.Errorf("[Create ACL] - Failed Create HA Proxy ACL (Name : %s, Parent : %s:%s): %w", p.Name, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("ACL "+label+" Has Been Created", data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteACL(ctx, scope, parent, desired.Index); err != nil {
				return module.Result{}, fmt.Errorf("[Delete ACL] - Failed Delete HA Proxy ACL (Index : %d, Parent : %s:%s): %w", desired.Index, parent.Name, parent.Type, err)
			}
		}
		return module.Changed("ACL "+label+" Has Been Deleted", data), nil
	default:
		return module.Unchanged(fmt.Sprintf("ACL Not Found [Parent : %s, Name : %s]", parent, p.Name), data), nil
	}
}

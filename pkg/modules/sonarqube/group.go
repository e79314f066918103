package sonarqube

import (
	"context"
	"fmt"

	"restops/pkg/module"
	sonar "restops/pkg/sonarqube"
)

// GroupParams are the sonarqube_group arguments.
type GroupParams struct {
	crudParams `yaml:",inline"`

	Name              string   `yaml:"group_name" validate:"required"`
	Description       string   `yaml:"group_description"`
	GlobalPermissions []string `yaml:"global_permissions" validate:"dive,enum=sonarqube_global_permission"`
}

func runGroup(ctx context.Context, env *module.Env, p *GroupParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams, false)
	if err != nil {
		return module.Result{}, err
	}

	group := &sonar.Group{Name: p.Name, Description: p.Description, GlobalPermissions: p.GlobalPermissions}
	existing, err := c.GetGroup(ctx, group.Name)
	if err != nil && !sonar.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Group] - Failed Get Sonarqube Group [%s]: %w", group.Name, err)
	}

	equal := existing != nil && group.Equal(*existing)
	data := map[string]any{"instance": instance(group), "global_permissions": p.GlobalPermissions}

	switch module.Decide(existing != nil, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged(fmt.Sprintf("Group [%s] Not Changed", group.Name), nil), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateGroup(ctx, group); err != nil {
				return module.Result{}, fmt.Errorf("[Update Group] - Failed Update Sonarqube Group [%s]: %w", group.Name, err)
			}
			if group.GlobalPermissions != nil {
				if _, err := c.InitializeGroupPermissions(ctx, group.Name, group.GlobalPermissions); err != nil {
					return module.Result{}, fmt.Errorf("[Update Group] - Failed Update Sonarqube Group Permissions [%s]: %w", group.Name, err)
				}
			}
		}
		return module.Changed(fmt.Sprintf("Group [%s] Has Been Updated", group.Name), data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateGroup(ctx, group); err != nil {
				return module.Result{}, fmt.Errorf("[Create Group] - Failed Create Sonarqube Group [%s]: %w", group.Name, err)
			}
			if _, err := c.InitializeGroupPermissions(ctx, group.Name, group.GlobalPermissions); err != nil {
				return module.Result{}, fmt.Errorf("[Create Group] - Failed Create Sonarqube Group Permissions [%s]: %w", group.Name, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Created", group.Name), data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.RemoveAllGroupPermissions(ctx, group.Name); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Group] - Failed Delete Sonarqube Group Permissions [%s]: %w", group.Name, err)
			}
			if err := c.DeleteGroup(ctx, group.Name); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Group] - Failed Delete Sonarqube Group (Name : %s): %w", group.Name, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Deleted", group.Name), nil), nil
	default:
		return module.Unchanged(fmt.Sprintf("[%s] Not Found", group.Name), nil), nil
	}
}

// GroupPermissionParams are the sonarqube_group_global_permissions
// arguments.
type GroupPermissionParams struct {
	crudParams `yaml:",inline"`

	GroupName  string `yaml:"group_name" validate:"required"`
	Permission string `yaml:"permission_name" validate:"required,enum=sonarqube_global_permission"`
}

func runGroupPermission(ctx context.Context, env *module.Env, p *GroupPermissionParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams, false)
	if err != nil {
		return module.Result{}, err
	}

	perm := sonar.GroupPermission{GroupName: p.GroupName, Permission: sonar.GlobalPermission.MustParse(p.Permission)}
	label := perm.GroupName + "/" + perm.Permission

	if p.Present() {
		if !env.CheckMode {
			if _, err := c.AddGroupPermission(ctx, perm); err != nil {
				return module.Result{}, fmt.Errorf("[Create Permission] - Failed Create Sonarqube Group Permission [%s]: %w", label, err)
			}
		}
		return module.Changed("Permission Has Been Created/Updated ["+label+"]", map[string]any{"instance": instance(perm)}), nil
	}

	if !env.CheckMode {
		if err := c.RemoveGroupPermission(ctx, perm); err != nil {
			return module.Result{}, fmt.Errorf("[Delete Permission] - Failed Delete Sonarqube Group Permission [%s]: %w", label, err)
		}
	}
	return module.Changed("Permission Has been Deleted ["+label+"]", map[string]any{"instance": instance(perm)}), nil
}

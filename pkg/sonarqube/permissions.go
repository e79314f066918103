package sonarqube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"restops/pkg/enums"
	"restops/pkg/httpapi"
)

// GlobalPermission lists the permissions grantable to a group on the whole
// instance.
var GlobalPermission = enums.Register("sonarqube_global_permission",
	enums.M("ADMIN", "admin"),
	enums.M("GATE_ADMIN", "gateadmin"),
	enums.M("PROFILE_ADMIN", "profileadmin"),
	enums.M("PROVISIONING", "provisioning"),
	enums.M("SCAN", "scan"),
	enums.M("APPLICATION_CREATOR", "applicationcreator"),
)

const (
	addGroupPermissionPath    = "api/permissions/add_group"
	removeGroupPermissionPath = "api/permissions/remove_group"
)

// AddGroupPermission grants a global permission to a group.
func (c *Client) AddGroupPermission(ctx context.Context, p GroupPermission) (*GroupPermission, error) {
	p, err := checkPermission(p)
	if err != nil {
		return nil, err
	}
	if _, err := c.api.Do(ctx, permissionRequest(addGroupPermissionPath, "add group permission", p)); err != nil {
		return nil, err
	}
	return &p, nil
}

// RemoveGroupPermission revokes a global permission from a group.
func (c *Client) RemoveGroupPermission(ctx context.Context, p GroupPermission) error {
	p, err := checkPermission(p)
	if err != nil {
		return err
	}
	_, err = c.api.Do(ctx, permissionRequest(removeGroupPermissionPath, "remove group permission", p))
	return err
}

// RemoveAllGroupPermissions revokes every global permission from the group.
func (c *Client) RemoveAllGroupPermissions(ctx context.Context, groupName string) error {
	if strings.TrimSpace(groupName) == "" {
		return required("GroupGlobalPermissionClient", "group_name")
	}
	for _, perm := range GlobalPermission.Values() {
		if err := c.RemoveGroupPermission(ctx, GroupPermission{GroupName: groupName, Permission: perm}); err != nil {
			return err
		}
	}
	return nil
}

// InitializeGroupPermissions replaces the group's global permissions with
// permissions.
func (c *Client) InitializeGroupPermissions(ctx context.Context, groupName string, permissions []string) ([]GroupPermission, error) {
	if err := c.RemoveAllGroupPermissions(ctx, groupName); err != nil {
		return nil, err
	}

	granted := make([]GroupPermission, 0, len(permissions))
	for _, perm := range permissions {
		p, err := c.AddGroupPermission(ctx, GroupPermission{GroupName: groupName, Permission: perm})
		if err != nil {
			return granted, err
		}
		granted = append(granted, *p)
	}
	return granted, nil
}

func checkPermission(p GroupPermission) (GroupPermission, error) {
	p.GroupName = strings.TrimSpace(p.GroupName)
	if p.GroupName == "" {
		return p, required("GroupGlobalPermissionClient", "group_name")
	}
	perm, err := GlobalPermission.Parse(p.Permission)
	if err != nil || perm == "" {
		return p, fmt.Errorf("[GroupGlobalPermissionClient] : invalid permission %q, must be one of: %s",
			p.Permission, strings.Join(GlobalPermission.Values(), ", "))
	}
	p.Permission = perm
	return p, nil
}

func permissionRequest(path, op string, p GroupPermission) httpapi.Request {
	return httpapi.Request{
		Method:    http.MethodPost,
		Path:      path,
		Query:     url.Values{"groupName": {p.GroupName}, "permission": {p.Permission}},
		Operation: op,
	}
}

package sonarqube

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"restops/pkg/httpapi"
)

const groupsPath = "api/v2/authorizations/groups"

// GetGroup searches groups by name and returns the exact match.
func (c *Client) GetGroup(ctx context.Context, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, required("GroupClient", "name")
	}

	var page struct {
		Groups []Group `json:"groups"`
	}
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      groupsPath,
		Query:     url.Values{"q": {name}},
		Operation: "get group",
	}, &page)
	if err != nil {
		return nil, err
	}

	for i := range page.Groups {
		if page.Groups[i].Name == name {
			return &page.Groups[i], nil
		}
	}
	return nil, notFound("group", "Name", name)
}

// CreateGroup creates group.
func (c *Client) CreateGroup(ctx context.Context, group *Group) (*Group, error) {
	if group == nil || strings.TrimSpace(group.Name) == "" {
		return nil, required("GroupClient", "group_name")
	}

	var out Group
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      groupsPath,
		JSON:      groupBody(group),
		Operation: "create group",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGroup patches the group named group.Name.
func (c *Client) UpdateGroup(ctx context.Context, group *Group) (*Group, error) {
	if group == nil || strings.TrimSpace(group.Name) == "" {
		return nil, required("GroupClient", "group_name")
	}

	existing, err := c.GetGroup(ctx, group.Name)
	if err != nil {
		return nil, err
	}

	var out Group
	err = c.api.DoJSON(ctx, httpapi.Request{
		Method:      http.MethodPatch,
		Path:        groupsPath + "/" + url.PathEscape(existing.ID),
		JSON:        groupBody(group),
		ContentType: mergePatchJSON,
		Operation:   "update group",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGroup deletes the named group.
func (c *Client) DeleteGroup(ctx context.Context, name string) error {
	existing, err := c.GetGroup(ctx, name)
	if err != nil {
		return err
	}

	_, err = c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodDelete,
		Path:      groupsPath + "/" + url.PathEscape(existing.ID),
		Operation: "delete group",
	})
	return err
}

func groupBody(g *Group) map[string]string {
	return map[string]string{
		"name":        strings.TrimSpace(g.Name),
		"description": g.Description,
	}
}

package sonarqube

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"restops/pkg/httpapi"
)

const (
	membershipsPath    = "api/v2/authorizations/group-memberships"
	membershipPageSize = 500
)

// GetUserMemberships returns the first page of the user's group
// memberships.
func (c *Client) GetUserMemberships(ctx context.Context, userID string) ([]GroupMembership, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, required("GroupMembershipClient", "user_id")
	}

	var page struct {
		GroupMemberships []GroupMembership `json:"groupMemberships"`
	}
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method: http.MethodGet,
		Path:   membershipsPath,
		Query: url.Values{
			"userId":    {userID},
			"pageSize":  {strconv.Itoa(membershipPageSize)},
			"pageIndex": {"1"},
		},
		Operation: "get user memberships",
	}, &page)
	if err != nil {
		return nil, err
	}

	out := make([]GroupMembership, 0, len(page.GroupMemberships))
	for _, m := range page.GroupMemberships {
		if strings.TrimSpace(m.UserID) != "" && strings.TrimSpace(m.GroupID) != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

// CreateMembership adds a user to a group.
func (c *Client) CreateMembership(ctx context.Context, m GroupMembership) (*GroupMembership, error) {
	if m.UserID == "" {
		return nil, required("GroupMembershipClient", "user_id")
	}
	if m.GroupID == "" {
		return nil, required("GroupMembershipClient", "group_id")
	}

	var out GroupMembership
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      membershipsPath,
		JSON:      map[string]string{"userId": m.UserID, "groupId": m.GroupID},
		Operation: "create membership",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMembership removes a membership by id. A membership that is already
// gone is not an error.
func (c *Client) DeleteMembership(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return required("GroupMembershipClient", "id")
	}

	_, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodDelete,
		Path:      membershipsPath + "/" + url.PathEscape(id),
		Operation: "delete membership",
	})
	if httpapi.IsNotFound(err) {
		return nil
	}
	return err
}

// ReinitializeUserMemberships drops every membership of the user and adds
// one per group name.
func (c *Client) ReinitializeUserMemberships(ctx context.Context, login string, groupNames []string) ([]GroupMembership, error) {
	user, err := c.GetUser(ctx, login)
	if err != nil {
		return nil, err
	}

	current, err := c.GetUserMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range current {
		if err := c.DeleteMembership(ctx, m.ID); err != nil {
			return nil, err
		}
	}

	created := make([]GroupMembership, 0, len(groupNames))
	for _, name := range groupNames {
		group, err := c.GetGroup(ctx, name)
		if err != nil {
			return created, err
		}
		m, err := c.CreateMembership(ctx, GroupMembership{UserID: user.ID, GroupID: group.ID})
		if err != nil {
			return created, err
		}
		created = append(created, *m)
	}
	return created, nil
}

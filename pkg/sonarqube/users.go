package sonarqube

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"restops/pkg/httpapi"
)

const usersPath = "api/v2/users-management/users"

// GetUser searches users by login and returns the exact match.
func (c *Client) GetUser(ctx context.Context, login string) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, required("UserClient", "login")
	}

	var page struct {
		Users []User `json:"users"`
	}
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      usersPath,
		Query:     url.Values{"q": {login}},
		Operation: "get user",
	}, &page)
	if err != nil {
		return nil, err
	}

	for i := range page.Users {
		if page.Users[i].Login == login {
			return &page.Users[i], nil
		}
	}
	return nil, notFound("user", "Login", login)
}

// CreateUser creates user.
func (c *Client) CreateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil || strings.TrimSpace(user.Login) == "" {
		return nil, required("UserClient", "login")
	}

	var out User
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      usersPath,
		JSON:      user,
		Operation: "create user",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser patches the user identified by user.Login.
func (c *Client) UpdateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil || strings.TrimSpace(user.Login) == "" {
		return nil, required("UserClient", "login")
	}

	existing, err := c.GetUser(ctx, user.Login)
	if err != nil {
		return nil, err
	}

	scm := user.ScmAccounts
	if scm == nil {
		scm = []string{}
	}
	patch := map[string]any{
		"login":       strings.TrimSpace(user.Login),
		"name":        user.Name,
		"scmAccounts": scm,
	}
	if user.Email != "" {
		patch["email"] = user.Email
	}

	var out User
	err = c.api.DoJSON(ctx, httpapi.Request{
		Method:      http.MethodPatch,
		Path:        usersPath + "/" + url.PathEscape(existing.ID),
		JSON:        patch,
		ContentType: mergePatchJSON,
		Operation:   "update user",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser deactivates the user with the given login.
func (c *Client) DeleteUser(ctx context.Context, login string) error {
	existing, err := c.GetUser(ctx, login)
	if err != nil {
		return err
	}

	_, err = c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodDelete,
		Path:      usersPath + "/" + url.PathEscape(existing.ID),
		Operation: "delete user",
	})
	return err
}

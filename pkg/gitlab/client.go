// Package gitlab is a client for the GitLab users REST API.
package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"restops/pkg/httpapi"
)

const (
	defaultAPIVersion = "v4"
	usersPath         = "users"
)

// ErrUserNotFound is returned when no user has the requested username.
var ErrUserNotFound = fmt.Errorf("user not found")

// Config configures a Client.
type Config struct {
	BaseURL     string
	APIVersion  string
	AccessToken string
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client talks to {base_url}/api/{api_version}.
type Client struct {
	api *httpapi.Client
}

// New creates a Client authenticated with a bearer access token.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("[GitlabClient] - Initialization failed : 'base_url' is required")
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("[GitlabClient] - Initialization failed : 'token' is required")
	}

	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	api, err := httpapi.New(httpapi.Config{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/") + "/api/" + version,
		HTTPClient: cfg.HTTPClient,
		Editors:    []httpapi.RequestEditorFn{httpapi.BearerToken(cfg.AccessToken)},
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("[GitlabClient] - Initialization failed : %w", err)
	}
	return &Client{api: api}, nil
}

// GetUserByName returns the user whose username matches exactly, or
// ErrUserNotFound.
func (c *Client) GetUserByName(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("[UserClient] - User Retrieve : 'username' is required and must be not blank")
	}

	var users []User
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      usersPath,
		Query:     url.Values{"username": {username}},
		Operation: "get user",
	}, &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w (Username : %s)", ErrUserNotFound, username)
	}
	return &users[0], nil
}

// CreateUser creates user.
func (c *Client) CreateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, fmt.Errorf("[UserClient] - User creation : 'user' details are required")
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

// UpdateUser looks up the user id by username and replaces its attributes.
func (c *Client) UpdateUser(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, fmt.Errorf("[UserClient] - User Update : 'user' details are required")
	}

	existing, err := c.GetUserByName(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	var out User
	err = c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodPut,
		Path:      userPath(existing.ID),
		JSON:      user,
		Operation: "update user",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser looks up the user id by username and deletes the user.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	existing, err := c.GetUserByName(ctx, username)
	if err != nil {
		return err
	}

	_, err = c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodDelete,
		Path:      userPath(existing.ID),
		Operation: "delete user",
	})
	return err
}

func userPath(id *int64) string {
	if id == nil {
		return usersPath + "/0"
	}
	return usersPath + "/" + strconv.FormatInt(*id, 10)
}

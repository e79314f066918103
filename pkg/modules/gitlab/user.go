// Package gitlab implements the gitlab_user module.
package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"restops/pkg/core/config"
	gitlabapi "restops/pkg/gitlab"
	"restops/pkg/httpapi"
	"restops/pkg/module"
)

// UserParams are the gitlab_user arguments.
type UserParams struct {
	config.StateParams `yaml:",inline"`

	BaseURL       string `yaml:"base_url" validate:"required"`
	AccessToken   string `yaml:"access_token" validate:"required"`
	APIVersion    string `yaml:"api_version"`
	ValidateCerts bool   `yaml:"validate_certs"`

	userFields `yaml:",inline"`
}

type userFields struct {
	Username         string `yaml:"username" json:"username" validate:"required"`
	Password         string `yaml:"password" json:"password,omitempty" validate:"required"`
	Name             string `yaml:"name" json:"name" validate:"required"`
	Email            string `yaml:"email" json:"email,omitempty" validate:"required,email"`
	UserState        string `yaml:"user_state" json:"state,omitempty"`
	Locked           bool   `yaml:"locked" json:"locked"`
	AvatarURL        string `yaml:"avatar_url" json:"avatar_url,omitempty"`
	WebURL           string `yaml:"web_url" json:"web_url,omitempty"`
	CreatedAt        string `yaml:"created_at" json:"created_at,omitempty"`
	Bio              string `yaml:"bio" json:"bio,omitempty"`
	Location         string `yaml:"location" json:"location,omitempty"`
	PublicEmail      string `yaml:"public_email" json:"public_email,omitempty"`
	Skype            string `yaml:"skype" json:"skype,omitempty"`
	LinkedIn         string `yaml:"linkedin" json:"linkedin,omitempty"`
	Twitter          string `yaml:"twitter" json:"twitter,omitempty"`
	Discord          string `yaml:"discord" json:"discord,omitempty"`
	WebsiteURL       string `yaml:"website_url" json:"website_url,omitempty"`
	Organization     string `yaml:"organization" json:"organization,omitempty"`
	JobTitle         string `yaml:"job_title" json:"job_title,omitempty"`
	Pronouns         string `yaml:"pronouns" json:"pronouns,omitempty"`
	Bot              *bool  `yaml:"bot" json:"bot,omitempty"`
	LastSignInAt     string `yaml:"last_sign_in_at" json:"last_sign_in_at,omitempty"`
	ConfirmedAt      string `yaml:"confirmed_at" json:"confirmed_at,omitempty"`
	LastActivityOn   string `yaml:"last_activity_on" json:"last_activity_on,omitempty"`
	ThemeID          *int64 `yaml:"theme_id" json:"theme_id,omitempty"`
	ColorSchemeID    *int64 `yaml:"color_scheme_id" json:"color_scheme_id,omitempty"`
	ProjectsLimit    *int64 `yaml:"projects_limit" json:"projects_limit,omitempty"`
	CurrentSignInAt  string `yaml:"current_sign_in_at" json:"current_sign_in_at,omitempty"`
	CanCreateGroup   *bool  `yaml:"can_create_group" json:"can_create_group,omitempty"`
	CanCreateProject *bool  `yaml:"can_create_project" json:"can_create_project,omitempty"`
	TwoFactorEnabled *bool  `yaml:"two_factor_enabled" json:"two_factor_enabled,omitempty"`
	External         *bool  `yaml:"external" json:"external,omitempty"`
	PrivateProfile   *bool  `yaml:"private_profile" json:"private_profile,omitempty"`
	CommitEmail      string `yaml:"commit_email" json:"commit_email,omitempty"`
	IsAdmin          *bool  `yaml:"is_admin" json:"is_admin,omitempty"`
	Admin            *bool  `yaml:"admin" json:"admin,omitempty"`
	Auditor          *bool  `yaml:"auditor" json:"auditor,omitempty"`
	Note             string `yaml:"note" json:"note,omitempty"`
	SkipConfirmation *bool  `yaml:"skip_confirmation" json:"skip_confirmation,omitempty"`
}

// SetDefaults implements config.Defaulter.
func (p *UserParams) SetDefaults() {
	p.StateParams.SetDefaults()
	p.APIVersion = config.DefaultGitLabAPIVersion
	p.ValidateCerts = true
	p.UserState = "active"
}

func (p *UserParams) user() (*gitlabapi.User, error) {
	data, err := json.Marshal(p.userFields)
	if err != nil {
		return nil, err
	}
	var u gitlabapi.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	return &u, nil
}

func runUser(ctx context.Context, env *module.Env, p *UserParams) (module.Result, error) {
	user, err := p.user()
	if err != nil {
		return module.Result{}, err
	}

	c, err := gitlabapi.New(gitlabapi.Config{
		BaseURL:     p.BaseURL,
		APIVersion:  p.APIVersion,
		AccessToken: p.AccessToken,
		HTTPClient:  env.HTTPClient("gitlab", p.ValidateCerts, true),
		Logger:      env.Log("gitlab_user"),
	})
	if err != nil {
		return module.Result{}, fmt.Errorf("[Build Client] - Failed Build Gitlab API Client: %w", err)
	}

	existing, err := c.GetUserByName(ctx, user.Username)
	if err != nil && !errors.Is(err, gitlabapi.ErrUserNotFound) && !httpapi.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get User] - Failed Get Gitlab User [%s]: %w", user.Username, err)
	}

	// The password is never readable back, so an existing user always
	// counts as changed.
	data := map[string]any{"instance": publicView(user)}
	switch module.Decide(existing != nil, p.Present(), false) {
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateUser(ctx, user); err != nil {
				return module.Result{}, fmt.Errorf("[Update User] - Failed Update Gitlab User [%s]: %w", user.Username, err)
			}
		}
		return module.Changed(fmt.Sprintf("User [%s] Has Been Updated", user.Username), data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateUser(ctx, user); err != nil {
				return module.Result{}, fmt.Errorf("[Create User] - Failed Create Gitlab User [%s]: %w", user.Username, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Created", user.Username), data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteUser(ctx, user.Username); err != nil {
				return module.Result{}, fmt.Errorf("[Delete User] - Failed Delete Gitlab User (Login : %s): %w", user.Username, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Deleted", user.Username), nil), nil
	default:
		return module.Unchanged(fmt.Sprintf("[%s] Not Found", user.Username), nil), nil
	}
}

// publicView renders user without its password.
func publicView(user *gitlabapi.User) map[string]any {
	view := *user
	view.Password = ""
	m, err := httpapi.ToMap(view)
	if err != nil {
		return nil
	}
	return m
}

func init() {
	module.Register(module.New("gitlab_user", runUser))
}

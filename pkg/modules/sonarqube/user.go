package sonarqube

import (
	"context"
	"fmt"
	"slices"

	"restops/pkg/module"
	sonar "restops/pkg/sonarqube"
)

// UserParams are the sonarqube_user arguments.
type UserParams struct {
	crudParams `yaml:",inline"`

	Login       string   `yaml:"user_login" validate:"required"`
	Password    string   `yaml:"user_password"`
	Email       string   `yaml:"user_email" validate:"omitempty,email"`
	Name        string   `yaml:"user_name"`
	Local       bool     `yaml:"user_local"`
	ScmAccounts []string `yaml:"user_scm_accounts"`

	// Groups, when set, replaces the user's group memberships.
	Groups []string `yaml:"user_groups"`
}

// SetDefaults implements config.Defaulter.
func (p *UserParams) SetDefaults() {
	p.crudParams.SetDefaults()
	p.Local = true
}

func (p *UserParams) user() *sonar.User {
	local := p.Local
	return &sonar.User{
		Login:       p.Login,
		Name:        p.Name,
		Email:       p.Email,
		Password:    p.Password,
		Local:       &local,
		ScmAccounts: p.ScmAccounts,
		Groups:      p.Groups,
	}
}

func runUser(ctx context.Context, env *module.Env, p *UserParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams, true)
	if err != nil {
		return module.Result{}, err
	}

	user := p.user()
	existing, err := c.GetUser(ctx, user.Login)
	if err != nil && !sonar.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get User] - Failed Get Sonarqube User [%s]: %w", user.Login, err)
	}

	equal := false
	if existing != nil {
		if p.Groups != nil {
			if existing.Groups, err = currentGroups(ctx, c, existing.ID, p.Groups); err != nil {
				return module.Result{}, fmt.Errorf("[Get User] - Failed Get Sonarqube User Memberships [%s]: %w", user.Login, err)
			}
		}
		equal = user.Equal(*existing)
	}

	view := *user
	view.Password = ""
	data := map[string]any{"instance": instance(view)}
	if p.Groups != nil {
		data["user_groups"] = p.Groups
	}

	switch module.Decide(existing != nil, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged(fmt.Sprintf("User [%s] Not Changed", user.Login), nil), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateUser(ctx, user); err != nil {
				return module.Result{}, fmt.Errorf("[Update User] - Failed Update Sonarqube User [%s]: %w", user.Login, err)
			}
			if err := syncGroups(ctx, c, p); err != nil {
				return module.Result{}, err
			}
		}
		return module.Changed(fmt.Sprintf("User [%s] Has Been Updated", user.Login), data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateUser(ctx, user); err != nil {
				return module.Result{}, fmt.Errorf("[Create User] - Failed Create Sonarqube User [%s]: %w", user.Login, err)
			}
			if err := syncGroups(ctx, c, p); err != nil {
				return module.Result{}, err
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Created", user.Login), data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteUser(ctx, user.Login); err != nil {
				return module.Result{}, fmt.Errorf("[Delete User] - Failed Delete Sonarqube User (Login : %s): %w", user.Login, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Deleted", user.Login), nil), nil
	default:
		return module.Unchanged(fmt.Sprintf("[%s] Not Found", user.Login), nil), nil
	}
}

// currentGroups returns want when the user's memberships are exactly the
// groups named in want, otherwise the ids of the groups the user is in.
func currentGroups(ctx context.Context, c *sonar.Client, userID string, want []string) ([]string, error) {
	memberships, err := c.GetUserMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	have := make([]string, 0, len(memberships))
	for _, m := range memberships {
		have = append(have, m.GroupID)
	}

	wantIDs := make([]string, 0, len(want))
	for _, name := range want {
		g, err := c.GetGroup(ctx, name)
		if sonar.IsNotFound(err) {
			return have, nil
		}
		if err != nil {
			return nil, err
		}
		wantIDs = append(wantIDs, g.ID)
	}

	slices.Sort(have)
	slices.Sort(wantIDs)
	if slices.Equal(slices.Compact(have), slices.Compact(wantIDs)) {
		return want, nil
	}
	return have, nil
}

func syncGroups(ctx context.Context, c *sonar.Client, p *UserParams) error {
	if p.Groups == nil {
		return nil
	}
	if _, err := c.ReinitializeUserMemberships(ctx, p.Login, p.Groups); err != nil {
		return fmt.Errorf("[Update Memberships] - Failed Update Sonarqube User Memberships [%s]: %w", p.Login, err)
	}
	return nil
}

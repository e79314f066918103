package sonarqube

import (
	"context"
	"fmt"

	"restops/pkg/module"
	sonar "restops/pkg/sonarqube"
)

// almParams are the arguments every sonarqube_alm_settings_* module takes.
type almParams struct {
	crudParams `yaml:",inline"`

	Key    string `yaml:"key" validate:"required"`
	NewKey string `yaml:"new_key"`

	// EncodeParameters escapes reserved URL characters in the query. Some
	// servers expect private keys and URLs unescaped.
	EncodeParameters bool `yaml:"encode_parameters"`
}

// SetDefaults implements config.Defaulter.
func (p *almParams) SetDefaults() {
	p.crudParams.SetDefaults()
	p.EncodeParameters = true
}

func (p *almParams) base(platform string) sonar.AlmSetting {
	return sonar.AlmSetting{Platform: platform, Key: p.Key, NewKey: p.NewKey}
}

// GitHubAlmParams configure a GitHub App integration.
type GitHubAlmParams struct {
	almParams `yaml:",inline"`

	URL           string `yaml:"url" validate:"required,url"`
	AppID         string `yaml:"app_id" validate:"required"`
	ClientID      string `yaml:"client_id" validate:"required"`
	ClientSecret  string `yaml:"client_secret" validate:"required"`
	PrivateKey    string `yaml:"private_key" validate:"required"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// TokenAlmParams configure the GitLab, Azure DevOps and Bitbucket Server
// integrations, which authenticate with a personal access token.
type TokenAlmParams struct {
	almParams `yaml:",inline"`

	URL                 string `yaml:"url" validate:"required,url"`
	PersonalAccessToken string `yaml:"personal_access_token" validate:"required"`
}

// BitbucketCloudAlmParams configure a Bitbucket Cloud OAuth consumer.
type BitbucketCloudAlmParams struct {
	almParams `yaml:",inline"`

	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	Workspace    string `yaml:"workspace" validate:"required"`
}

func runGitHubAlm(ctx context.Context, env *module.Env, p *GitHubAlmParams) (module.Result, error) {
	s := p.base("github")
	s.URL = p.URL
	s.AppID = p.AppID
	s.ClientID = p.ClientID
	s.ClientSecret = p.ClientSecret
	s.PrivateKey = p.PrivateKey
	s.WebhookSecret = p.WebhookSecret
	return reconcileAlm(ctx, env, &p.almParams, s)
}

// tokenAlm returns the run function of a personal access token platform.
func tokenAlm(platform string) func(context.Context, *module.Env, *TokenAlmParams) (module.Result, error) {
	return func(ctx context.Context, env *module.Env, p *TokenAlmParams) (module.Result, error) {
		s := p.base(platform)
		s.URL = p.URL
		s.PersonalAccessToken = p.PersonalAccessToken
		return reconcileAlm(ctx, env, &p.almParams, s)
	}
}

func runBitbucketCloudAlm(ctx context.Context, env *module.Env, p *BitbucketCloudAlmParams) (module.Result, error) {
	s := p.base("bitbucketcloud")
	s.ClientID = p.ClientID
	s.ClientSecret = p.ClientSecret
	s.Workspace = p.Workspace
	return reconcileAlm(ctx, env, &p.almParams, s)
}

func reconcileAlm(ctx context.Context, env *module.Env, p *almParams, desired sonar.AlmSetting) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams, true)
	if err != nil {
		return module.Result{}, err
	}

	label := fmt.Sprintf("%s/%s", desired.Platform, desired.Key)
	existing, err := c.GetAlmSetting(ctx, desired.Platform, desired.Key)
	if err != nil && !sonar.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get ALM Setting] - Failed Get Sonarqube ALM Setting [%s]: %w", label, err)
	}
	equal := existing != nil && desired.NewKey == "" && desired.Equal(*existing)
	data := map[string]any{"instance": instance(desired)}

	switch module.Decide(existing != nil, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged(fmt.Sprintf("ALM Setting [%s] Not Changed", label), nil), nil
	case module.Update:
		if !env.CheckMode {
			if _, err := c.UpdateAlmSetting(ctx, desired, p.EncodeParameters); err != nil {
				return module.Result{}, fmt.Errorf("[Update ALM Setting] - Failed Update Sonarqube ALM Setting [%s]: %w", label, err)
			}
		}
		return module.Changed(fmt.Sprintf("ALM Setting [%s] Has Been Updated", label), data), nil
	case module.Create:
		if !env.CheckMode {
			if _, err := c.CreateAlmSetting(ctx, desired, p.EncodeParameters); err != nil {
				return module.Result{}, fmt.Errorf("[Create ALM Setting] - Failed Create Sonarqube ALM Setting [%s]: %w", label, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Created", label), data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteAlmSetting(ctx, desired.Key); err != nil {
				return module.Result{}, fmt.Errorf("[Delete ALM Setting] - Failed Delete Sonarqube ALM Setting [%s]: %w", label, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Deleted", label), nil), nil
	default:
		return module.Unchanged(fmt.Sprintf("[%s] Not Found", label), nil), nil
	}
}

// AlmAccessTokenParams are the sonarqube_alm_access_token arguments.
type AlmAccessTokenParams struct {
	crudParams `yaml:",inline"`

	AlmName       string `yaml:"alm_name" validate:"required"`
	AccessToken   string `yaml:"access_token" validate:"required"`
	TokenUsername string `yaml:"token_username"`
}

func runAlmAccessToken(ctx context.Context, env *module.Env, p *AlmAccessTokenParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams, true)
	if err != nil {
		return module.Result{}, err
	}

	token, msg := p.AccessToken, fmt.Sprintf("[%s]'s Token Has been Set", p.AlmName)
	if !p.Present() {
		token, msg = sonar.NoAccessToken, fmt.Sprintf("[%s]'s Token Has been Invalidated", p.AlmName)
	}

	var out map[string]any
	if !env.CheckMode {
		if out, err = c.SetAlmAccessToken(ctx, p.AlmName, token, p.TokenUsername); err != nil {
			return module.Result{}, fmt.Errorf("[Set Access Token] - Failed Set Sonarqube ALM Access Token [%s]: %w", p.AlmName, err)
		}
	}
	return module.Changed(msg, out), nil
}

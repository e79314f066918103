package sonarqube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"restops/pkg/enums"
	"restops/pkg/httpapi"
)

// Platform is the DevOps platform of an ALM setting.
var Platform = enums.Register("sonarqube_devops_platform",
	enums.M("GITHUB", "github"),
	enums.M("GITLAB", "gitlab"),
	enums.M("AZURE", "azure"),
	enums.M("BITBUCKET", "bitbucket"),
	enums.M("BITBUCKET_CLOUD", "bitbucketcloud"),
)

const (
	almDefinitionsPath = "api/alm_settings/list_definitions"
	almDeletePath      = "api/alm_settings/delete"
	almSetPATPath      = "api/alm_integrations/set_pat"

	// NoAccessToken replaces a personal access token that is being revoked.
	NoAccessToken = "@__NO_ACCESS_TOKEN__@"
)

// AlmSetting is one ALM (DevOps platform) integration. Which fields apply
// depends on Platform; secrets are write-only and never read back.
type AlmSetting struct {
	Platform string `json:"-"`
	Key      string `json:"key"`
	NewKey   string `json:"-"`
	URL      string `json:"url,omitempty"`

	AppID         string `json:"appId,omitempty"`
	ClientID      string `json:"clientId,omitempty"`
	ClientSecret  string `json:"-"`
	PrivateKey    string `json:"-"`
	WebhookSecret string `json:"-"`

	PersonalAccessToken string `json:"-"`
	Workspace           string `json:"workspace,omitempty"`
}

// Equal compares the fields list_definitions returns for the platform.
func (s AlmSetting) Equal(o AlmSetting) bool {
	if s.Key != o.Key {
		return false
	}
	switch s.Platform {
	case "github":
		return s.URL == o.URL && s.AppID == o.AppID && s.ClientID == o.ClientID
	case "bitbucketcloud":
		return s.ClientID == o.ClientID && s.Workspace == o.Workspace
	default:
		return s.URL == o.URL
	}
}

// params returns the ordered query parameters of create_/update_{platform}.
func (s AlmSetting) params(update bool) ([][2]string, error) {
	p := [][2]string{{"key", s.Key}}
	switch s.Platform {
	case "github":
		p = append(p,
			[2]string{"url", s.URL},
			[2]string{"appId", s.AppID},
			[2]string{"clientId", s.ClientID},
			[2]string{"clientSecret", s.ClientSecret},
			[2]string{"privateKey", s.PrivateKey},
		)
		if s.WebhookSecret != "" {
			p = append(p, [2]string{"webhookSecret", s.WebhookSecret})
		}
	case "gitlab", "azure", "bitbucket":
		p = append(p,
			[2]string{"url", s.URL},
			[2]string{"personalAccessToken", s.PersonalAccessToken},
		)
	case "bitbucketcloud":
		p = append(p,
			[2]string{"clientId", s.ClientID},
			[2]string{"clientSecret", s.ClientSecret},
			[2]string{"workspace", s.Workspace},
		)
	default:
		return nil, fmt.Errorf("unsupported devops platform %q", s.Platform)
	}
	if update && s.NewKey != "" {
		p = append(p, [2]string{"newKey", s.NewKey})
	}
	return p, nil
}

// ListAlmDefinitions returns every ALM setting, keyed by platform.
func (c *Client) ListAlmDefinitions(ctx context.Context) (map[string][]AlmSetting, error) {
	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      almDefinitionsPath,
		Operation: "list alm definitions",
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string][]AlmSetting, len(Platform.Values()))
	for _, platform := range Platform.Values() {
		resp.Get(platform).ForEach(func(_, v gjson.Result) bool {
			out[platform] = append(out[platform], AlmSetting{
				Platform:  platform,
				Key:       v.Get("key").String(),
				URL:       v.Get("url").String(),
				AppID:     v.Get("appId").String(),
				ClientID:  v.Get("clientId").String(),
				Workspace: v.Get("workspace").String(),
			})
			return true
		})
	}
	return out, nil
}

// GetAlmSetting returns the platform's setting with the given key.
func (c *Client) GetAlmSetting(ctx context.Context, platform, key string) (*AlmSetting, error) {
	platform, err := Platform.Parse(platform)
	if err != nil {
		return nil, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, required("AlmSettingsClient", "key")
	}

	defs, err := c.ListAlmDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range defs[platform] {
		if s.Key == key {
			return &s, nil
		}
	}
	return nil, notFound("alm setting", "Key", key)
}

// CreateAlmSetting registers a new ALM setting. With encode false the
// parameter values are sent without escaping reserved URL characters.
func (c *Client) CreateAlmSetting(ctx context.Context, s AlmSetting, encode bool) (*AlmSetting, error) {
	return c.writeAlmSetting(ctx, "create", s, encode)
}

// UpdateAlmSetting rewrites the ALM setting, renaming it when NewKey is set.
func (c *Client) UpdateAlmSetting(ctx context.Context, s AlmSetting, encode bool) (*AlmSetting, error) {
	return c.writeAlmSetting(ctx, "update", s, encode)
}

func (c *Client) writeAlmSetting(ctx context.Context, action string, s AlmSetting, encode bool) (*AlmSetting, error) {
	platform, err := Platform.Parse(s.Platform)
	if err != nil {
		return nil, err
	}
	if platform == "" {
		return nil, required("AlmSettingsClient", "platform")
	}
	if strings.TrimSpace(s.Key) == "" {
		return nil, required("AlmSettingsClient", "key")
	}
	s.Platform = platform

	params, err := s.params(action == "update")
	if err != nil {
		return nil, err
	}

	_, err = c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      "api/alm_settings/" + action + "_" + platform,
		RawQuery:  rawQuery(params, encode),
		Operation: action + " alm setting",
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteAlmSetting removes the ALM setting with the given key.
func (c *Client) DeleteAlmSetting(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return required("AlmSettingsClient", "key")
	}
	_, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      almDeletePath,
		Query:     url.Values{"key": {key}},
		Operation: "delete alm setting",
	})
	return err
}

// SetAlmAccessToken stores a personal access token for the calling user on
// the named ALM setting. Username is only used by Bitbucket Cloud.
func (c *Client) SetAlmAccessToken(ctx context.Context, almSetting, token, username string) (map[string]any, error) {
	almSetting = strings.TrimSpace(almSetting)
	if almSetting == "" {
		return nil, required("SetAccessTokenAlmClient", "alm_name")
	}
	if strings.TrimSpace(token) == "" {
		return nil, required("SetAccessTokenAlmClient", "access_token")
	}

	query := url.Values{"almSetting": {almSetting}, "pat": {token}}
	if u := strings.TrimSpace(username); u != "" {
		query.Set("username", u)
	}

	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      almSetPATPath,
		Query:     query,
		Operation: "set alm access token",
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"alm_name": almSetting, "status": "updated", "status_code": resp.StatusCode}, nil
}

// rawQuery joins ordered parameters. Encoded values are escaped like a
// query component with spaces as %20. Raw values keep reserved characters
// and only escape what cannot appear in a URL at all.
func rawQuery(params [][2]string, encode bool) string {
	parts := make([]string, 0, len(params))
	for _, kv := range params {
		v := kv[1]
		if encode {
			v = strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
		} else {
			v = escapeUnsafe(v)
		}
		parts = append(parts, kv[0]+"="+v)
	}
	return strings.Join(parts, "&")
}

func escapeUnsafe(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch <= ' ' || ch >= 0x7f || strings.IndexByte("\"<>\\^`{|}#", ch) >= 0 {
			b.WriteByte('%')
			b.WriteByte(hex[ch>>4])
			b.WriteByte(hex[ch&0x0f])
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

package sonarqube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"restops/pkg/httpapi"
)

const (
	settingsValuesPath = "api/settings/values"
	settingsSetPath    = "api/settings/set"
	settingsResetPath  = "api/settings/reset"
)

// GetSetting returns the setting stored for key, optionally on a component.
func (c *Client) GetSetting(ctx context.Context, key, component string) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, required("SettingsClient", "key")
	}

	var page struct {
		Settings []Setting `json:"settings"`
	}
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      settingsValuesPath,
		Query:     componentQuery(url.Values{"keys": {key}}, component),
		Operation: "get setting",
	}, &page)
	if err != nil {
		return nil, err
	}
	if len(page.Settings) == 0 {
		return nil, notFound("setting", "Key", key)
	}

	s := page.Settings[0]
	s.Component = strings.TrimSpace(component)
	return &s, nil
}

// SetSetting stores the setting's value, or its values for multi-value
// keys.
func (c *Client) SetSetting(ctx context.Context, s Setting) (map[string]any, error) {
	if !s.Valid() {
		if strings.TrimSpace(s.Key) == "" {
			return nil, required("SettingsClient", "key")
		}
		return nil, fmt.Errorf("no value provided for the key [%s]", s.Key)
	}

	query := url.Values{"key": {strings.TrimSpace(s.Key)}}
	if v := strings.TrimSpace(s.Value); v != "" {
		query.Set("value", v)
	}
	for _, v := range s.Values {
		query.Add("values", v)
	}

	resp, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      settingsSetPath,
		Query:     componentQuery(query, s.Component),
		Operation: "set setting",
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"key": s.Key, "status": "created", "status_code": resp.StatusCode}, nil
}

// ResetSetting removes the stored value so the default applies again.
func (c *Client) ResetSetting(ctx context.Context, key, component string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return required("SettingsClient", "key")
	}

	_, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      settingsResetPath,
		Query:     componentQuery(url.Values{"keys": {key}}, component),
		Operation: "reset setting",
	})
	return err
}

func componentQuery(q url.Values, component string) url.Values {
	if c := strings.TrimSpace(component); c != "" {
		q.Set("component", c)
	}
	return q
}

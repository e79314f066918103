package sonarqube

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"restops/pkg/httpapi"
)

const (
	projectsSearchPath     = "api/projects/search"
	projectsBulkDeletePath = "api/projects/bulk_delete"
	dopSettingsPath        = "api/v2/dop-translation/dop-settings"
	boundProjectsPath      = "api/v2/dop-translation/bound-projects"
)

// GetProject returns the project with the given key.
func (c *Client) GetProject(ctx context.Context, key string) (*Project, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, required("ProjectClient", "project_key")
	}

	var page struct {
		Components []Project `json:"components"`
	}
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      projectsSearchPath,
		Query:     url.Values{"projects": {key}, "ps": {"1"}, "p": {"1"}},
		Operation: "get project",
	}, &page)
	if err != nil {
		return nil, err
	}
	if len(page.Components) == 0 {
		return nil, notFound("project", "Key", key)
	}
	return &page.Components[0], nil
}

// DeleteProject deletes the project with the given key.
func (c *Client) DeleteProject(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return required("ProjectClient", "project_key")
	}
	_, err := c.api.Do(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      projectsBulkDeletePath,
		Query:     url.Values{"projects": {key}},
		Operation: "delete project",
	})
	return err
}

// GetDopSetting returns the DevOps platform setting with the given key.
func (c *Client) GetDopSetting(ctx context.Context, key string) (*DopSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, required("ProjectClient", "dop_key")
	}

	var page struct {
		DopSettings []DopSetting `json:"dopSettings"`
	}
	err := c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodGet,
		Path:      dopSettingsPath,
		Operation: "get dop settings",
	}, &page)
	if err != nil {
		return nil, err
	}
	for i := range page.DopSettings {
		if page.DopSettings[i].Key == key {
			return &page.DopSettings[i], nil
		}
	}
	return nil, notFound("devops platform", "Key", key)
}

// ImportDopProject creates a project bound to a DevOps platform repository.
func (c *Client) ImportDopProject(ctx context.Context, spec DopProjectImport) (map[string]any, error) {
	if strings.TrimSpace(spec.ProjectKey) == "" {
		return nil, required("ProjectClient", "project_key")
	}

	dop, err := c.GetDopSetting(ctx, spec.DevOpsPlatformKey)
	if err != nil {
		return nil, err
	}

	body := struct {
		DopProjectImport
		DevOpsPlatformSettingID string `json:"devOpsPlatformSettingId"`
	}{spec, dop.ID}

	var out map[string]any
	err = c.api.DoJSON(ctx, httpapi.Request{
		Method:    http.MethodPost,
		Path:      boundProjectsPath,
		JSON:      body,
		Operation: "import dop project",
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

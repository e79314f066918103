package sonarqube

import (
	"context"
	"fmt"

	"restops/pkg/module"
	sonar "restops/pkg/sonarqube"
)

// DopProjectParams are the sonarqube_dop_project arguments. An existing
// project is never rebound; only presence is reconciled.
type DopProjectParams struct {
	crudParams `yaml:",inline"`

	ProjectKey           string `yaml:"project_key" validate:"required"`
	ProjectName          string `yaml:"project_name" validate:"required"`
	DevOpsPlatformKey    string `yaml:"dev_ops_platform_key" validate:"required"`
	RepositoryIdentifier string `yaml:"repository_identifier" validate:"required"`
	Monorepo             bool   `yaml:"monorepo"`
	ProjectIdentifier    string `yaml:"project_identifier"`
}

func runDopProject(ctx context.Context, env *module.Env, p *DopProjectParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams, false)
	if err != nil {
		return module.Result{}, err
	}

	existing, err := c.GetProject(ctx, p.ProjectKey)
	if err != nil && !sonar.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Project] - Failed Get Sonarqube Project [%s]: %w", p.ProjectKey, err)
	}

	switch module.Decide(existing != nil, p.Present(), true) {
	case module.NoChange:
		return module.Unchanged(fmt.Sprintf("Project [%s] Not Changed", p.ProjectKey), map[string]any{"instance": instance(existing)}), nil
	case module.Create:
		spec := sonar.DopProjectImport{
			ProjectKey:           p.ProjectKey,
			ProjectName:          p.ProjectName,
			DevOpsPlatformKey:    p.DevOpsPlatformKey,
			RepositoryIdentifier: p.RepositoryIdentifier,
			Monorepo:             p.Monorepo,
			ProjectIdentifier:    p.ProjectIdentifier,
		}
		var out map[string]any
		if !env.CheckMode {
			if out, err = c.ImportDopProject(ctx, spec); err != nil {
				return module.Result{}, fmt.Errorf("[Create Project] - Failed Import Sonarqube Project [%s]: %w", p.ProjectKey, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Created", p.ProjectKey), map[string]any{"instance": instance(spec), "response": out}), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.DeleteProject(ctx, p.ProjectKey); err != nil {
				return module.Result{}, fmt.Errorf("[Delete Project] - Failed Delete Sonarqube Project [%s]: %w", p.ProjectKey, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Deleted", p.ProjectKey), nil), nil
	default:
		return module.Unchanged(fmt.Sprintf("[%s] Not Found", p.ProjectKey), nil), nil
	}
}

package sonarqube

import (
	"context"
	"fmt"

	"restops/pkg/module"
	sonar "restops/pkg/sonarqube"
)

// SettingParams are the sonarqube_settings arguments. Value and Values are
// mutually exclusive; multi-value keys take Values.
type SettingParams struct {
	crudParams `yaml:",inline"`

	Key       string   `yaml:"key" validate:"required"`
	Component string   `yaml:"component"`
	Value     string   `yaml:"value" validate:"excluded_with=Values"`
	Values    []string `yaml:"values"`
}

func runSetting(ctx context.Context, env *module.Env, p *SettingParams) (module.Result, error) {
	c, err := newClient(env, p.ConnectionParams, false)
	if err != nil {
		return module.Result{}, err
	}

	desired := sonar.Setting{Key: p.Key, Component: p.Component, Value: p.Value, Values: p.Values}
	if p.Present() && !desired.Valid() {
		return module.Result{}, fmt.Errorf("no value provided for the key [%s]", p.Key)
	}

	existing, err := c.GetSetting(ctx, p.Key, p.Component)
	if err != nil && !sonar.IsNotFound(err) {
		return module.Result{}, fmt.Errorf("[Get Setting] - Failed Get Sonarqube Setting [%s]: %w", p.Key, err)
	}
	// Inherited values are defaults; nothing is stored for this scope.
	found := existing != nil && !existing.Inherited
	equal := found && desired.Equal(*existing)

	switch module.Decide(found, p.Present(), equal) {
	case module.NoChange:
		return module.Unchanged(fmt.Sprintf("Setting [%s] Not Changed", p.Key), nil), nil
	case module.Update, module.Create:
		var out map[string]any
		if !env.CheckMode {
			if out, err = c.SetSetting(ctx, desired); err != nil {
				return module.Result{}, fmt.Errorf("[Set Setting] - Failed Set Sonarqube Setting [%s]: %w", p.Key, err)
			}
		}
		data := map[string]any{"instance": instance(desired), "response": out}
		if found {
			return module.Changed(fmt.Sprintf("Setting [%s] Has Been Updated", p.Key), data), nil
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Created", p.Key), data), nil
	case module.Delete:
		if !env.CheckMode {
			if err := c.ResetSetting(ctx, p.Key, p.Component); err != nil {
				return module.Result{}, fmt.Errorf("[Reset Setting] - Failed Reset Sonarqube Setting [%s]: %w", p.Key, err)
			}
		}
		return module.Changed(fmt.Sprintf("[%s] Has been Deleted", p.Key), nil), nil
	default:
		return module.Unchanged(fmt.Sprintf("[%s] Not Found", p.Key), nil), nil
	}
}

package sonarqube

import (
	"context"
	"maps"
	"testing"

	"github.com/rekby/fixenv"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/config"
	"restops/pkg/module"
	"restops/pkg/sonarqube/sonarqubetest"
)

func fakeSonarQube(env fixenv.Env) *sonarqubetest.Server {
	return fixenv.CacheResult(env, func() (*fixenv.GenericResult[*sonarqubetest.Server], error) {
		srv := sonarqubetest.NewServer()
		return fixenv.NewGenericResultWithCleanup(srv, srv.Close), nil
	})
}

func args(srv *sonarqubetest.Server, extra map[string]any) map[string]any {
	out := map[string]any{
		"base_url": srv.URL,
		"username": sonarqubetest.Username,
		"password": sonarqubetest.Password,
	}
	maps.Copy(out, extra)
	return out
}

func invoke[P any](t *testing.T, checkMode bool, run func(context.Context, *module.Env, *P) (module.Result, error), raw map[string]any) (module.Result, error) {
	t.Helper()
	var p P
	require.NoError(t, config.ParseMap(raw, &p))
	require.NoError(t, config.Validate(&p))
	return run(context.Background(), module.TestEnv(checkMode), &p)
}

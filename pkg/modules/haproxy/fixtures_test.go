package haproxy

import (
	"context"
	"maps"
	"testing"

	"github.com/rekby/fixenv"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/config"
	"restops/pkg/dataplane/dataplanetest"
	"restops/pkg/module"
)

// fakeDataplane provides a test-scoped in-memory Dataplane API.
func fakeDataplane(env fixenv.Env) *dataplanetest.Server {
	return fixenv.CacheResult(env, func() (*fixenv.GenericResult[*dataplanetest.Server], error) {
		srv := dataplanetest.NewServer()
		return fixenv.NewGenericResultWithCleanup(srv, srv.Close), nil
	})
}

// args returns the connection arguments for srv merged with extra.
func args(srv *dataplanetest.Server, extra map[string]any) map[string]any {
	out := map[string]any{
		"base_url": srv.URL,
		"username": dataplanetest.Username,
		"password": dataplanetest.Password,
	}
	maps.Copy(out, extra)
	return out
}

// invoke decodes raw the way the runner does and calls run.
func invoke[P any](t *testing.T, checkMode bool, run func(context.Context, *module.Env, *P) (module.Result, error), raw map[string]any) (module.Result, error) {
	t.Helper()
	var p P
	require.NoError(t, config.ParseMap(raw, &p))
	require.NoError(t, config.Validate(&p))
	return run(context.Background(), module.TestEnv(checkMode), &p)
}

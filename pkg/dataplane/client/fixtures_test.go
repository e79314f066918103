package client

import (
	"github.com/rekby/fixenv"

	"restops/pkg/core/logging"
	"restops/pkg/dataplane/dataplanetest"
)

// fakeDataplane provides a test-scoped in-memory Dataplane API.
func fakeDataplane(env fixenv.Env) *dataplanetest.Server {
	return fixenv.CacheResult(env, func() (*fixenv.GenericResult[*dataplanetest.Server], error) {
		srv := dataplanetest.NewServer()
		return fixenv.NewGenericResultWithCleanup(srv, srv.Close), nil
	})
}

// testClient provides a client bound to fakeDataplane.
func testClient(env fixenv.Env) *DataplaneClient {
	srv := fakeDataplane(env)

	return fixenv.CacheResult(env, func() (*fixenv.GenericResult[*DataplaneClient], error) {
		c, err := New(Config{
			BaseURL:  srv.URL,
			Username: dataplanetest.Username,
			Password: dataplanetest.Password,
			Logger:   logging.Discard(),
		})
		if err != nil {
			return nil, err
		}
		return fixenv.NewGenericResult(c), nil
	})
}

package sonarqube

import (
	"github.com/rekby/fixenv"

	"restops/pkg/core/logging"
	"restops/pkg/sonarqube/sonarqubetest"
)

func fakeSonar(e fixenv.Env) *sonarqubetest.Server {
	return fixenv.CacheResult(e, func() (*fixenv.GenericResult[*sonarqubetest.Server], error) {
		srv := sonarqubetest.NewServer()
		return fixenv.NewGenericResultWithCleanup(srv, srv.Close), nil
	})
}

func testClient(e fixenv.Env) *Client {
	return fixenv.CacheResult(e, func() (*fixenv.GenericResult[*Client], error) {
		c, err := New(Config{
			BaseURL:  fakeSonar(e).URL,
			Username: sonarqubetest.Username,
			Password: sonarqubetest.Password,
			Logger:   logging.Discard(),
		})
		if err != nil {
			return nil, err
		}
		return fixenv.NewGenericResult(c), nil
	})
}

package haproxy

import "restops/pkg/module"

func init() {
	module.Register(module.New("haproxy_backend", runBackend))
	module.Register(module.New("haproxy_frontend", runFrontend))
	module.Register(module.New("haproxy_server", runServer))
	module.Register(module.New("haproxy_bind", runBind))
	module.Register(module.New("haproxy_acl", runACL))
	module.Register(module.New("haproxy_backend_switching_rule", runBackendSwitchingRule))
	module.Register(module.New("haproxy_http_request_rule", runHTTPRequestRule))
	module.Register(module.New("haproxy_ssl_certificate", runSSLCertificate))
	module.Register(module.New("haproxy_transaction", runTransaction))
	module.Register(module.New("haproxy_clean_transactions", runCleanTransactions))

	module.RegisterLookup(module.NewLookup("haproxy_tx", lookupTransaction))
	module.RegisterLookup(module.NewLookup("haproxy_cert", lookupCertificate))
}

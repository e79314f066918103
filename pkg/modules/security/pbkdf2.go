// Package security registers the pbkdf2_hash lookup and filter.
package security

import (
	"context"

	"restops/pkg/module"
	"restops/pkg/security"
)

func lookupPBKDF2(_ context.Context, _ *module.Env, p *security.PBKDF2Params) (any, error) {
	return security.HashPBKDF2Lookup(*p)
}

func filterPBKDF2(_ context.Context, _ *module.Env, p *security.PBKDF2Params) (any, error) {
	return security.HashPBKDF2(*p)
}

func init() {
	module.RegisterLookup(module.NewLookup("pbkdf2_hash", lookupPBKDF2))
	// The filter plugin wrapper calls this one; it keeps the password as
	// given and reports hash_method.
	module.RegisterLookup(module.NewLookup("pbkdf2_hash_filter", filterPBKDF2))
}

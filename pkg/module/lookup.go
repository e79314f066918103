package module

import (
	"context"
	"fmt"
)

// Lookup computes a value for an Ansible lookup or filter plugin. The
// plugin wrapper invokes "restops lookup <name>" and reads the JSON result.
type Lookup interface {
	Name() string
	NewParams() any
	Run(ctx context.Context, env *Env, params any) (any, error)
}

// LookupFunc adapts a typed function to Lookup.
type LookupFunc[P any] struct {
	name string
	run  func(ctx context.Context, env *Env, params *P) (any, error)
}

// NewLookup creates a Lookup named name.
func NewLookup[P any](name string, run func(ctx context.Context, env *Env, params *P) (any, error)) *LookupFunc[P] {
	return &LookupFunc[P]{name: name, run: run}
}

func (f *LookupFunc[P]) Name() string { return f.name }

func (f *LookupFunc[P]) NewParams() any { return new(P) }

func (f *LookupFunc[P]) Run(ctx context.Context, env *Env, params any) (any, error) {
	p, ok := params.(*P)
	if !ok {
		return nil, fmt.Errorf("lookup %s: unexpected params type %T", f.name, params)
	}
	return f.run(ctx, env, p)
}

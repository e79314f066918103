// Package module defines the contract shared by every Ansible module and
// lookup shipped in the restops binary, the registry they are looked up in,
// and the runner that turns an args file into a JSON result on stdout.
package module

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Result is what a module reports back to Ansible.
//
// Data is merged into the top-level JSON object next to changed, msg and
// failed. Keys in Data never override those three.
type Result struct {
	Changed bool
	Msg     string
	Failed  bool
	Data    map[string]any
}

// Changed builds a result with changed=true.
func Changed(msg string, data map[string]any) Result {
	return Result{Changed: true, Msg: msg, Data: data}
}

// Unchanged builds a result with changed=false.
func Unchanged(msg string, data map[string]any) Result {
	return Result{Msg: msg, Data: data}
}

// Failure builds a failed result from err.
func Failure(err error) Result {
	return Result{Failed: true, Msg: err.Error()}
}

// MarshalJSON renders the flat Ansible result object.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Data)+3)
	maps.Copy(out, r.Data)
	out["changed"] = r.Changed
	out["msg"] = r.Msg
	if r.Failed {
		out["failed"] = true
	} else {
		delete(out, "failed")
	}
	return json.Marshal(out)
}

// Module is one Ansible binary module.
type Module interface {
	Name() string

	// NewParams returns a pointer to a zero params struct for the args file
	// to be decoded into.
	NewParams() any

	// Run reconciles the desired state described by params.
	Run(ctx context.Context, env *Env, params any) (Result, error)
}

// Func adapts a typed run function to Module.
type Func[P any] struct {
	name string
	run  func(ctx context.Context, env *Env, params *P) (Result, error)
}

// New creates a Module named name.
func New[P any](name string, run func(ctx context.Context, env *Env, params *P) (Result, error)) *Func[P] {
	return &Func[P]{name: name, run: run}
}

func (f *Func[P]) Name() string { return f.name }

func (f *Func[P]) NewParams() any { return new(P) }

func (f *Func[P]) Run(ctx context.Context, env *Env, params any) (Result, error) {
	p, ok := params.(*P)
	if !ok {
		return Result{}, fmt.Errorf("module %s: unexpected params type %T", f.name, params)
	}
	return f.run(ctx, env, p)
}

// Registry maps names to modules and lookups.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	lookups map[string]Lookup
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: map[string]Module{}, lookups: map[string]Lookup{}}
}

// Register adds m. Registering a name twice panics.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.modules[m.Name()]; dup {
		panic(fmt.Sprintf("module %q registered twice", m.Name()))
	}
	r.modules[m.Name()] = m
}

// Get returns the named module.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	return m, ok
}

// List returns the module names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.modules))
}

// RegisterLookup adds l. Registering a name twice panics.
func (r *Registry) RegisterLookup(l Lookup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.lookups[l.Name()]; dup {
		panic(fmt.Sprintf("lookup %q registered twice", l.Name()))
	}
	r.lookups[l.Name()] = l
}

// GetLookup returns the named lookup.
func (r *Registry) GetLookup(name string) (Lookup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lookups[name]
	return l, ok
}

// Lookups returns the lookup names, sorted.
func (r *Registry) Lookups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.lookups))
}

var defaultRegistry = NewRegistry()

// Default is the process-wide registry module packages register into from
// their init functions.
func Default() *Registry { return defaultRegistry }

// Register adds m to the default registry.
func Register(m Module) { defaultRegistry.Register(m) }

// RegisterLookup adds l to the default registry.
func RegisterLookup(l Lookup) { defaultRegistry.RegisterLookup(l) }

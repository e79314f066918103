// Package enums implements the closed value sets used by module parameters.
//
// A Set is a list of members, each with a symbolic name and a wire value.
// Input is matched against both, case-insensitively, so "ROUNDROBIN",
// "roundrobin" and "RoundRobin" all resolve to the same member.
package enums

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Member is one entry of a Set.
type Member struct {
	Name  string
	Value string
}

// M is shorthand for building a Member.
func M(name, value string) Member {
	return Member{Name: name, Value: value}
}

// Set is an ordered, closed set of members.
type Set struct {
	kind    string
	members []Member
}

// New creates a Set without registering it.
func New(kind string, members ...Member) Set {
	return Set{kind: kind, members: members}
}

// Kind returns the set identifier used by the "enum" validation tag.
func (s Set) Kind() string {
	return s.kind
}

// Parse resolves input to the member's wire value.
//
// Empty input resolves to "" with no error so that optional parameters can be
// passed through untouched.
func (s Set) Parse(input string) (string, error) {
	m, ok, err := s.lookup(input)
	if err != nil || !ok {
		return "", err
	}
	return m.Value, nil
}

// ParseMember is Parse but returns the whole member.
func (s Set) ParseMember(input string) (Member, bool, error) {
	return s.lookup(input)
}

// MustParse is Parse for values already checked by validation.
func (s Set) MustParse(input string) string {
	v, err := s.Parse(input)
	if err != nil {
		panic(err)
	}
	return v
}

// Contains reports whether input names a member.
func (s Set) Contains(input string) bool {
	_, ok, err := s.lookup(input)
	return ok && err == nil
}

// Names returns the member names in declaration order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m.Name)
	}
	return out
}

// Values returns the member wire values in declaration order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m.Value)
	}
	return out
}

func (s Set) lookup(input string) (Member, bool, error) {
	needle := strings.TrimSpace(input)
	if needle == "" {
		return Member{}, false, nil
	}
	for _, m := range s.members {
		if strings.EqualFold(m.Name, needle) || strings.EqualFold(m.Value, needle) {
			return m, true, nil
		}
	}
	return Member{}, false, fmt.Errorf("invalid %s %q, expected one of [%s]",
		s.kind, input, strings.Join(s.Values(), ", "))
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Set{}
)

// Register creates a Set and makes it available to Lookup.
// Registering the same kind twice panics.
func Register(kind string, members ...Member) Set {
	s := New(kind, members...)

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[kind]; exists {
		panic(fmt.Sprintf("enums: kind %q registered twice", kind))
	}
	registry[kind] = s
	return s
}

// Lookup returns a registered Set.
func Lookup(kind string) (Set, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	s, ok := registry[kind]
	return s, ok
}

// Kinds lists registered set identifiers, sorted.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// State is the present/absent choice shared by every CRUD module.
var State = Register("state",
	M("PRESENT", "present"),
	M("ABSENT", "absent"),
)

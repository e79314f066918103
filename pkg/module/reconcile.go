package module

// Action is the outcome of comparing an existing resource with the desired
// state.
type Action int

const (
	// NoChange: the resource exists and already matches.
	NoChange Action = iota
	Create
	Update
	Delete
	// NotFound: absent was requested and nothing exists.
	NotFound
)

// Decide picks the action for a present/absent module. equal is only
// consulted when the resource exists and should stay.
func Decide(exists, present, equal bool) Action {
	switch {
	case exists && present && equal:
		return NoChange
	case exists && present:
		return Update
	case present:
		return Create
	case exists:
		return Delete
	default:
		return NotFound
	}
}

// Changed reports whether the action mutates the remote side.
func (a Action) Changed() bool {
	return a == Create || a == Update || a == Delete
}

func (a Action) String() string {
	switch a {
	case NoChange:
		return "unchanged"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

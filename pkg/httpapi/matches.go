package httpapi

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// ToMap renders v as a JSON object with null members removed.
func ToMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("value is not a JSON object: %w", err)
	}
	return FilterNone(m), nil
}

// FilterNone removes null members from m, recursing into nested objects
// and arrays. m is modified in place and returned.
func FilterNone(m map[string]any) map[string]any {
	for k, v := range m {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = filterValue(v)
	}
	return m
}

func filterValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FilterNone(t)
	case []any:
		for i := range t {
			t[i] = filterValue(t[i])
		}
		return t
	default:
		return v
	}
}

// Diff compares desired against actual after rendering both to JSON.
// Every member of desired must be present in actual with an equal value;
// members only present in actual are ignored, at every object level.
// It returns an empty string when desired is a subset of actual.
func Diff(desired, actual any) (string, error) {
	d, err := ToMap(desired)
	if err != nil {
		return "", fmt.Errorf("desired: %w", err)
	}
	a, err := ToMap(actual)
	if err != nil {
		return "", fmt.Errorf("actual: %w", err)
	}
	return cmp.Diff(d, project(d, a)), nil
}

// Matches reports whether desired is a subset of actual. See Diff.
func Matches(desired, actual any) (bool, error) {
	diff, err := Diff(desired, actual)
	if err != nil {
		return false, err
	}
	return diff == "", nil
}

// project returns the part of actual that has the same object keys as
// desired, so cmp only reports differences in fields the caller set.
func project(desired, actual map[string]any) map[string]any {
	out := make(map[string]any, len(desired))
	for k, dv := range desired {
		av, ok := actual[k]
		if !ok {
			continue
		}
		dm, dIsMap := dv.(map[string]any)
		am, aIsMap := av.(map[string]any)
		if dIsMap && aIsMap {
			out[k] = project(dm, am)
			continue
		}
		out[k] = av
	}
	return out
}

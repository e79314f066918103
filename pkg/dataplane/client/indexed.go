package client

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Indexed pairs a positional rule with its index in the parent section.
type Indexed[T any] struct {
	Index int64
	Item  T
}

// MarshalJSON renders the item with its "index" member.
func (i Indexed[T]) MarshalJSON() ([]byte, error) {
	return withIndex(i.Item, i.Index)
}

// decodeIndexedList decodes an array of rules. Elements without an "index"
// member take their position in the array.
func decodeIndexedList[T any](data []byte) ([]Indexed[T], error) {
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a JSON array")
	}

	var out []Indexed[T]
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		var item T
		if err := json.Unmarshal([]byte(value.Raw), &item); err != nil {
			decodeErr = err
			return false
		}
		index := key.Int()
		if v := value.Get("index"); v.Exists() {
			index = v.Int()
		}
		out = append(out, Indexed[T]{Index: index, Item: item})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}

// decodeIndexed decodes one rule, keeping index when the body has none.
func decodeIndexed[T any](data []byte, index int64) (Indexed[T], error) {
	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return Indexed[T]{}, err
	}
	if v := gjson.GetBytes(data, "index"); v.Exists() {
		index = v.Int()
	}
	return Indexed[T]{Index: index, Item: item}, nil
}

package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type balance struct {
	Algorithm string `json:"algorithm,omitempty"`
}

type backendDTO struct {
	Name    string   `json:"name,omitempty"`
	Mode    string   `json:"mode,omitempty"`
	Retries *int64   `json:"retries,omitempty"`
	Balance *balance `json:"balance,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func TestMatches(t *testing.T) {
	three := int64(3)
	four := int64(4)

	actual := map[string]any{
		"name":    "web",
		"mode":    "http",
		"retries": 3,
		"balance": map[string]any{"algorithm": "roundrobin", "hash_type": "consistent"},
		"tags":    []any{"a", "b"},
		"id":      12,
	}

	tests := []struct {
		name    string
		desired backendDTO
		want    bool
	}{
		{name: "name only", desired: backendDTO{Name: "web"}, want: true},
		{name: "nested subset", desired: backendDTO{Name: "web", Balance: &balance{Algorithm: "roundrobin"}}, want: true},
		{name: "pointer int equal", desired: backendDTO{Name: "web", Retries: &three}, want: true},
		{name: "pointer int differs", desired: backendDTO{Name: "web", Retries: &four}, want: false},
		{name: "mode differs", desired: backendDTO{Name: "web", Mode: "tcp"}, want: false},
		{name: "nested differs", desired: backendDTO{Balance: &balance{Algorithm: "leastconn"}}, want: false},
		{name: "slices compared whole", desired: backendDTO{Tags: []string{"a"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.desired, actual)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches_MissingKey(t *testing.T) {
	got, err := Matches(map[string]any{"description": "x"}, map[string]any{"name": "web"})
	require.NoError(t, err)
	assert.False(t, got)

	diff, err := Diff(map[string]any{"description": "x"}, map[string]any{"name": "web"})
	require.NoError(t, err)
	assert.Contains(t, diff, "description")
}

func TestMatches_NotAnObject(t *testing.T) {
	_, err := Matches([]string{"a"}, map[string]any{})
	assert.Error(t, err)
}

func TestToMap_FiltersNulls(t *testing.T) {
	m, err := ToMap(map[string]any{
		"name":    "web",
		"nothing": nil,
		"nested":  map[string]any{"keep": 1, "drop": nil},
		"list":    []any{map[string]any{"drop": nil, "keep": true}},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":   "web",
		"nested": map[string]any{"keep": float64(1)},
		"list":   []any{map[string]any{"keep": true}},
	}, m)
}

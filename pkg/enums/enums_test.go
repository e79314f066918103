package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAlgorithms = New("test_algorithm",
	M("ROUND_ROBIN", "roundrobin"),
	M("STATIC_RR", "static-rr"),
	M("LEAST_CONN", "leastconn"),
)

func TestSet_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "by value", input: "roundrobin", want: "roundrobin"},
		{name: "by name", input: "ROUND_ROBIN", want: "roundrobin"},
		{name: "name case-insensitive", input: "static_rr", want: "static-rr"},
		{name: "value case-insensitive", input: "LeastConn", want: "leastconn"},
		{name: "trimmed", input: "  leastconn ", want: "leastconn"},
		{name: "empty", input: "", want: ""},
		{name: "unknown", input: "fastest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := testAlgorithms.Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "roundrobin, static-rr, leastconn")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSet_NamesAndValues(t *testing.T) {
	assert.Equal(t, []string{"ROUND_ROBIN", "STATIC_RR", "LEAST_CONN"}, testAlgorithms.Names())
	assert.Equal(t, []string{"roundrobin", "static-rr", "leastconn"}, testAlgorithms.Values())
}

func TestSet_Contains(t *testing.T) {
	assert.True(t, testAlgorithms.Contains("Round_Robin"))
	assert.False(t, testAlgorithms.Contains(""))
	assert.False(t, testAlgorithms.Contains("random"))
}

func TestSet_MustParsePanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { testAlgorithms.MustParse("nope") })
	assert.Equal(t, "absent", State.MustParse("ABSENT"))
}

func TestRegistry(t *testing.T) {
	s, ok := Lookup("state")
	require.True(t, ok)
	assert.Equal(t, "state", s.Kind())
	assert.Contains(t, Kinds(), "state")

	_, ok = Lookup("does-not-exist")
	assert.False(t, ok)

	assert.Panics(t, func() { Register("state", M("X", "x")) })
}

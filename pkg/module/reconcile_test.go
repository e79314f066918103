package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		exists, present, equal bool
		want                   Action
		changed                bool
	}{
		{exists: true, present: true, equal: true, want: NoChange},
		{exists: true, present: true, equal: false, want: Update, changed: true},
		{exists: false, present: true, want: Create, changed: true},
		{exists: true, present: false, want: Delete, changed: true},
		{exists: true, present: false, equal: true, want: Delete, changed: true},
		{exists: false, present: false, want: NotFound},
	}
	for _, tt := range tests {
		got := Decide(tt.exists, tt.present, tt.equal)
		assert.Equal(t, tt.want, got, "exists=%v present=%v equal=%v", tt.exists, tt.present, tt.equal)
		assert.Equal(t, tt.changed, got.Changed())
	}
	assert.Equal(t, "not_found", NotFound.String())
}

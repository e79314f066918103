package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/enums"
)

var testMode = enums.Register("test_proxy_mode",
	enums.M("HTTP", "http"),
	enums.M("TCP", "tcp"),
)

type enumParams struct {
	StateParams `yaml:",inline"`

	Name string `yaml:"name" validate:"required"`
	Mode string `yaml:"mode" validate:"enum=test_proxy_mode"`
	Kind string `yaml:"kind" validate:"omitempty,oneof=frontend backend"`
}

func TestValidate_Valid(t *testing.T) {
	params := &enumParams{StateParams: StateParams{State: "present"}, Name: "web", Mode: "HTTP", Kind: "backend"}
	assert.NoError(t, Validate(params))
}

func TestValidate_EmptyEnumAllowed(t *testing.T) {
	params := &enumParams{Name: "web"}
	assert.NoError(t, Validate(params))
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(&enumParams{})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"name"}, verr.Missing)
	assert.Equal(t, "missing required arguments: name", err.Error())
}

func TestValidate_InvalidEnum(t *testing.T) {
	err := Validate(&enumParams{Name: "web", Mode: "udp", StateParams: StateParams{State: "gone"}})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "value of mode must be one of: http, tcp, got: udp")
	assert.Contains(t, err.Error(), "value of state must be one of: present, absent, got: gone")
	assert.Equal(t, "tcp", testMode.MustParse("TCP"))
}

func TestValidate_InvalidOneOf(t *testing.T) {
	err := Validate(&enumParams{Name: "web", Kind: "listen"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "value of kind must be one of: frontend, backend, got: listen")
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

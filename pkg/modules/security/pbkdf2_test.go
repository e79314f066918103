package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/config"
	"restops/pkg/module"
	"restops/pkg/security"
)

func run(t *testing.T, name string, raw map[string]any) (*security.PBKDF2Result, error) {
	t.Helper()
	l, ok := module.Default().GetLookup(name)
	require.True(t, ok, name)

	params := l.NewParams()
	require.NoError(t, config.ParseMap(raw, params))
	require.NoError(t, config.Validate(params))

	out, err := l.Run(context.Background(), module.TestEnv(false), params)
	if err != nil {
		return nil, err
	}
	res, ok := out.(*security.PBKDF2Result)
	require.True(t, ok)
	return res, nil
}

func TestLookup(t *testing.T) {
	res, err := run(t, "pbkdf2_hash", map[string]any{"password": " s3cret ", "salt": "pepper", "rounds": "1000"})
	require.NoError(t, err)

	assert.Equal(t, "s3cret", res.PasswordOriginal)
	assert.Equal(t, "pepper", res.SaltOriginal)
	assert.Equal(t, "1000", res.Rounds)
	assert.Equal(t, "PBKDF2", res.HashDerivation)
	assert.Empty(t, res.HashMethod)
	assert.Regexp(t, `^\$pbkdf2-sha512\$1000\$cGVwcGVy\$`, res.PasswordSingleLine)
}

func TestFilter(t *testing.T) {
	res, err := run(t, "pbkdf2_hash_filter", map[string]any{"password": "s3cret", "salt": "pepper"})
	require.NoError(t, err)

	assert.Equal(t, "PBKDF2", res.HashMethod)
	assert.Equal(t, "100000", res.Rounds)
	assert.Equal(t, "SHA512", res.HashAlgorithm)
}

func TestRandomSalt(t *testing.T) {
	a, err := run(t, "pbkdf2_hash", map[string]any{"password": "s3cret"})
	require.NoError(t, err)
	b, err := run(t, "pbkdf2_hash", map[string]any{"password": "s3cret"})
	require.NoError(t, err)

	assert.Len(t, a.SaltOriginal, 16)
	assert.NotEqual(t, a.SaltOriginal, b.SaltOriginal)
}

func TestBlankPassword(t *testing.T) {
	_, err := run(t, "pbkdf2_hash", map[string]any{"password": "   "})
	require.ErrorIs(t, err, security.ErrPasswordRequired)
	assert.Equal(t, "The Field 'password' is Mandatory.", err.Error())
}

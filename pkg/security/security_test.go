package security

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomString(t *testing.T) {
	for _, n := range []int{1, 16, 33} {
		s, err := RandomString(n)
		require.NoError(t, err)
		assert.Len(t, s, n)
		assert.NotContains(t, s, "+")
		assert.NotContains(t, s, "/")
	}

	a, _ := RandomString(16)
	b, _ := RandomString(16)
	assert.NotEqual(t, a, b)

	_, err := RandomString(0)
	assert.Error(t, err)
}

func TestHashPBKDF2_KnownVector(t *testing.T) {
	// PBKDF2-HMAC-SHA512("password", "salt", 1, 64)
	want, err := hex.DecodeString("867f70cf1ade02cff3752599a3a53dc4af34c7a669815ae5d513554e1c8cf252" +
		"c02d470a285a0501bad999bfe943c08f050235d7d68b1da55e63f73b60a57fce")
	require.NoError(t, err)
	wantB64 := base64.StdEncoding.EncodeToString(want)

	res, err := HashPBKDF2(PBKDF2Params{Password: "password", Salt: "salt", Rounds: 1})
	require.NoError(t, err)

	assert.Equal(t, "password", res.PasswordOriginal)
	assert.Equal(t, "salt", res.SaltOriginal)
	assert.Equal(t, "c2FsdA==", res.Salt)
	assert.Equal(t, "1", res.Rounds)
	assert.Equal(t, "$pbkdf2-sha512$1$c2FsdA==$"+wantB64, res.PasswordSingleLine)
	assert.Equal(t, "1$"+wantB64, res.PasswordCrypted)
	assert.Equal(t, "PBKDF2", res.HashMethod)
	assert.Empty(t, res.HashDerivation)
	assert.Equal(t, "SHA512", res.HashAlgorithm)
}

func TestHashPBKDF2_Defaults(t *testing.T) {
	res, err := HashPBKDF2(PBKDF2Params{Password: "s3cret", Salt: "   ", Rounds: -5})
	require.NoError(t, err)

	assert.Len(t, res.SaltOriginal, 16)
	assert.Equal(t, "100000", res.Rounds)
	parts := strings.Split(res.PasswordSingleLine, "$")
	require.Len(t, parts, 5)
	assert.Equal(t, "pbkdf2-sha512", parts[1])
	assert.Equal(t, "100000", parts[2])

	hash, err := base64.StdEncoding.DecodeString(parts[4])
	require.NoError(t, err)
	assert.Len(t, hash, 64)
}

func TestHashPBKDF2_BlankPassword(t *testing.T) {
	for _, pw := range []string{"", "   "} {
		_, err := HashPBKDF2(PBKDF2Params{Password: pw})
		require.ErrorIs(t, err, ErrPasswordRequired)
		assert.Equal(t, "The Field 'password' is Mandatory.", err.Error())
	}
}

func TestHashPBKDF2Lookup(t *testing.T) {
	res, err := HashPBKDF2Lookup(PBKDF2Params{Password: "  password \n", Salt: "salt", Rounds: 1})
	require.NoError(t, err)

	direct, err := HashPBKDF2(PBKDF2Params{Password: "password", Salt: "salt", Rounds: 1})
	require.NoError(t, err)

	assert.Equal(t, "password", res.PasswordOriginal)
	assert.Equal(t, direct.PasswordSingleLine, res.PasswordSingleLine)
	assert.Equal(t, "PBKDF2", res.HashDerivation)
	assert.Empty(t, res.HashMethod)
}

func TestPBKDF2Params_SetDefaults(t *testing.T) {
	var p PBKDF2Params
	p.SetDefaults()
	assert.Equal(t, 100000, p.Rounds)
}

package github

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restops/pkg/core/config"
	githubapi "restops/pkg/github"
	"restops/pkg/module"
)

func TestAppTokenLookup(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pkcs1 := string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))

	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.Method + " " + r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"token":"ghs_xyz","expires_at":"2025-03-01T13:00:00Z"}`)
	}))
	defer srv.Close()

	l, ok := module.Default().GetLookup("github_app_token")
	require.True(t, ok)

	params := l.NewParams()
	require.NoError(t, config.ParseMap(map[string]any{
		"base_url":           srv.URL,
		"installation_id":    "42",
		"application_id":     "963346",
		"private_key":        pkcs1,
		"private_key_format": "PEM_PKCS_1",
		"jwt_key_duration":   120,
	}, params))
	require.NoError(t, config.Validate(params))

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	env := module.TestEnv(false)
	env.Now = func() time.Time { return now }

	out, err := l.Run(context.Background(), env, params)
	require.NoError(t, err)

	list, ok := out.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	token, ok := list[0].(*githubapi.AccessToken)
	require.True(t, ok)
	assert.Equal(t, "ghs_xyz", token.Token)
	assert.Equal(t, "POST /app/installations/42/access_tokens", gotPath)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimPrefix(gotAuth, "Bearer "), claims, func(*jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	assert.Equal(t, "963346", claims.Issuer)
	assert.Equal(t, now.Add(-60*time.Second).Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(60*time.Second).Unix(), claims.ExpiresAt.Unix())
}

func TestAppTokenLookup_Defaults(t *testing.T) {
	var p AppTokenParams
	require.NoError(t, config.ParseMap(map[string]any{"installation_id": "1", "application_id": "2", "private_key": "k"}, &p))
	require.NoError(t, config.Validate(&p))

	assert.Equal(t, "https://api.github.com", p.BaseURL)
	assert.Equal(t, githubapi.FormatPKCS8, p.PrivateKeyFormat)
	assert.Equal(t, 30, p.JWTKeyDuration)
	assert.Equal(t, "RS256", p.JWTAlgorithm)
	assert.Equal(t, "2022-11-28", p.GitHubAPIVersion)
}

func TestAppTokenLookup_MissingInstallation(t *testing.T) {
	var p AppTokenParams
	require.NoError(t, config.ParseMap(map[string]any{"application_id": "2", "private_key": "k"}, &p))
	err := config.Validate(&p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "installation_id")
}

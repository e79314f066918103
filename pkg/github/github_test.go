package github

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youmark/pkcs8"

	"restops/pkg/core/logging"
	"restops/pkg/httpapi"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
)

func rsaKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return testKey
}

func pkcs1PEM(t *testing.T) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey(t))}))
}

func pkcs8PEM(t *testing.T) string {
	der, err := x509.MarshalPKCS8PrivateKey(rsaKey(t))
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

func TestParsePrivateKey(t *testing.T) {
	encDER, err := pkcs8.ConvertPrivateKeyToPKCS8(rsaKey(t), []byte("s3cret"))
	require.NoError(t, err)
	encryptedPKCS8 := string(pem.EncodeToMemory(&pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: encDER}))

	//nolint:staticcheck // legacy PEM encryption fixture
	legacyBlock, err := x509.EncryptPEMBlock(rand.Reader, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(rsaKey(t)), []byte("s3cret"), x509.PEMCipherAES256)
	require.NoError(t, err)
	legacyPKCS1 := string(pem.EncodeToMemory(legacyBlock))

	tests := []struct {
		name     string
		data     string
		format   string
		password string
		wantErr  string
	}{
		{name: "pkcs1 by value", data: pkcs1PEM(t), format: "PKCS#1"},
		{name: "pkcs1 by name", data: pkcs1PEM(t), format: "pem_pkcs_1"},
		{name: "pkcs8 default format", data: pkcs8PEM(t)},
		{name: "pkcs8 declared as pkcs1", data: pkcs8PEM(t), format: "PKCS#1"},
		{name: "encrypted pkcs8", data: encryptedPKCS8, format: "PKCS#8", password: "s3cret"},
		{name: "encrypted pkcs8 without password", data: encryptedPKCS8, format: "PKCS#8", wantErr: "no password"},
		{name: "encrypted pkcs8 wrong password", data: encryptedPKCS8, format: "PKCS#8", password: "nope", wantErr: "failed to parse"},
		{name: "legacy encrypted pkcs1", data: legacyPKCS1, format: "PKCS#1", password: "s3cret"},
		{name: "legacy encrypted pkcs1 without password", data: legacyPKCS1, format: "PKCS#1", wantErr: "no password"},
		{name: "pkcs1 declared as pkcs8", data: pkcs1PEM(t), format: "PKCS#8", wantErr: "failed to parse"},
		{name: "unknown format", data: pkcs8PEM(t), format: "JWK", wantErr: "expected one of"},
		{name: "not pem", data: "hello", wantErr: "not PEM"},
		{name: "empty", data: " ", wantErr: "'private_key' is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParsePrivateKey(tt.data, tt.format, tt.password)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			rsaPriv, ok := key.(*rsa.PrivateKey)
			require.True(t, ok)
			assert.True(t, rsaPriv.Equal(rsaKey(t)))
		})
	}
}

func TestParsePrivateKey_ECPKCS1(t *testing.T) {
	ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(ec)
	require.NoError(t, err)

	key, err := ParsePrivateKey(string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})), "PKCS#1", "")
	require.NoError(t, err)
	_, ok := key.(*ecdsa.PrivateKey)
	assert.True(t, ok)
}

func TestAppJWT(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	signed, err := AppJWT("963346", rsaKey(t), "RS256", now, 30*time.Second, 60*time.Second)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return &rsaKey(t).PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}), jwt.WithTimeFunc(func() time.Time { return now.Add(-45 * time.Second) }))
	require.NoError(t, err)
	assert.True(t, token.Valid)

	assert.Equal(t, "963346", claims.Issuer)
	assert.Equal(t, now.Add(-60*time.Second).Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(-30*time.Second).Unix(), claims.ExpiresAt.Unix())

	_, err = AppJWT("1", rsaKey(t), "XS999", now, time.Second, 0)
	assert.ErrorContains(t, err, "unsupported JWT algorithm")
}

func TestCreateAccessToken(t *testing.T) {
	now := time.Now()
	var gotAuth, gotAccept, gotVersion, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotVersion = r.Header.Get("X-GitHub-Api-Version")
		gotPath = r.Method + " " + r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"token":"ghs_abc","expires_at":"2025-03-01T13:00:00Z","permissions":{"contents":"read"},"repository_selection":"all"}`)
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL:          srv.URL,
		InstallationID:   "42",
		ApplicationID:    "963346",
		PrivateKey:       pkcs1PEM(t),
		PrivateKeyFormat: "PEM_PKCS_1",
		Logger:           logging.Discard(),
		Now:              func() time.Time { return now },
	})
	require.NoError(t, err)

	tok, err := c.CreateAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghs_abc", tok.Token)
	assert.Equal(t, "read", tok.Permissions["contents"])
	assert.Equal(t, "all", tok.RepositorySelection)
	assert.Equal(t, 2025, tok.ExpiresAt.Year())

	assert.Equal(t, "POST /app/installations/42/access_tokens", gotPath)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
	assert.Equal(t, "2022-11-28", gotVersion)
	require.True(t, strings.HasPrefix(gotAuth, "Bearer "))

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimPrefix(gotAuth, "Bearer "), claims, func(*jwt.Token) (any, error) {
		return &rsaKey(t).PublicKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now.Add(-45 * time.Second) }))
	require.NoError(t, err)
	assert.Equal(t, "963346", claims.Issuer)
}

func TestCreateAccessToken_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"A JSON web token could not be decoded","documentation_url":"https://docs.github.com/rest","status":"401"}`)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, InstallationID: "42", ApplicationID: "1", PrivateKey: pkcs8PEM(t), Logger: logging.Discard()})
	require.NoError(t, err)

	_, err = c.CreateAccessToken(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpapi.StatusCode(err))
	assert.Contains(t, err.Error(), "API Error : [Status : 401, Message : A JSON web token could not be decoded]")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{ApplicationID: "1", PrivateKey: "x"})
	assert.ErrorContains(t, err, "'app_installation_id' is required")

	_, err = New(Config{InstallationID: "1", PrivateKey: "x"})
	assert.ErrorContains(t, err, "'app_id' is required")

	_, err = New(Config{InstallationID: "1", ApplicationID: "1"})
	assert.ErrorContains(t, err, "'app_private_key' is required")

	_, err = New(Config{InstallationID: "1", ApplicationID: "1", PrivateKey: "garbage"})
	assert.ErrorContains(t, err, "not PEM")
}

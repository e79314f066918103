package github

import (
	"crypto"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AppJWT signs the short-lived token a GitHub App authenticates with.
// The issue time is moved back by drift to absorb clock skew with GitHub.
func AppJWT(appID string, key crypto.Signer, algorithm string, now time.Time, duration, drift time.Duration) (string, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return "", fmt.Errorf("unsupported JWT algorithm %q", algorithm)
	}

	iat := now.Add(-drift).Truncate(time.Second)
	claims := jwt.RegisteredClaims{
		Issuer:    appID,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(iat.Add(duration)),
	}

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

// Package security holds the credential helpers: random strings and
// PBKDF2 password hashes.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomString returns n characters of URL-safe base64 drawn from n random
// bytes.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf)[:n], nil
}

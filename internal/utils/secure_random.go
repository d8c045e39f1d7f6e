package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// stateBytes is the entropy of a sign-in state token.
const stateBytes = 32

// NewOAuthState returns an unpadded base64url token for the OAuth state parameter.
// It is safe to place in both a cookie and a query string.
func NewOAuthState() (string, error) {
	return randomToken(stateBytes)
}

func randomToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

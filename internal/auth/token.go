package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateToken produces a cryptographically secure bearer token and the
// digest under which it is stored. The raw token goes to the client once and
// is never persisted; lookups hash the presented token and match digests.
func GenerateToken() (token, digest string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	token = base64.URLEncoding.EncodeToString(b)
	return token, DigestToken(token), nil
}

// DigestToken returns the storage digest of a raw bearer token.
func DigestToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

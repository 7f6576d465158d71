// Package security provides secure random generation and token utilities
package security

import (
	"crypto/rand"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// urlSafeAlphabet is the character set for session tokens. It matches the
// alphabet commonly used for URL-safe ids (A-Za-z0-9_-), 64 characters so
// rejection sampling is unnecessary.
const urlSafeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// GenerateULID generates a new ULID string.
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateSessionID mints a new session identifier: the given constant prefix
// followed by length characters drawn from a URL-safe alphabet using
// crypto/rand. The result is unique with overwhelming probability.
func GenerateSessionID(prefix string, length int) (string, error) {
	token, err := GenerateURLSafeToken(length)
	if err != nil {
		return "", err
	}
	return prefix + token, nil
}

// GenerateURLSafeToken generates a cryptographically secure random token of
// exactly length characters from the URL-safe alphabet.
func GenerateURLSafeToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	for i, b := range bytes {
		bytes[i] = urlSafeAlphabet[b&63]
	}
	return string(bytes), nil
}

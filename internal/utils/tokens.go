package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"io"
)

// GenerateSecureToken returns length random bytes, URL-safe base64 encoded.
// It backs CSRF tokens and CSP nonces.
func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// TokensEqual compares a submitted token against the expected one in constant
// time. An empty submission never matches.
func TokensEqual(submitted, expected string) bool {
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) == 1
}

// Package utils holds small helpers shared across services.
package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRefreshToken returns nBytes of randomness hex-encoded. It backs both
// the rotated refresh tokens (32 bytes) and the short Telegram link codes
// (4 bytes); the value is opaque to clients either way.
func NewRefreshToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

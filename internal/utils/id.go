// Package utils provides common utility functions shared by the engine, the
// daemon and the CLI.
//
// This file implements ID generation for batches. Uses crypto/rand so IDs
// issued by concurrent daemons never collide in shared logs.
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// ShortIDLength is the display length used by TruncateIDSafe.
const ShortIDLength = 8

// GenerateID creates a unique 12-character hex identifier.
//
// Returns format: "a1b2c3d4e5f6" (12 hex characters, similar to Docker short IDs)
func GenerateID() (string, error) {
	// Generate 6 bytes of random data (12 hex characters)
	bytes := make([]byte, 6)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// TruncateIDSafe shortens id to ShortIDLength characters. Shorter IDs are
// returned unchanged.
func TruncateIDSafe(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

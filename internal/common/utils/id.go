// Package utils provides utility functions shared across the integration
// pipeline.
//
// This package contains common utilities for ID generation, retry logic,
// and string handling used throughout the application.
//
// Features:
//   - Cryptographically secure ID generation
//   - Request ID generation with timestamps
//   - Fixed-delay retry with context cancellation
//   - Nullable string conversion helpers for database operations
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// GenerateRandomID generates a cryptographically secure random hex ID.
//
// Creates a random ID of the specified length using crypto/rand.
// The resulting string will contain hexadecimal characters (0-9, a-f).
//
// Parameters:
//   - length: Desired length of the hex string (must be even for proper byte alignment)
//
// Returns:
//   - string: Hex-encoded random ID
//   - error: nil on success, error if random generation fails
//
// For odd lengths, the result will be 1 character shorter due to hex encoding.
// Each byte generates 2 hex characters, so length/2 bytes are generated.
func GenerateRandomID(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// RandomDigits generates a string of n cryptographically random decimal digits.
//
// Useful for human-facing reference suffixes where hex would read poorly.
// Falls back to zeros only if the random source fails, which typically
// indicates system-level issues with the random number generator.
func RandomDigits(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			sb.WriteByte('0')
			continue
		}
		sb.WriteByte(byte('0' + v.Int64()))
	}
	return sb.String()
}

// GenerateRequestID generates a unique request ID for tracing and correlation.
//
// Creates a request ID in the format: "req-{randomHex}-{timestamp}"
// where randomHex is a 16-character random hex string and timestamp
// is the current Unix timestamp.
//
// Returns:
//   - string: Request ID suitable for distributed tracing
//   - error: nil on success, error if random generation fails
//
// The request ID is designed to be:
//   - Unique across distributed systems
//   - Sortable by creation time (timestamp suffix)
//   - Easily identifiable as a request ID (req- prefix)
func GenerateRequestID() (string, error) {
	id, err := GenerateRandomID(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return fmt.Sprintf("req-%s-%d", id, time.Now().Unix()), nil
}

// MustGenerateRequestID generates a request ID or panics on failure.
//
// Convenience function that wraps GenerateRequestID() and panics if
// an error occurs. Use this when request ID generation failure is
// considered a fatal error that should stop program execution.
func MustGenerateRequestID() string {
	id, err := GenerateRequestID()
	if err != nil {
		panic(fmt.Sprintf("failed to generate request ID: %v", err))
	}
	return id
}

package utils

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomID(t *testing.T) {
	tests := []struct {
		name           string
		length         int
		expectedLength int
	}{
		{"even length", 16, 16},
		{"small length", 4, 4},
		{"large length", 64, 64},
		{"zero length", 0, 0},
		{"odd length", 15, 14}, // hex encoding emits 2 chars per byte
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateRandomID(tt.length)
			require.NoError(t, err)

			assert.Len(t, id, tt.expectedLength)

			// Verify it's a valid hex string
			matched, err := regexp.MatchString("^[0-9a-f]*$", id)
			require.NoError(t, err)
			assert.True(t, matched, "ID should be valid hex: %s", id)
		})
	}
}

func TestGenerateRandomID_Uniqueness(t *testing.T) {
	// Generate multiple IDs and verify they're unique
	const numIDs = 1000
	const length = 32
	ids := make(map[string]bool)

	for i := 0; i < numIDs; i++ {
		id, err := GenerateRandomID(length)
		require.NoError(t, err)
		assert.False(t, ids[id], "Generated duplicate ID: %s", id)
		ids[id] = true
	}
}

func TestRandomDigits(t *testing.T) {
	digitRegex := regexp.MustCompile(`^[0-9]*$`)

	for _, n := range []int{0, 1, 4, 10} {
		t.Run(fmt.Sprintf("length_%d", n), func(t *testing.T) {
			s := RandomDigits(n)
			assert.Len(t, s, n)
			assert.True(t, digitRegex.MatchString(s), "should be all digits: %s", s)
		})
	}
}

func TestRandomDigits_Spread(t *testing.T) {
	// Over many draws every digit position should vary
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[RandomDigits(4)] = true
	}
	assert.True(t, len(seen) > 50, "should generate diverse values, got %d distinct", len(seen))
}

func TestGenerateRequestID(t *testing.T) {
	// Format: req-{hex}-{timestamp}
	requestIDRegex := regexp.MustCompile(`^req-[0-9a-f]+-\d+$`)

	startTime := time.Now().Unix()

	for i := 0; i < 10; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			requestID, err := GenerateRequestID()
			require.NoError(t, err)

			// Verify format
			assert.True(t, requestIDRegex.MatchString(requestID), "Invalid request ID format: %s", requestID)

			// Verify prefix
			assert.True(t, strings.HasPrefix(requestID, "req-"), "Request ID should start with 'req-'")

			// Extract and verify timestamp
			parts := strings.Split(requestID, "-")
			require.Len(t, parts, 3)

			timestamp := int64(0)
			_, err = fmt.Sscanf(parts[2], "%d", &timestamp)
			require.NoError(t, err)

			// Timestamp should be recent
			endTime := time.Now().Unix()
			assert.True(t, timestamp >= startTime, "Timestamp too old")
			assert.True(t, timestamp <= endTime, "Timestamp in future")
		})
	}
}

func TestGenerateRequestID_Uniqueness(t *testing.T) {
	// Generate multiple request IDs and verify they're unique
	const numIDs = 1000
	ids := make(map[string]bool)

	for i := 0; i < numIDs; i++ {
		id, err := GenerateRequestID()
		require.NoError(t, err)
		assert.False(t, ids[id], "Generated duplicate request ID: %s", id)
		ids[id] = true
	}
}

func TestMustGenerateRequestID(t *testing.T) {
	// Normal case should work without panic
	assert.NotPanics(t, func() {
		id := MustGenerateRequestID()
		assert.Contains(t, id, "req-")
		assert.NotEmpty(t, id)
	})

	// Verify format matches GenerateRequestID
	mustID := MustGenerateRequestID()
	normalID, err := GenerateRequestID()
	require.NoError(t, err)

	// Both should have same format
	requestIDRegex := regexp.MustCompile(`^req-[0-9a-f]+-\d+$`)
	assert.True(t, requestIDRegex.MatchString(mustID))
	assert.True(t, requestIDRegex.MatchString(normalID))
}

func TestStringOrNil(t *testing.T) {
	assert.Nil(t, StringOrNil(""))

	ptr := StringOrNil("value")
	require.NotNil(t, ptr)
	assert.Equal(t, "value", *ptr)
}

func TestStringFromPtr(t *testing.T) {
	assert.Equal(t, "", StringFromPtr(nil))

	s := "value"
	assert.Equal(t, "value", StringFromPtr(&s))
}

func BenchmarkGenerateRandomID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateRandomID(32)
	}
}

func BenchmarkGenerateRequestID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateRequestID()
	}
}

func BenchmarkRandomDigits(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RandomDigits(4)
	}
}

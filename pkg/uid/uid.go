package uid

import (
	"strings"

	"github.com/google/uuid"
)

// New generates a new unique identifier.
func New() string {
	return uuid.New().String()
}

// NewPrefixed generates a unique identifier of the form "<prefix>-<uuid>".
func NewPrefixed(prefix string) string {
	return prefix + "-" + New()
}

// Short returns the first n hex characters of a fresh random UUID.
// n is clamped to [1, 32].
func Short(n int) string {
	if n < 1 {
		n = 1
	}
	if n > 32 {
		n = 32
	}
	return strings.ReplaceAll(New(), "-", "")[:n]
}

// IsValid checks if a string is a valid UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

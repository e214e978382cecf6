package utils

import "github.com/google/uuid"

// NewID returns a fresh random identifier for server-assigned record IDs.
func NewID() string {
	return uuid.NewString()
}

// ShortID returns the first segment of a fresh UUID, used as a collision
// suffix on timestamp-derived appointment IDs.
func ShortID() string {
	return uuid.NewString()[:8]
}

package utils

import "github.com/google/uuid"

var newUUIDv7 = uuid.NewV7

// NewID returns a time-ordered identifier for accounts, investments and
// notices. Falls back to a random v4 id when the v7 clock read fails.
func NewID() string {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

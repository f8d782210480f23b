package domain

import "github.com/google/uuid"

// IsValidID reports whether s is a well-formed entity identifier.
func IsValidID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// NewID returns a time-ordered identifier, so ids sort like their creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

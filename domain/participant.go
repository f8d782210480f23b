package domain

import "time"

// Presence is the online state stored for a user.
type Presence struct {
	Online   bool
	LastSeen *time.Time
}

package models

import "time"

// ResetToken is a persisted single-use password-reset capability. The token
// string is itself a signed expiring token, so validity is governed by the
// earlier of the embedded expiry and ExpirationTime.
type ResetToken struct {
	ID             string
	UserID         string
	Token          string
	ExpirationTime time.Time
	Used           bool
}

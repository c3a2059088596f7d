package models

import "time"

// OtpChallenge is a one-time numeric code bound to an email address.
// Several unused challenges may coexist for the same email; verification
// matches on (email, code) and checks used/expiry rather than assuming
// there is only one.
type OtpChallenge struct {
	ID             string
	Email          string
	Code           string
	ExpirationTime time.Time
	Used           bool
}

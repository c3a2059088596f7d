package models

import "time"

// VaultEntry is an opaque encrypted credential record owned by a single user.
// The server never sees the plaintext; encryption happens client-side.
type VaultEntry struct {
	ID                string
	UserID            string
	Website           string
	Username          string
	EncryptedPassword string
	IV                string
	Salt              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

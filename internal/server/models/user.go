// Package models holds the row types persisted by the server repositories.
package models

import "time"

type User struct {
	ID             string
	Email          string
	HashedPassword string
	Verified       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

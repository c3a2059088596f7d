// Package common defines shared constants and sentinel errors used across
// the Pass-Vault server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Auth errors. ErrorInvalidCredentials deliberately covers the whole
	// family (unknown user, wrong password, bad OTP, bad reset token) so the
	// boundary never tells a caller which one failed.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorAlreadyExists      = errors.New("already exists")
	ErrorInvalidToken       = errors.New("invalid token")
)

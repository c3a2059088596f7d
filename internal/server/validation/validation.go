// Package validation checks request fields before any flow runs: email shape,
// the password complexity pattern, and the OTP digit format.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 40

	passwordSpecials = "@$!%*?&#"
)

var (
	otpPattern     = regexp.MustCompile(`^[0-9]{6}$`)
	allowedPwChars = regexp.MustCompile(`^[A-Za-z0-9@$#!%*?&]+$`)
)

// FieldError describes a single invalid request field. It is shaped for the
// "details" list of the error envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Email checks that value parses as a single address.
func Email(field, value string) *FieldError {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return &FieldError{Field: field, Message: "Give a valid email address", Type: "value_error.email"}
	}
	return nil
}

// Password enforces the complexity rule: 8 to 40 characters from the allowed
// set, with at least one lowercase letter, one uppercase letter, one digit,
// and one of @$!%*?&#.
func Password(field, value string) *FieldError {
	if len(value) < PasswordMinLen || len(value) > PasswordMaxLen {
		return &FieldError{
			Field:   field,
			Message: fmt.Sprintf("Password must be between %d and %d characters.", PasswordMinLen, PasswordMaxLen),
			Type:    "value_error.length",
		}
	}

	var lower, upper, digit, special bool
	for _, c := range value {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		}
	}

	if !lower || !upper || !digit || !special || !allowedPwChars.MatchString(value) {
		return &FieldError{
			Field:   field,
			Message: "Password must contain at least 1 uppercase, 1 lowercase, 1 digit, and 1 special character.",
			Type:    "value_error.pattern",
		}
	}

	return nil
}

// OTP checks for exactly six decimal digits.
func OTP(field, value string) *FieldError {
	if !otpPattern.MatchString(value) {
		return &FieldError{Field: field, Message: "Enter the 6-digit OTP sent to your email", Type: "value_error.pattern"}
	}
	return nil
}

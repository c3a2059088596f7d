// Package auth implements the signed-token codec and password hashing used
// by the authentication flows.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/passvault/passvault/internal/common"
	"github.com/passvault/passvault/internal/timex"
)

// TokenType tags a signed token with its purpose. The codec itself is
// type-agnostic; callers must check the returned type matches what they
// expect (e.g. the refresh endpoint rejects anything but TypeRefresh).
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
	TypeReset   TokenType = "reset"
)

// Claims carries the standard registered claims plus the token type tag.
// Subject holds the user email.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"type"`
}

// Codec signs and verifies compact expiring tokens (HS256). Verification
// reads the injected clock so expiry can be simulated in tests.
type Codec struct {
	secret []byte
	clock  timex.Clock
}

func NewCodec(secret []byte, clock timex.Clock) *Codec {
	return &Codec{secret: secret, clock: clock}
}

// Issue produces a signed token embedding subject, typ, and an absolute
// expiration of now + ttl.
func (c *Codec) Issue(subject string, typ TokenType, ttl time.Duration) (string, error) {
	now := c.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
	})
	return token.SignedString(c.secret)
}

// Verify parses and validates tokenString. Bad signature, malformed payload,
// and elapsed expiry all collapse into common.ErrorInvalidToken; the caller
// never learns which check failed.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}

package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt digest of password at the given cost.
// Pass 0 (or anything below bcrypt.MinCost) to use bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether password matches digest. A malformed digest
// is a plain mismatch, never an error to the caller.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

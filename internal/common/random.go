package common

import (
	"crypto/rand"
	"math/big"
)

// MakeNumericCode returns a string of length random decimal digits, leading
// zeros allowed. Digits come from crypto/rand.
func MakeNumericCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

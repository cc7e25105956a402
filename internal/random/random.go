// Package random holds the random-material helpers shared by the engine:
// OTP digits, reset-token bytes, and the hash applied to reset tokens
// before they touch the cache.
package random

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
)

const resetTokenBytes = 32

// OTP returns a fixed-width decimal code drawn uniformly from the full
// digit range: for width 6 the inclusive range 100000-999999.
func OTP(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", errors.New("invalid otp digits")
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	span := new(big.Int).Mul(low, big.NewInt(9)) // 9 * 10^(d-1) values

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}

	return new(big.Int).Add(low, n).String(), nil
}

// ResetToken returns a raw hex-encoded reset token. Only its hash is ever
// stored; the raw value goes to the user and nowhere else.
func ResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashToken is the deterministic digest applied to reset tokens at rest,
// so a cache read never exposes a usable token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

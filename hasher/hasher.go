// Package hasher wraps password hashing. Grounded on
// original_source/src/utils/hasher.rs's Hasher::hash/verify. No
// password-hashing library appears anywhere in the retrieved pack, so this
// package reaches for golang.org/x/crypto/bcrypt — the closest
// stdlib-adjacent equivalent to the original's bcrypt crate.
package hasher

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of plain at the library's default cost.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hasher: hash: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hashed.
func Verify(plain, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("hasher: verify: %w", err)
}

package auth

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword is returned when a password fails the strength policy.
var ErrWeakPassword = errors.New("password must be at least 8 characters and include uppercase, lowercase, number, and special character")

// HashPassword produces a salted bcrypt digest. Hashing the same input
// twice yields different digests; CheckPassword matches both.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plain matches the stored digest.
func CheckPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// ValidatePasswordStrength enforces the registration policy: minimum 8
// characters with at least one lowercase letter, one uppercase letter, one
// digit and one symbol. Anything that is not a letter or digit counts as a
// symbol, underscore included.
func ValidatePasswordStrength(plain string) error {
	var lower, upper, digit, symbol bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if len(plain) < 8 || !lower || !upper || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}

package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with its stored hash.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePolicy checks a candidate password against the account policy
// and returns every rejection reason, empty when the password is
// acceptable. The prompt layer shows the reasons and re-prompts.
func ValidatePolicy(password string) []string {
	var reasons []string
	if len(password) < 8 {
		reasons = append(reasons, "must be at least 8 characters long")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		reasons = append(reasons, "must contain an uppercase letter")
	}
	if !lower {
		reasons = append(reasons, "must contain a lowercase letter")
	}
	if !digit {
		reasons = append(reasons, "must contain a digit")
	}
	if strings.TrimSpace(password) != password {
		reasons = append(reasons, "must not start or end with whitespace")
	}
	return reasons
}

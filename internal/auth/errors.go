package auth

import "errors"

var (
	// ErrInvalidToken indicates the persisted token is missing, malformed,
	// tampered with, or expired. The caller is expected to re-login.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrInvalidArgument indicates bad token-issuance input.
	ErrInvalidArgument = errors.New("auth: invalid argument")
	// ErrBadCredentials indicates a wrong email/password pair.
	ErrBadCredentials = errors.New("auth: invalid email or password")
	// ErrTooManyAttempts indicates the login attempt cap was reached.
	ErrTooManyAttempts = errors.New("auth: too many login attempts")
)

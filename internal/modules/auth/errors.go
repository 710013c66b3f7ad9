package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAccountSuspended   = errors.New("account suspended")

	// ErrSessionNotFound: the refresh credential references no known session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionRevoked: the session left the Active state (rotated, revoked
	// or expired), so the credential can never be used again. Handlers
	// collapse this with ErrSessionNotFound and ErrUserMismatch into one
	// 401 so a caller cannot tell which check failed.
	ErrSessionRevoked = errors.New("session revoked")
	// ErrUserMismatch: the session exists but belongs to another account.
	ErrUserMismatch = errors.New("session user mismatch")
)

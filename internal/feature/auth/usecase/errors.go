// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when email or password is incorrect,
	// or when the account is inactive or soft-deleted.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")

	// ErrForbidden is returned when the authenticated user lacks the
	// privilege for the requested operation.
	ErrForbidden = errors.New("operation not permitted")

	// ErrResetTokenInvalid is returned when a reset token matches no record.
	// The message stays generic so token existence is never revealed.
	ErrResetTokenInvalid = errors.New("this reset link is invalid")

	// ErrResetTokenUsed is returned when a reset token was already consumed.
	ErrResetTokenUsed = errors.New("this reset link has already been used")

	// ErrResetTokenExpired is returned when a reset token is past its expiry.
	ErrResetTokenExpired = errors.New("this reset link has expired")
)

// Package auth verifies Google identities, issues session tokens and drives
// the Calendar OAuth consent flow.
package auth

import "errors"

var (
	// ErrUnauthenticated is returned for a missing, malformed or expired bearer credential.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrOAuthNotConfigured is returned when the Google client id/secret are absent.
	ErrOAuthNotConfigured = errors.New("Google OAuth not configured")

	// ErrInvalidIDToken is returned when a Google ID token fails verification.
	ErrInvalidIDToken = errors.New("invalid Google token")

	// ErrInvalidState is returned when an OAuth callback carries a bad state value.
	ErrInvalidState = errors.New("invalid OAuth state")
)

package domain

import "errors"

// Common domain errors
var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCannotDeleteSelf = errors.New("cannot delete your own account")
)

// Profile errors
var (
	// ErrProfileMissing means a user exists without its kind-matched
	// profile row. Provisioning writes both in one transaction, so this
	// is a data inconsistency, not a user-correctable condition.
	ErrProfileMissing = errors.New("profile missing for user")
)

// Store errors
var (
	// ErrStoreUnavailable wraps transient store failures. The caller may
	// retry the whole operation; no partial write occurred.
	ErrStoreUnavailable = errors.New("store unavailable")
)

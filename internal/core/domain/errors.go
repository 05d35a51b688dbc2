package domain

import "errors"

// Sentinel errors used across services and handlers. Handlers map these to
// HTTP status codes in exactly one place.
var (
	// ErrInvalidCredential covers unknown usernames, wrong passwords and
	// unknown or inactive API keys. The message is deliberately generic so
	// responses cannot be used for account enumeration.
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrCredentialExpired means the API key was recognized but its expiry
	// has elapsed.
	ErrCredentialExpired = errors.New("API key expired")

	// ErrMethodNotAllowed means a valid API key was used with an HTTP method
	// API keys may never use.
	ErrMethodNotAllowed = errors.New("method not permitted for API key access")

	// ErrEndpointNotAllowed means a valid API key was used on a path outside
	// its allow-list.
	ErrEndpointNotAllowed = errors.New("endpoint not permitted for API key access")

	// ErrNotAuthenticated means no session and no valid API key resolved an
	// identity on a protected route.
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrNotAuthorized means the resolved identity does not own the resource
	// it tried to mutate.
	ErrNotAuthorized = errors.New("not authorized")

	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

package domain

import "errors"

// Sentinel errors shared across usecases and handlers
var (
	// Authentication errors
	ErrUnauthenticated = errors.New("authentication required")

	// Expense errors
	ErrExpenseNotFound = errors.New("expense not found")

	// Upload errors
	ErrInvalidFileKey = errors.New("invalid file key")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// AuthExchangeError represents a failed authorization-code exchange:
// missing or mismatched state, an invalid or expired code, or a provider
// rejection during the callback leg. It is always surfaced as a failed
// HTTP response, never as a process fault.
type AuthExchangeError struct {
	Reason string
	Cause  error
}

func (e *AuthExchangeError) Error() string {
	if e.Cause != nil {
		return "auth exchange failed: " + e.Reason + ": " + e.Cause.Error()
	}
	return "auth exchange failed: " + e.Reason
}

func (e *AuthExchangeError) Unwrap() error {
	return e.Cause
}

// NewAuthExchangeError creates a new AuthExchangeError
func NewAuthExchangeError(reason string, cause error) *AuthExchangeError {
	return &AuthExchangeError{Reason: reason, Cause: cause}
}

// SigningError represents a failure to mint a capability URL at the
// object store (misconfigured bucket, bad credentials, upstream outage).
// Fatal for the current request only.
type SigningError struct {
	Op    string // "put" or "get"
	Key   string
	Cause error
}

func (e *SigningError) Error() string {
	return "presign " + e.Op + " failed for key " + e.Key + ": " + e.Cause.Error()
}

func (e *SigningError) Unwrap() error {
	return e.Cause
}

// NewSigningError creates a new SigningError
func NewSigningError(op, key string, cause error) *SigningError {
	return &SigningError{Op: op, Key: key, Cause: cause}
}

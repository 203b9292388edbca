package apperrors

import "errors"

// Sentinel errors for the four externally visible failure classes.
// Services wrap these with context; the HTTP layer maps each one to a
// fixed status code.
var (
	ErrAuthentication = errors.New("could not validate credentials")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

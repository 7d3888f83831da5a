package service

import (
	"errors"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "ValidationError"
	KindConflict      ErrorKind = "ConflictError"
	KindAuth          ErrorKind = "AuthError"
	KindNotFound      ErrorKind = "NotFoundError"
	KindAuthorization ErrorKind = "AuthorizationError"
	KindForbidden     ErrorKind = "ForbiddenError"
)

// Error is a failure the caller caused. Its message is safe to show.
// Anything else a service returns is internal and must not reach a client.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// AsError unwraps err to a *Error if it is one.
func AsError(err error) (*Error, bool) {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	serviceErr, ok := AsError(err)
	return ok && serviceErr.Kind == kind
}

const (
	msgPasswordMismatch   = "password and confirm password do not match"
	msgEmailInUse         = "Email already in use"
	msgInvalidCredentials = "Invalid credentials! Wrong email or password"
	msgInvalidToken       = "Invalid or expired token"
	msgNoUserWithEmail    = "No user with that email"
	msgCurrentPassword    = "Current password is incorrect"
	msgUserNotFound       = "User not found"
	msgNotAuthorized      = "Not authorized to access this route"
	msgNotAdmin           = "Not authorized as admin"
	msgAlreadyVerified    = "Email is already verified"

	msgMissingGameSettings = "Missing required game settings"
	msgInvalidSessionID    = "Invalid session ID"
	msgGameNotFound        = "Game session not found"
	msgGameFinished        = "Game session is already finished"
)

var (
	ErrNotAuthorized = newError(KindAuthorization, msgNotAuthorized)
	ErrNotAdmin      = newError(KindForbidden, msgNotAdmin)
)

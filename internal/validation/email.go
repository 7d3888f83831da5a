package validation

import (
	"errors"
	"regexp"
)

// emailPattern is the simple address shape accounts were created with.
var emailPattern = regexp.MustCompile(`^([\w\-.]+@([\w-]+\.)+[\w-]{2,4})?$`)

var (
	ErrEmailRequired = errors.New("email address is required")
	ErrEmailInvalid  = errors.New("invalid email address format")
)

// ValidateEmail checks presence and shape. Case is preserved as given.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	// RFC 5321 caps a full address at 254
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}

	return nil
}

package validation

import (
	"errors"
)

const (
	PasswordMinLength = 6
	// bcrypt ignores everything past 72 bytes
	PasswordMaxLength = 72
)

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 characters")
)

func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	if len(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}

	if len(password) > PasswordMaxLength {
		return ErrPasswordTooLong
	}

	return nil
}

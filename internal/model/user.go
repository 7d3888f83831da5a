package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID              string `db:"id"`
	Nickname        string `db:"nickname"`
	Email           string `db:"email"`
	PasswordDigest  string `db:"password_digest" json:"-"` // Empty unless read with the *WithPassword lookups
	Role            string `db:"role"`
	IsEmailVerified bool   `db:"is_email_verified"`

	// Outstanding single-use tokens. Each pair is set and cleared together.
	EmailVerificationTokenDigest *string    `db:"email_verification_token_digest"`
	EmailVerificationExpiresAt   *time.Time `db:"email_verification_expires_at"`
	ResetPasswordTokenDigest     *string    `db:"reset_password_token_digest"`
	ResetPasswordExpiresAt       *time.Time `db:"reset_password_expires_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasPendingVerification() bool {
	return u.EmailVerificationTokenDigest != nil && u.EmailVerificationExpiresAt != nil
}

// Profile returns the public projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:              u.ID,
		Nickname:        u.Nickname,
		Email:           u.Email,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
	}
}

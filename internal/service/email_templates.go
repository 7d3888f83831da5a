package service

import (
	"fmt"
	"time"
)

func verifyEmailTemplate(verifyURL, appName string, expiry time.Duration) (string, string) {
	subject := fmt.Sprintf("Verify your email for %s", appName)
	body := fmt.Sprintf(`Welcome to %s!

Please confirm your email address by opening this link:
%s

This link expires in %s and can only be used once.

If you didn't create an account, you can safely ignore this email.

Best,
The %s Team`, appName, verifyURL, humanDuration(expiry), appName)

	return subject, body
}

func passwordResetEmailTemplate(resetURL, appName string, expiry time.Duration) (string, string) {
	subject := fmt.Sprintf("Reset your password for %s", appName)
	body := fmt.Sprintf(`You requested to reset your password. Choose a new one here:
%s

This link expires in %s and can only be used once.

If you didn't request this, you can safely ignore this email. Your password won't be changed.

Best,
The %s Team`, resetURL, humanDuration(expiry), appName)

	return subject, body
}

func passwordChangedEmailTemplate(appName string) (string, string) {
	subject := fmt.Sprintf("Your %s password was changed", appName)
	body := fmt.Sprintf(`The password for your account was just changed.

If this was you, no action is needed.

If you didn't change it, reset your password right away using the forgot password option.

Best,
The %s Team`, appName)

	return subject, body
}

// humanDuration renders whole hours or minutes, e.g. "24 hours".
func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if d == time.Hour {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", d/time.Hour)
	case d >= time.Minute:
		return fmt.Sprintf("%d minutes", d/time.Minute)
	default:
		return d.String()
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// Mailer delivers raw secret tokens to their owners. AuthService never
// persists the raw token, so this is the only way it leaves the process.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
	SendPasswordResetEmail(ctx context.Context, to, token string) error
	SendPasswordChangedEmail(ctx context.Context, to string) error
}

type EmailService struct {
	client         *resend.Client
	fromEmail      string
	isDev          bool
	appURL         string
	appName        string
	verifyExpiry   time.Duration
	passwordExpiry time.Duration
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool, verifyExpiry, passwordExpiry time.Duration) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:         client,
		fromEmail:      fromEmail,
		isDev:          isDev,
		appURL:         appURL,
		appName:        appName,
		verifyExpiry:   verifyExpiry,
		passwordExpiry: passwordExpiry,
	}
}

func (s *EmailService) VerificationURL(token string) string {
	return fmt.Sprintf("%s/api/auth/verify-email/%s", s.appURL, token)
}

func (s *EmailService) PasswordResetURL(token string) string {
	return fmt.Sprintf("%s/api/auth/reset-password/%s", s.appURL, token)
}

func (s *EmailService) SendVerificationEmail(ctx context.Context, to, token string) error {
	verifyURL := s.VerificationURL(token)
	subject, body := verifyEmailTemplate(verifyURL, s.appName, s.verifyExpiry)
	return s.send(ctx, "email_verification", to, subject, body, verifyURL)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	resetURL := s.PasswordResetURL(token)
	subject, body := passwordResetEmailTemplate(resetURL, s.appName, s.passwordExpiry)
	return s.send(ctx, "password_reset", to, subject, body, resetURL)
}

func (s *EmailService) SendPasswordChangedEmail(ctx context.Context, to string) error {
	subject, body := passwordChangedEmailTemplate(s.appName)
	return s.send(ctx, "password_changed", to, subject, body, "")
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body, url string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject, "url", url)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	slog.Info("email sent", "type", kind, "to", to)
	return nil
}

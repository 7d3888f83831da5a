package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/hartetoti/backend/internal/auth"
	"github.com/hartetoti/backend/internal/model"
	"github.com/hartetoti/backend/internal/repository"
	"github.com/hartetoti/backend/internal/validation"
)

// AuthResult is returned by register and login.
type AuthResult struct {
	model.Profile
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"-"`

	// Raw verification token issued at registration. Only the mailer and
	// tests ever read it.
	VerificationToken string `json:"-"`
}

// IssuedToken is a raw secret token that was just handed to the mailer.
type IssuedToken struct {
	Raw       string
	ExpiresAt time.Time
}

type AuthService struct {
	userRepository repository.UserRepository
	mailer         Mailer
	hasher         auth.PasswordHasher
	sessions       *auth.SessionIssuer
	verifyCodec    *auth.SecretCodec
	resetCodec     *auth.SecretCodec

	// compared against when the email is unknown so login takes the same time
	dummyDigest string
}

func NewAuthService(
	userRepository repository.UserRepository,
	mailer Mailer,
	hasher auth.PasswordHasher,
	sessions *auth.SessionIssuer,
	verifyCodec *auth.SecretCodec,
	resetCodec *auth.SecretCodec,
) *AuthService {
	dummyDigest, err := hasher.Hash("not-a-real-password")
	if err != nil {
		slog.Warn("failed to prepare dummy password digest", "error", err)
	}

	return &AuthService{
		userRepository: userRepository,
		mailer:         mailer,
		hasher:         hasher,
		sessions:       sessions,
		verifyCodec:    verifyCodec,
		resetCodec:     resetCodec,
		dummyDigest:    dummyDigest,
	}
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func (s *AuthService) Register(ctx context.Context, email, password, confirmPassword string) (*AuthResult, error) {
	if password != confirmPassword {
		return nil, newError(KindValidation, msgPasswordMismatch)
	}

	email = strings.TrimSpace(email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, newError(KindValidation, err.Error())
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, newError(KindValidation, err.Error())
	}

	_, err = s.userRepository.ByEmail(ctx, email)
	if err == nil {
		return nil, newError(KindConflict, msgEmailInUse)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, internalError("AUTH_REGISTER_FAILED", "register", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, internalError("AUTH_REGISTER_FAILED", "hash_password", err)
	}

	verification, err := s.verifyCodec.Issue()
	if err != nil {
		return nil, internalError("AUTH_REGISTER_FAILED", "issue_verification_token", err)
	}

	user := &model.User{
		ID:                           uuid.New().String(),
		Email:                        email,
		PasswordDigest:               digest,
		Role:                         model.RoleUser,
		EmailVerificationTokenDigest: &verification.Digest,
		EmailVerificationExpiresAt:   &verification.ExpiresAt,
	}

	err = s.userRepository.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, newError(KindConflict, msgEmailInUse)
		}
		return nil, internalError("AUTH_REGISTER_FAILED", "create_user", err)
	}

	token, expiresAt, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, internalError("AUTH_REGISTER_FAILED", "issue_session", err)
	}

	err = s.mailer.SendVerificationEmail(ctx, user.Email, verification.Raw)
	if err != nil {
		// account exists, the user can ask for a new link
		slog.Warn("failed to send verification email", "error", err, "user_id", user.ID)
	}

	slog.Info("user registered", "user_id", user.ID)
	return &AuthResult{
		Profile:           user.Profile(),
		Token:             token,
		ExpiresAt:         expiresAt,
		VerificationToken: verification.Raw,
	}, nil
}

// Login fails with the same error whether the email is unknown or the
// password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)

	user, err := s.userRepository.ByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, newError(KindAuth, msgInvalidCredentials)
		}
		return nil, internalError("AUTH_LOGIN_FAILED", "login", err)
	}

	if !s.hasher.Verify(password, user.PasswordDigest) {
		return nil, newError(KindAuth, msgInvalidCredentials)
	}

	token, expiresAt, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, internalError("AUTH_LOGIN_FAILED", "issue_session", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &AuthResult{Profile: user.Profile(), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(KindNotFound, fmt.Sprintf("User '%s' not found", userID))
		}
		return nil, internalError("AUTH_PROFILE_FAILED", "profile", err)
	}

	profile := user.Profile()
	return &profile, nil
}

// UpdateNickname sets the display name. An empty nickname clears it.
func (s *AuthService) UpdateNickname(ctx context.Context, userID, nickname string) (*model.Profile, error) {
	nickname, err := validation.NormalizeNickname(nickname)
	if err != nil {
		return nil, newError(KindValidation, err.Error())
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(KindNotFound, fmt.Sprintf("User '%s' not found", userID))
		}
		return nil, internalError("AUTH_PROFILE_FAILED", "load_user", err)
	}

	user.Nickname = nickname
	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, internalError("AUTH_PROFILE_FAILED", "update_nickname", err)
	}

	profile := user.Profile()
	return &profile, nil
}

// VerifyEmail redeems a verification token. Unknown, expired and already
// used tokens all fail the same way.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*model.Profile, error) {
	if token == "" {
		return nil, newError(KindAuth, msgInvalidToken)
	}

	user, err := s.userRepository.ConsumeEmailVerification(ctx, auth.Digest(token), s.verifyCodec.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, newError(KindAuth, msgInvalidToken)
		}
		return nil, internalError("AUTH_VERIFY_EMAIL_FAILED", "verify_email", err)
	}

	slog.Info("email verified", "user_id", user.ID)
	profile := user.Profile()
	return &profile, nil
}

// ResendVerification replaces the user's verification token with a new one.
func (s *AuthService) ResendVerification(ctx context.Context, userID string) (*IssuedToken, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(KindNotFound, msgUserNotFound)
		}
		return nil, internalError("AUTH_RESEND_VERIFICATION_FAILED", "load_user", err)
	}

	if user.IsEmailVerified {
		return nil, newError(KindValidation, msgAlreadyVerified)
	}

	verification, err := s.verifyCodec.Issue()
	if err != nil {
		return nil, internalError("AUTH_RESEND_VERIFICATION_FAILED", "issue_verification_token", err)
	}

	err = s.userRepository.SetEmailVerificationToken(ctx, user.ID, verification.Digest, verification.ExpiresAt)
	if err != nil {
		return nil, internalError("AUTH_RESEND_VERIFICATION_FAILED", "store_verification_token", err)
	}

	err = s.mailer.SendVerificationEmail(ctx, user.Email, verification.Raw)
	if err != nil {
		slog.Warn("failed to send verification email", "error", err, "user_id", user.ID)
	}

	return &IssuedToken{Raw: verification.Raw, ExpiresAt: verification.ExpiresAt}, nil
}

// ForgotPassword issues a reset token, invalidating any earlier one.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*IssuedToken, error) {
	email = strings.TrimSpace(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(KindNotFound, msgNoUserWithEmail)
		}
		return nil, internalError("AUTH_FORGOT_PASSWORD_FAILED", "load_user", err)
	}

	reset, err := s.resetCodec.Issue()
	if err != nil {
		return nil, internalError("AUTH_FORGOT_PASSWORD_FAILED", "issue_reset_token", err)
	}

	err = s.userRepository.SetResetPasswordToken(ctx, user.ID, reset.Digest, reset.ExpiresAt)
	if err != nil {
		return nil, internalError("AUTH_FORGOT_PASSWORD_FAILED", "store_reset_token", err)
	}

	err = s.mailer.SendPasswordResetEmail(ctx, user.Email, reset.Raw)
	if err != nil {
		slog.Warn("failed to send password reset email", "error", err, "user_id", user.ID)
	}

	slog.Info("password reset requested", "user_id", user.ID)
	return &IssuedToken{Raw: reset.Raw, ExpiresAt: reset.ExpiresAt}, nil
}

// ValidateResetToken checks a reset token without consuming it.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	if token == "" {
		return newError(KindAuth, msgInvalidToken)
	}

	user, err := s.userRepository.ByResetDigest(ctx, auth.Digest(token), s.resetCodec.Now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return newError(KindAuth, msgInvalidToken)
		}
		return internalError("AUTH_RESET_PASSWORD_FAILED", "validate_reset_token", err)
	}

	var stored string
	if user.ResetPasswordTokenDigest != nil {
		stored = *user.ResetPasswordTokenDigest
	}

	result := s.resetCodec.Redeem(token, stored, user.ResetPasswordExpiresAt)
	if result != auth.RedeemValid {
		slog.Debug("reset token rejected", "reason", result.String())
		return newError(KindAuth, msgInvalidToken)
	}

	return nil
}

// ResetPassword redeems a reset token and sets the new password in the same write.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	err := validation.ValidatePassword(newPassword)
	if err != nil {
		return newError(KindValidation, err.Error())
	}

	if token == "" {
		return newError(KindAuth, msgInvalidToken)
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internalError("AUTH_RESET_PASSWORD_FAILED", "hash_password", err)
	}

	user, err := s.userRepository.ConsumePasswordReset(ctx, auth.Digest(token), digest, s.resetCodec.Now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return newError(KindAuth, msgInvalidToken)
		}
		return internalError("AUTH_RESET_PASSWORD_FAILED", "reset_password", err)
	}

	err = s.mailer.SendPasswordChangedEmail(ctx, user.Email)
	if err != nil {
		slog.Warn("failed to send password changed email", "error", err, "user_id", user.ID)
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.userRepository.ByIDWithPassword(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return newError(KindNotFound, msgUserNotFound)
		}
		return internalError("AUTH_CHANGE_PASSWORD_FAILED", "load_user", err)
	}

	if !s.hasher.Verify(currentPassword, user.PasswordDigest) {
		return newError(KindAuth, msgCurrentPassword)
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return newError(KindValidation, err.Error())
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internalError("AUTH_CHANGE_PASSWORD_FAILED", "hash_password", err)
	}

	err = s.userRepository.UpdatePassword(ctx, user.ID, digest)
	if err != nil {
		return internalError("AUTH_CHANGE_PASSWORD_FAILED", "update_password", err)
	}

	err = s.mailer.SendPasswordChangedEmail(ctx, user.Email)
	if err != nil {
		slog.Warn("failed to send password changed email", "error", err, "user_id", user.ID)
	}

	slog.Info("password changed", "user_id", user.ID)
	return nil
}

// Authenticate resolves a session token to a live user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.sessions.Verify(token)
	if err != nil {
		return nil, ErrNotAuthorized
	}

	user, err := s.userRepository.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(KindAuthorization, msgUserNotFound)
		}
		return nil, internalError("AUTH_AUTHENTICATE_FAILED", "load_user", err)
	}

	return user, nil
}

// SetRole changes an account's role. Only operators call this; no route
// exposes it.
func (s *AuthService) SetRole(ctx context.Context, email, role string) (*model.Profile, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, newError(KindValidation, fmt.Sprintf("Unknown role '%s'", role))
	}

	user, err := s.userRepository.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, newError(KindNotFound, msgNoUserWithEmail)
		}
		return nil, internalError("AUTH_SET_ROLE_FAILED", "load_user", err)
	}

	user.Role = role
	err = s.userRepository.Update(ctx, user)
	if err != nil {
		return nil, internalError("AUTH_SET_ROLE_FAILED", "update_role", err)
	}

	slog.Info("user role changed", "user_id", user.ID, "role", role)
	profile := user.Profile()
	return &profile, nil
}

// RequireAdmin fails with a ForbiddenError unless user is an admin.
func RequireAdmin(user *model.User) error {
	if user == nil || !user.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

func internalError(code, operation string, err error) error {
	return oops.
		In("service").
		Code(code).
		With("operation", operation).
		Wrap(err)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/hartetoti/backend/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrTokenNotFound covers unknown, expired and already consumed tokens alike.
	ErrTokenNotFound = errors.New("token not found or expired")
)

// userColumns excludes password_digest. Only the *WithPassword lookups read it.
const userColumns = `id, nickname, email, role, is_email_verified,
	email_verification_token_digest, email_verification_expires_at,
	reset_password_token_digest, reset_password_expires_at,
	created_at, updated_at`

const userColumnsWithPassword = userColumns + `, password_digest`

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByIDWithPassword(ctx context.Context, id string) (*model.User, error)
	ByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
	ByVerificationDigest(ctx context.Context, digest string, now time.Time) (*model.User, error)
	ByResetDigest(ctx context.Context, digest string, now time.Time) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	SetEmailVerificationToken(ctx context.Context, userID, digest string, expiresAt time.Time) error
	SetResetPasswordToken(ctx context.Context, userID, digest string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, userID, passwordDigest string) error
	ConsumeEmailVerification(ctx context.Context, digest string, now time.Time) (*model.User, error)
	ConsumePasswordReset(ctx context.Context, digest, passwordDigest string, now time.Time) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt
	if user.Role == "" {
		user.Role = model.RoleUser
	}

	query := `
		INSERT INTO users (
			id, nickname, email, password_digest, role, is_email_verified,
			email_verification_token_digest, email_verification_expires_at,
			reset_password_token_digest, reset_password_expires_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Nickname,
		user.Email,
		user.PasswordDigest,
		user.Role,
		user.IsEmailVerified,
		user.EmailVerificationTokenDigest,
		user.EmailVerificationExpiresAt,
		user.ResetPasswordTokenDigest,
		user.ResetPasswordExpiresAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) ByIDWithPassword(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumnsWithPassword+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumnsWithPassword+` FROM users WHERE email = $1`, email)
}

// ByVerificationDigest only matches a pair that has not expired at now.
func (r *userRepository) ByVerificationDigest(ctx context.Context, digest string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE email_verification_token_digest = $1
		AND email_verification_expires_at >= $2`
	return r.getOne(ctx, query, digest, now.UTC())
}

// ByResetDigest only matches a pair that has not expired at now.
func (r *userRepository) ByResetDigest(ctx context.Context, digest string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE reset_password_token_digest = $1
		AND reset_password_expires_at >= $2`
	return r.getOne(ctx, query, digest, now.UTC())
}

// Update saves the mutable profile and token state. Email and password are
// not touched here.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users SET
			nickname = $1,
			role = $2,
			is_email_verified = $3,
			email_verification_token_digest = $4,
			email_verification_expires_at = $5,
			reset_password_token_digest = $6,
			reset_password_expires_at = $7,
			updated_at = $8
		WHERE id = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Nickname,
		user.Role,
		user.IsEmailVerified,
		user.EmailVerificationTokenDigest,
		user.EmailVerificationExpiresAt,
		user.ResetPasswordTokenDigest,
		user.ResetPasswordExpiresAt,
		user.UpdatedAt,
		user.ID,
	)
	return affectedOne(result, err)
}

// SetEmailVerificationToken replaces any outstanding verification pair.
func (r *userRepository) SetEmailVerificationToken(ctx context.Context, userID, digest string, expiresAt time.Time) error {
	query := `
		UPDATE users SET
			email_verification_token_digest = $1,
			email_verification_expires_at = $2,
			updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, digest, expiresAt.UTC(), time.Now().UTC(), userID)
	return affectedOne(result, err)
}

// SetResetPasswordToken replaces any outstanding reset pair.
func (r *userRepository) SetResetPasswordToken(ctx context.Context, userID, digest string, expiresAt time.Time) error {
	query := `
		UPDATE users SET
			reset_password_token_digest = $1,
			reset_password_expires_at = $2,
			updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, digest, expiresAt.UTC(), time.Now().UTC(), userID)
	return affectedOne(result, err)
}

// UpdatePassword stores a new digest. A pending reset pair is dropped in the
// same write since it no longer guards the current password.
func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordDigest string) error {
	query := `
		UPDATE users SET
			password_digest = $1,
			reset_password_token_digest = NULL,
			reset_password_expires_at = NULL,
			updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, passwordDigest, time.Now().UTC(), userID)
	return affectedOne(result, err)
}

// ConsumeEmailVerification marks the owner of digest verified and clears the
// pair in one statement, so a token redeems at most once even under races.
func (r *userRepository) ConsumeEmailVerification(ctx context.Context, digest string, now time.Time) (*model.User, error) {
	query := `
		UPDATE users SET
			is_email_verified = TRUE,
			email_verification_token_digest = NULL,
			email_verification_expires_at = NULL,
			updated_at = $1
		WHERE email_verification_token_digest = $2
		AND email_verification_expires_at >= $3
		RETURNING id`

	return r.consume(ctx, query, now.UTC(), digest, now.UTC())
}

// ConsumePasswordReset swaps in passwordDigest and clears the reset pair in
// one statement.
func (r *userRepository) ConsumePasswordReset(ctx context.Context, digest, passwordDigest string, now time.Time) (*model.User, error) {
	query := `
		UPDATE users SET
			password_digest = $1,
			reset_password_token_digest = NULL,
			reset_password_expires_at = NULL,
			updated_at = $2
		WHERE reset_password_token_digest = $3
		AND reset_password_expires_at >= $4
		RETURNING id`

	return r.consume(ctx, query, passwordDigest, now.UTC(), digest, now.UTC())
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return affectedOne(result, err)
}

func (r *userRepository) getOne(ctx context.Context, query string, args ...any) (*model.User, error) {
	user := &model.User{}
	err := r.db.GetContext(ctx, user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// consume runs a conditional UPDATE ... RETURNING id and loads the row it
// changed. Zero rows means the token did not match.
func (r *userRepository) consume(ctx context.Context, query string, args ...any) (*model.User, error) {
	var id string
	err := r.db.GetContext(ctx, &id, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.ByID(ctx, id)
}

func affectedOne(result sql.Result, err error) error {
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// isUniqueViolation works for both SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

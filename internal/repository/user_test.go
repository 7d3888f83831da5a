package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartetoti/backend/internal/auth"
	"github.com/hartetoti/backend/internal/db/dbtest"
	"github.com/hartetoti/backend/internal/model"
	"github.com/hartetoti/backend/internal/repository"
)

func newMockUserRepository(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repository.NewUserRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func newUser(email string) *model.User {
	return &model.User{
		ID:             uuid.New().String(),
		Email:          email,
		PasswordDigest: "$2a$04$digest",
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))

	err := repo.Create(context.Background(), newUser("a@b.com"))
	require.ErrorIs(t, err, repository.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DefaultsRole(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	user := newUser("a@b.com")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(user.ID, "", "a@b.com", user.PasswordDigest, model.RoleUser, false,
			nil, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ByEmail_ExcludesPasswordDigest(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`(?s)SELECT id, nickname, email, role, is_email_verified,.*created_at, updated_at FROM users WHERE email = \$1`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("u1", "a@b.com"))

	user, err := repo.ByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Empty(t, user.PasswordDigest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ByEmailWithPassword(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(`updated_at, password_digest FROM users WHERE email = \$1`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_digest"}).AddRow("u1", "a@b.com", "$2a$10$x"))

	user, err := repo.ByEmailWithPassword(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$x", user.PasswordDigest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ByID_NotFound(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.ByID(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ByResetDigest_FiltersExpiry(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`AND reset_password_expires_at >= $2`)).
		WithArgs("digest", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ByResetDigest(context.Background(), "digest", now)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumeEmailVerification_SingleStatement(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)UPDATE users SET\s+is_email_verified = TRUE,\s+email_verification_token_digest = NULL,\s+email_verification_expires_at = NULL.*RETURNING id`).
		WithArgs(now, "digest", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_email_verified"}).AddRow("u1", true))

	user, err := repo.ConsumeEmailVerification(context.Background(), "digest", now)
	require.NoError(t, err)
	assert.True(t, user.IsEmailVerified)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ConsumePasswordReset_NoMatch(t *testing.T) {
	repo, mock := newMockUserRepository(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)UPDATE users SET\s+password_digest = \$1.*RETURNING id`).
		WithArgs("new-digest", now, "digest", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.ConsumePasswordReset(context.Background(), "digest", "new-digest", now)
	require.ErrorIs(t, err, repository.ErrTokenNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword_UnknownUser(t *testing.T) {
	repo, mock := newMockUserRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`reset_password_token_digest = NULL`)).
		WithArgs("digest", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "missing", "digest")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The remaining tests run against a migrated SQLite database.

func TestUserRepository_SQLite_EmailUniqueness(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("a@b.com")))
	require.ErrorIs(t, repo.Create(ctx, newUser("a@b.com")), repository.ErrDuplicateEmail)

	// stored case-sensitively
	require.NoError(t, repo.Create(ctx, newUser("A@b.com")))
}

func TestUserRepository_SQLite_VerificationConsumedOnce(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.New(t))
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUser("a@b.com")
	require.NoError(t, repo.Create(ctx, user))

	tok, err := auth.NewSecretCodec(24*time.Hour, nil).Issue()
	require.NoError(t, err)
	require.NoError(t, repo.SetEmailVerificationToken(ctx, user.ID, tok.Digest, tok.ExpiresAt))

	found, err := repo.ByVerificationDigest(ctx, tok.Digest, now)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.HasPendingVerification())

	verified, err := repo.ConsumeEmailVerification(ctx, tok.Digest, now)
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)
	assert.Nil(t, verified.EmailVerificationTokenDigest)
	assert.Nil(t, verified.EmailVerificationExpiresAt)

	_, err = repo.ConsumeEmailVerification(ctx, tok.Digest, now)
	require.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestUserRepository_SQLite_ExpiredPairNeverMatches(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.New(t))
	ctx := context.Background()

	user := newUser("a@b.com")
	require.NoError(t, repo.Create(ctx, user))

	expiresAt := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.SetResetPasswordToken(ctx, user.ID, "reset-digest", expiresAt))

	_, err := repo.ByResetDigest(ctx, "reset-digest", expiresAt.Add(time.Second))
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.ConsumePasswordReset(ctx, "reset-digest", "new", expiresAt.Add(time.Second))
	require.ErrorIs(t, err, repository.ErrTokenNotFound)

	found, err := repo.ByResetDigest(ctx, "reset-digest", expiresAt)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserRepository_SQLite_NewPairReplacesOld(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.New(t))
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUser("a@b.com")
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.SetResetPasswordToken(ctx, user.ID, "first", now.Add(time.Hour)))
	require.NoError(t, repo.SetResetPasswordToken(ctx, user.ID, "second", now.Add(time.Hour)))

	_, err := repo.ByResetDigest(ctx, "first", now)
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	_, err = repo.ConsumePasswordReset(ctx, "second", "new-digest", now)
	require.NoError(t, err)

	withPassword, err := repo.ByIDWithPassword(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-digest", withPassword.PasswordDigest)
	assert.Nil(t, withPassword.ResetPasswordTokenDigest)
}

func TestUserRepository_SQLite_UpdatePasswordClearsResetPair(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.New(t))
	ctx := context.Background()
	now := time.Now().UTC()

	user := newUser("a@b.com")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.SetResetPasswordToken(ctx, user.ID, "pending", now.Add(time.Hour)))

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "changed"))

	_, err := repo.ByResetDigest(ctx, "pending", now)
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	withPassword, err := repo.ByEmailWithPassword(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "changed", withPassword.PasswordDigest)
}

func TestUserRepository_SQLite_UpdateAndDelete(t *testing.T) {
	repo := repository.NewUserRepository(dbtest.New(t))
	ctx := context.Background()

	user := newUser("a@b.com")
	require.NoError(t, repo.Create(ctx, user))

	user.Nickname = "quizzer"
	user.Role = model.RoleAdmin
	require.NoError(t, repo.Update(ctx, user))

	found, err := repo.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "quizzer", found.Nickname)
	assert.True(t, found.IsAdmin())
	assert.Empty(t, found.PasswordDigest)

	require.NoError(t, repo.Delete(ctx, user.ID))
	require.ErrorIs(t, repo.Delete(ctx, user.ID), repository.ErrUserNotFound)
}

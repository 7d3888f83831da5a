package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartetoti/backend/internal/db/dbtest"
	"github.com/hartetoti/backend/internal/model"
	"github.com/hartetoti/backend/internal/repository"
)

func newGameSession(userID string) *model.GameSession {
	now := time.Now().UTC()
	return &model.GameSession{
		ID:                 uuid.New().String(),
		UserID:             userID,
		GameMode:           model.GameModeClassic,
		SecondsPerQuestion: 10,
		QuestionCount:      5,
		Status:             model.GameStatusCreated,
		LastAccessedAt:     &now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestGameSessionRepository_Update_NotOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewGameSessionRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $9 AND user_id = $10`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), newGameSession("someone-else"))
	require.ErrorIs(t, err, repository.ErrGameSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameSessionRepository_SQLite_Lifecycle(t *testing.T) {
	database := dbtest.New(t)
	users := repository.NewUserRepository(database)
	sessions := repository.NewGameSessionRepository(database)
	ctx := context.Background()

	owner := newUser("owner@b.com")
	require.NoError(t, users.Create(ctx, owner))
	other := newUser("other@b.com")
	require.NoError(t, users.Create(ctx, other))

	session := newGameSession(owner.ID)
	require.NoError(t, sessions.Create(ctx, session))

	t.Run("owner reads it", func(t *testing.T) {
		found, err := sessions.ByID(ctx, owner.ID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, model.GameStatusCreated, found.Status)
		assert.Nil(t, found.StartedAt)
	})

	t.Run("other user does not", func(t *testing.T) {
		_, err := sessions.ByID(ctx, other.ID, session.ID)
		require.ErrorIs(t, err, repository.ErrGameSessionNotFound)
	})

	t.Run("update persists state", func(t *testing.T) {
		started := time.Now().UTC()
		session.Status = model.GameStatusActive
		session.StartedAt = &started
		require.NoError(t, sessions.Update(ctx, session))

		found, err := sessions.ByID(ctx, owner.ID, session.ID)
		require.NoError(t, err)
		assert.Equal(t, model.GameStatusActive, found.Status)
		require.NotNil(t, found.StartedAt)
		assert.WithinDuration(t, started, *found.StartedAt, time.Millisecond)
	})

	t.Run("list by user", func(t *testing.T) {
		list, err := sessions.ByUser(ctx, owner.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		list, err = sessions.ByUser(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hartetoti/backend/internal/model"
)

var (
	ErrGameSessionNotFound = errors.New("game session not found")
)

type GameSessionRepository interface {
	Create(ctx context.Context, session *model.GameSession) error
	ByID(ctx context.Context, userID, sessionID string) (*model.GameSession, error)
	ByUser(ctx context.Context, userID string) ([]*model.GameSession, error)
	Update(ctx context.Context, session *model.GameSession) error
}

type gameSessionRepository struct {
	db *sqlx.DB
}

func NewGameSessionRepository(db *sqlx.DB) GameSessionRepository {
	return &gameSessionRepository{db: db}
}

func (r *gameSessionRepository) Create(ctx context.Context, session *model.GameSession) error {
	query := `INSERT INTO game_sessions (
	              id, user_id, game_mode, seconds_per_question, question_count, status,
	              score, questions_answered, correct_answers, last_accessed_at, created_at, updated_at
	          )
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.GameMode,
		session.SecondsPerQuestion,
		session.QuestionCount,
		session.Status,
		session.Score,
		session.QuestionsAnswered,
		session.CorrectAnswers,
		session.LastAccessedAt,
		session.CreatedAt,
		session.UpdatedAt,
	)

	return err
}

// ByID only finds sessions owned by userID.
func (r *gameSessionRepository) ByID(ctx context.Context, userID, sessionID string) (*model.GameSession, error) {
	session := &model.GameSession{}
	query := `SELECT * FROM game_sessions WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, session, query, sessionID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// ByUser lists a user's sessions, newest first.
func (r *gameSessionRepository) ByUser(ctx context.Context, userID string) ([]*model.GameSession, error) {
	sessions := []*model.GameSession{}
	query := `SELECT * FROM game_sessions WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &sessions, query, userID)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *gameSessionRepository) Update(ctx context.Context, session *model.GameSession) error {
	session.UpdatedAt = time.Now().UTC()

	query := `UPDATE game_sessions
	          SET status = $1, score = $2, questions_answered = $3, correct_answers = $4,
	              started_at = $5, completed_at = $6, last_accessed_at = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		session.Status,
		session.Score,
		session.QuestionsAnswered,
		session.CorrectAnswers,
		session.StartedAt,
		session.CompletedAt,
		session.LastAccessedAt,
		session.UpdatedAt,
		session.ID,
		session.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGameSessionNotFound
	}

	return nil
}

package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hartetoti/backend/internal/model"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *model.Question) error
	List(ctx context.Context) ([]*model.Question, error)
	Sample(ctx context.Context, n int) ([]*model.Question, error)
}

type questionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	query := `INSERT INTO questions (id, question, level) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, question.ID, question.Question, question.Level)
	return err
}

func (r *questionRepository) List(ctx context.Context) ([]*model.Question, error) {
	questions := []*model.Question{}
	err := r.db.SelectContext(ctx, &questions, `SELECT id, question, level FROM questions ORDER BY level, question`)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Sample returns up to n questions in random order. Fewer come back when the
// bank is smaller than n.
func (r *questionRepository) Sample(ctx context.Context, n int) ([]*model.Question, error) {
	questions := []*model.Question{}
	if n <= 0 {
		return questions, nil
	}

	err := r.db.SelectContext(ctx, &questions, `SELECT id, question, level FROM questions ORDER BY RANDOM() LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hartetoti/backend/internal/model"
	"github.com/hartetoti/backend/internal/repository"
	"github.com/hartetoti/backend/internal/validation"
)

type QuestionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) *QuestionService {
	return &QuestionService{repo: repo}
}

func (s *QuestionService) Create(ctx context.Context, question, level string) (*model.Question, error) {
	question = strings.TrimSpace(question)
	level = strings.ToLower(strings.TrimSpace(level))

	err := validation.ValidateQuestion(question, level)
	if err != nil {
		return nil, newError(KindValidation, err.Error())
	}

	q := &model.Question{
		ID:       uuid.New().String(),
		Question: question,
		Level:    level,
	}

	err = s.repo.Create(ctx, q)
	if err != nil {
		return nil, internalError("QUESTION_CREATE_FAILED", "create", err)
	}

	return q, nil
}

func (s *QuestionService) List(ctx context.Context) ([]*model.Question, error) {
	questions, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError("QUESTION_LIST_FAILED", "list", err)
	}
	return questions, nil
}

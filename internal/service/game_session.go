package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hartetoti/backend/internal/auth"
	"github.com/hartetoti/backend/internal/model"
	"github.com/hartetoti/backend/internal/repository"
	"github.com/hartetoti/backend/internal/validation"
)

// GameSessionView is a session as served to its player.
type GameSessionView struct {
	*model.GameSession
	Questions            []*model.Question `json:"questions,omitempty"`
	DurationSeconds      int               `json:"durationSeconds"`
	CompletionPercentage int               `json:"completionPercentage"`
}

// GameResult is what a player reports when finishing a session. Zero values
// keep what was recorded before.
type GameResult struct {
	Score             int
	QuestionsAnswered int
	CorrectAnswers    int
}

type GameSessionService struct {
	repo         repository.GameSessionRepository
	questionRepo repository.QuestionRepository
	clock        auth.Clock
}

func NewGameSessionService(
	repo repository.GameSessionRepository,
	questionRepo repository.QuestionRepository,
	clock auth.Clock,
) *GameSessionService {
	return &GameSessionService{
		repo:         repo,
		questionRepo: questionRepo,
		clock:        clock,
	}
}

func (s *GameSessionService) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *GameSessionService) Create(ctx context.Context, userID, gameMode string, secondsPerQuestion, questionCount int) (*model.GameSession, error) {
	err := validation.ValidateGameSettings(gameMode, secondsPerQuestion, questionCount)
	if err != nil {
		if errors.Is(err, validation.ErrGameSettingsMissing) {
			return nil, newError(KindValidation, msgMissingGameSettings)
		}
		return nil, newError(KindValidation, err.Error())
	}

	if gameMode == model.GameModeSpeedRun {
		questionCount = model.SpeedRunQuestionCount
	}

	now := s.now()
	session := &model.GameSession{
		ID:                 uuid.New().String(),
		UserID:             userID,
		GameMode:           gameMode,
		SecondsPerQuestion: secondsPerQuestion,
		QuestionCount:      questionCount,
		Status:             model.GameStatusCreated,
		LastAccessedAt:     &now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = s.repo.Create(ctx, session)
	if err != nil {
		return nil, internalError("GAME_SESSION_CREATE_FAILED", "create", err)
	}

	slog.Info("game session created", "session_id", session.ID, "user_id", userID, "mode", gameMode)
	return session, nil
}

// Get loads a session with a fresh random set of questions. The first read
// starts the game, later reads only touch lastAccessedAt.
func (s *GameSessionService) Get(ctx context.Context, userID, sessionID string) (*GameSessionView, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.Sample(ctx, session.RequiredQuestions())
	if err != nil {
		return nil, internalError("GAME_SESSION_GET_FAILED", "sample_questions", err)
	}

	now := s.now()
	if session.Status == model.GameStatusCreated {
		startSession(session, now)
	} else {
		session.LastAccessedAt = &now
	}

	err = s.repo.Update(ctx, session)
	if err != nil {
		return nil, internalError("GAME_SESSION_GET_FAILED", "update", err)
	}

	view := s.view(session, now)
	view.Questions = questions
	return view, nil
}

func (s *GameSessionService) List(ctx context.Context, userID string) ([]*GameSessionView, error) {
	sessions, err := s.repo.ByUser(ctx, userID)
	if err != nil {
		return nil, internalError("GAME_SESSION_LIST_FAILED", "list", err)
	}

	now := s.now()
	views := make([]*GameSessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, s.view(session, now))
	}
	return views, nil
}

func (s *GameSessionService) Complete(ctx context.Context, userID, sessionID string, result GameResult) (*GameSessionView, error) {
	if result.Score < 0 || result.QuestionsAnswered < 0 || result.CorrectAnswers < 0 {
		return nil, newError(KindValidation, "Game results cannot be negative")
	}

	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsFinished() {
		return nil, newError(KindValidation, msgGameFinished)
	}

	now := s.now()
	completeSession(session, result, now)

	err = s.repo.Update(ctx, session)
	if err != nil {
		return nil, internalError("GAME_SESSION_COMPLETE_FAILED", "update", err)
	}

	slog.Info("game session completed", "session_id", session.ID, "user_id", userID, "score", session.Score)
	return s.view(session, now), nil
}

func (s *GameSessionService) Abandon(ctx context.Context, userID, sessionID string) (*GameSessionView, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsFinished() {
		return nil, newError(KindValidation, msgGameFinished)
	}

	now := s.now()
	session.Status = model.GameStatusAbandoned
	session.LastAccessedAt = &now

	err = s.repo.Update(ctx, session)
	if err != nil {
		return nil, internalError("GAME_SESSION_ABANDON_FAILED", "update", err)
	}

	return s.view(session, now), nil
}

func (s *GameSessionService) load(ctx context.Context, userID, sessionID string) (*model.GameSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, newError(KindValidation, msgInvalidSessionID)
	}

	session, err := s.repo.ByID(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrGameSessionNotFound) {
			return nil, newError(KindNotFound, msgGameNotFound)
		}
		return nil, internalError("GAME_SESSION_LOAD_FAILED", "load", err)
	}

	return session, nil
}

func (s *GameSessionService) view(session *model.GameSession, now time.Time) *GameSessionView {
	return &GameSessionView{
		GameSession:          session,
		DurationSeconds:      session.DurationSeconds(now),
		CompletionPercentage: session.CompletionPercentage(),
	}
}

func startSession(session *model.GameSession, now time.Time) {
	session.Status = model.GameStatusActive
	session.StartedAt = &now
	session.LastAccessedAt = &now
}

func completeSession(session *model.GameSession, result GameResult, now time.Time) {
	session.Status = model.GameStatusCompleted
	session.CompletedAt = &now
	session.LastAccessedAt = &now
	if result.Score != 0 {
		session.Score = result.Score
	}
	if result.QuestionsAnswered != 0 {
		session.QuestionsAnswered = result.QuestionsAnswered
	}
	if result.CorrectAnswers != 0 {
		session.CorrectAnswers = result.CorrectAnswers
	}
}

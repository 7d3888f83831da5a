package model

import (
	"time"
)

const (
	GameModeClassic  = "classic"
	GameModeSpeedRun = "speed run"

	// SpeedRunQuestionCount is fixed for speed run sessions.
	SpeedRunQuestionCount = 200
)

const (
	GameStatusCreated   = "created"
	GameStatusActive    = "active"
	GameStatusCompleted = "completed"
	GameStatusAbandoned = "abandoned"
)

type GameSession struct {
	ID                 string     `db:"id" json:"_id"`
	UserID             string     `db:"user_id" json:"userId"`
	GameMode           string     `db:"game_mode" json:"gameMode"`
	SecondsPerQuestion int        `db:"seconds_per_question" json:"secondsPerQuestion"`
	QuestionCount      int        `db:"question_count" json:"questionCount"`
	Status             string     `db:"status" json:"status"`
	Score              int        `db:"score" json:"score"`
	QuestionsAnswered  int        `db:"questions_answered" json:"questionsAnswered"`
	CorrectAnswers     int        `db:"correct_answers" json:"correctAnswers"`
	StartedAt          *time.Time `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt        *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	LastAccessedAt     *time.Time `db:"last_accessed_at" json:"lastAccessedAt,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

func (g *GameSession) IsFinished() bool {
	return g.Status == GameStatusCompleted || g.Status == GameStatusAbandoned
}

// RequiredQuestions is how many questions a session is played with.
func (g *GameSession) RequiredQuestions() int {
	if g.GameMode == GameModeClassic {
		return g.QuestionCount
	}
	return SpeedRunQuestionCount
}

// DurationSeconds is 0 until the session starts, then runs until completion
// (or now, while still in play).
func (g *GameSession) DurationSeconds(now time.Time) int {
	if g.StartedAt == nil {
		return 0
	}
	end := now
	if g.CompletedAt != nil {
		end = *g.CompletedAt
	}
	return int(end.Sub(*g.StartedAt) / time.Second)
}

// CompletionPercentage only applies to classic sessions.
func (g *GameSession) CompletionPercentage() int {
	if g.GameMode != GameModeClassic || g.QuestionCount <= 0 {
		return 0
	}
	return g.QuestionsAnswered * 100 / g.QuestionCount
}

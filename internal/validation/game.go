package validation

import (
	"errors"

	"github.com/hartetoti/backend/internal/model"
)

var (
	ErrGameSettingsMissing = errors.New("missing required game settings")
	ErrGameModeInvalid     = errors.New("game mode must be classic or speed run")
	ErrQuestionRequired    = errors.New("question is required")
	ErrQuestionLevel       = errors.New("level must be easy, medium or hard")
)

// ValidateGameSettings checks the settings a session is created with.
// questionCount only matters for classic sessions.
func ValidateGameSettings(gameMode string, secondsPerQuestion, questionCount int) error {
	if gameMode == "" || secondsPerQuestion <= 0 {
		return ErrGameSettingsMissing
	}

	switch gameMode {
	case model.GameModeClassic:
		if questionCount <= 0 {
			return ErrGameSettingsMissing
		}
	case model.GameModeSpeedRun:
	default:
		return ErrGameModeInvalid
	}

	return nil
}

func ValidateQuestion(question, level string) error {
	if question == "" {
		return ErrQuestionRequired
	}

	switch level {
	case model.QuestionLevelEasy, model.QuestionLevelMedium, model.QuestionLevelHard:
		return nil
	}
	return ErrQuestionLevel
}

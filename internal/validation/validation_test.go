package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartetoti/backend/internal/model"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  error
	}{
		{"a@b.com", nil},
		{"first.last-name@mail.example.org", nil},
		{"Mixed.Case@Example.COM", nil},
		{"", ErrEmailRequired},
		{"no-at-sign.com", ErrEmailInvalid},
		{"a@b", ErrEmailInvalid},
		{"a@b.toolongtld", ErrEmailInvalid},
		{"spaces in@b.com", ErrEmailInvalid},
		{strings.Repeat("a", 250) + "@b.com", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("abcdef"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", PasswordMaxLength)))
	assert.Equal(t, ErrPasswordRequired, ValidatePassword(""))
	assert.Equal(t, ErrPasswordTooShort, ValidatePassword("abcde"))
	assert.Equal(t, ErrPasswordTooLong, ValidatePassword(strings.Repeat("x", PasswordMaxLength+1)))
}

func TestNormalizeNickname(t *testing.T) {
	nick, err := NormalizeNickname("  player one  ")
	require.NoError(t, err)
	assert.Equal(t, "player one", nick)

	nick, err = NormalizeNickname("")
	require.NoError(t, err)
	assert.Empty(t, nick)

	_, err = NormalizeNickname(strings.Repeat("n", NicknameMaxLength+1))
	assert.Equal(t, ErrNicknameTooLong, err)
}

func TestValidateGameSettings(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		seconds int
		count   int
		want    error
	}{
		{"classic", model.GameModeClassic, 10, 15, nil},
		{"speed run without count", model.GameModeSpeedRun, 5, 0, nil},
		{"missing mode", "", 10, 15, ErrGameSettingsMissing},
		{"missing seconds", model.GameModeClassic, 0, 15, ErrGameSettingsMissing},
		{"classic without count", model.GameModeClassic, 10, 0, ErrGameSettingsMissing},
		{"unknown mode", "marathon", 10, 15, ErrGameModeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateGameSettings(tt.mode, tt.seconds, tt.count))
		})
	}
}

func TestValidateQuestion(t *testing.T) {
	assert.NoError(t, ValidateQuestion("What is 2+2?", model.QuestionLevelEasy))
	assert.Equal(t, ErrQuestionRequired, ValidateQuestion("", model.QuestionLevelHard))
	assert.Equal(t, ErrQuestionLevel, ValidateQuestion("Why?", "impossible"))
}

func TestRequestValidator(t *testing.T) {
	type loginRequest struct {
		Email    string `validate:"required,account_email"`
		Password string `validate:"required"`
	}

	v := New()
	assert.NoError(t, v.Struct(loginRequest{Email: "a@b.com", Password: "x"}))
	assert.Error(t, v.Struct(loginRequest{Email: "not-an-email", Password: "x"}))
	assert.Error(t, v.Struct(loginRequest{Email: "a@b.com"}))
}

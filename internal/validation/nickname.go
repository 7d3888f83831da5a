package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const NicknameMaxLength = 20

var ErrNicknameTooLong = errors.New("nickname is too long (max 20 characters)")

// NormalizeNickname trims the nickname and checks its length. Empty is allowed.
func NormalizeNickname(nickname string) (string, error) {
	trimmed := strings.TrimSpace(nickname)

	if utf8.RuneCountInString(trimmed) > NicknameMaxLength {
		return "", ErrNicknameTooLong
	}

	return trimmed, nil
}

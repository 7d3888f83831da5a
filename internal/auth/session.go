package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultSessionTTL is how long a session token stays valid (7 days).
const DefaultSessionTTL = 168 * time.Hour

// ErrInvalidSessionToken is the only failure Verify reports. Bad signatures,
// malformed payloads and expired tokens are not told apart.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionIssuer signs and verifies HS256 session tokens carrying the user id
// as the subject.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
}

func NewSessionIssuer(secret string, ttl time.Duration, clock Clock) *SessionIssuer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionIssuer{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue returns a signed token for subject and its absolute expiry.
func (s *SessionIssuer) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, oops.Code("SESSION_EMPTY_SUBJECT").Errorf("session subject cannot be empty")
	}

	now := s.clock.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, oops.Code("SESSION_SIGN_FAILED").Wrap(err)
	}
	return token, expiresAt, nil
}

// Verify returns the subject of a valid token or ErrInvalidSessionToken.
func (s *SessionIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidSessionToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidSessionToken
	}
	return claims.Subject, nil
}

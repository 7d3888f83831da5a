package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// SecretTokenBytes is the entropy of a raw secret token (40 hex chars).
const SecretTokenBytes = 20

// Clock returns the current time. Nil means time.Now in UTC.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// SecretToken is a freshly issued token. Raw goes to the user, only Digest
// and ExpiresAt are persisted.
type SecretToken struct {
	Raw       string
	Digest    string
	ExpiresAt time.Time
}

type RedeemResult int

const (
	RedeemNotFound RedeemResult = iota
	RedeemExpired
	RedeemValid
)

func (r RedeemResult) String() string {
	switch r {
	case RedeemValid:
		return "valid"
	case RedeemExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// SecretCodec issues and checks single-use secret tokens for one purpose
// (email verification, password reset) with its own validity window.
type SecretCodec struct {
	validity time.Duration
	clock    Clock
}

func NewSecretCodec(validity time.Duration, clock Clock) *SecretCodec {
	return &SecretCodec{validity: validity, clock: clock}
}

func (c *SecretCodec) Validity() time.Duration {
	return c.validity
}

func (c *SecretCodec) Now() time.Time {
	return c.clock.now()
}

func (c *SecretCodec) Issue() (*SecretToken, error) {
	buf := make([]byte, SecretTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, oops.Code("SECRET_TOKEN_GENERATE_FAILED").Wrap(err)
	}

	raw := hex.EncodeToString(buf)
	return &SecretToken{
		Raw:       raw,
		Digest:    Digest(raw),
		ExpiresAt: c.Now().Add(c.validity),
	}, nil
}

// Redeem checks candidate against a stored pair. The token stays valid while
// now <= expiresAt.
func (c *SecretCodec) Redeem(candidate, storedDigest string, expiresAt *time.Time) RedeemResult {
	if candidate == "" || storedDigest == "" {
		return RedeemNotFound
	}
	if subtle.ConstantTimeCompare([]byte(Digest(candidate)), []byte(storedDigest)) != 1 {
		return RedeemNotFound
	}
	if expiresAt == nil || c.Now().After(*expiresAt) {
		return RedeemExpired
	}
	return RedeemValid
}

// Digest is the unsalted SHA-256 of a raw token, hex encoded.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

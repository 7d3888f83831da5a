package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartetoti/backend/internal/auth"
)

func fixedClock(t time.Time) auth.Clock {
	return func() time.Time { return t }
}

func TestSecretCodecIssue(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := auth.NewSecretCodec(24*time.Hour, fixedClock(now))

	t.Run("raw token is 40 hex chars", func(t *testing.T) {
		tok, err := codec.Issue()
		require.NoError(t, err)
		assert.Len(t, tok.Raw, 2*auth.SecretTokenBytes)
		assert.Regexp(t, "^[0-9a-f]+$", tok.Raw)
	})

	t.Run("digest is sha256 of raw", func(t *testing.T) {
		tok, err := codec.Issue()
		require.NoError(t, err)
		assert.Len(t, tok.Digest, 64)
		assert.Equal(t, auth.Digest(tok.Raw), tok.Digest)
		assert.NotEqual(t, tok.Raw, tok.Digest)
	})

	t.Run("expiry is now plus window", func(t *testing.T) {
		tok, err := codec.Issue()
		require.NoError(t, err)
		assert.Equal(t, now.Add(24*time.Hour), tok.ExpiresAt)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		a, err := codec.Issue()
		require.NoError(t, err)
		b, err := codec.Issue()
		require.NoError(t, err)
		assert.NotEqual(t, a.Raw, b.Raw)
		assert.NotEqual(t, a.Digest, b.Digest)
	})
}

func TestSecretCodecRedeem(t *testing.T) {
	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := auth.NewSecretCodec(time.Hour, fixedClock(issuedAt)).Issue()
	require.NoError(t, err)

	tests := []struct {
		name      string
		at        time.Time
		candidate string
		digest    string
		expiresAt *time.Time
		want      auth.RedeemResult
	}{
		{"valid within window", issuedAt.Add(30 * time.Minute), tok.Raw, tok.Digest, &tok.ExpiresAt, auth.RedeemValid},
		{"valid exactly at expiry", tok.ExpiresAt, tok.Raw, tok.Digest, &tok.ExpiresAt, auth.RedeemValid},
		{"expired after window", tok.ExpiresAt.Add(time.Second), tok.Raw, tok.Digest, &tok.ExpiresAt, auth.RedeemExpired},
		{"wrong candidate", issuedAt, "deadbeef", tok.Digest, &tok.ExpiresAt, auth.RedeemNotFound},
		{"empty candidate", issuedAt, "", tok.Digest, &tok.ExpiresAt, auth.RedeemNotFound},
		{"no stored digest", issuedAt, tok.Raw, "", &tok.ExpiresAt, auth.RedeemNotFound},
		{"missing expiry", issuedAt, tok.Raw, tok.Digest, nil, auth.RedeemExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := auth.NewSecretCodec(time.Hour, fixedClock(tt.at))
			assert.Equal(t, tt.want, codec.Redeem(tt.candidate, tt.digest, tt.expiresAt))
		})
	}
}

func TestRedeemResultString(t *testing.T) {
	assert.Equal(t, "valid", auth.RedeemValid.String())
	assert.Equal(t, "expired", auth.RedeemExpired.String())
	assert.Equal(t, "not_found", auth.RedeemNotFound.String())
}

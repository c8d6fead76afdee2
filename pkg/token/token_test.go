package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	id := uuid.New()

	raw, err := issuer.Issue(id)
	require.NoError(t, err)

	got, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerify_Rejects(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewIssuer("secret", time.Hour).WithClock(func() time.Time { return now })
	raw, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := NewIssuer("secret", time.Hour).WithClock(func() time.Time { return now.Add(2 * time.Hour) })
		_, err := later.Verify(raw)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewIssuer("other", time.Hour).WithClock(func() time.Time { return now })
		_, err := other.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject is not a uuid", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: uuid.NewString()}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = issuer.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

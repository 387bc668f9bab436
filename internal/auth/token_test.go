package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aebalz/wellmind-tracker/internal/model"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "wellmind")
	user := &model.User{ID: 12, Email: "ana@example.com", Role: model.RoleAdmin}

	token, expiresAt, err := m.Generate(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	for _, raw := range []string{token, "Bearer " + token, "bearer   " + token} {
		claims, err := m.Validate(raw)
		require.NoError(t, err)
		assert.Equal(t, uint(12), claims.UserID)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.True(t, claims.IsAdmin())
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour, "wellmind")
	user := &model.User{ID: 1, Email: "ana@example.com", Role: model.RoleUser}

	t.Run("empty", func(t *testing.T) {
		_, err := m.Validate("Bearer ")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := NewTokenManager("other", time.Hour, "wellmind").Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenManager("secret", time.Minute, "wellmind")
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := past.Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: 1}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

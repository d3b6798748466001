package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPermission(t *testing.T) {
	tests := []struct {
		name  string
		actor *Actor
		role  string
		want  bool
	}{
		{"admin for admin", &Actor{ID: "u1", Role: RoleAdmin}, RoleAdmin, true},
		{"editor for admin", &Actor{ID: "u2", Role: RoleEditor}, RoleAdmin, false},
		{"editor for editor", &Actor{ID: "u2", Role: RoleEditor}, RoleEditor, true},
		{"admin for editor", &Actor{ID: "u1", Role: RoleAdmin}, RoleEditor, false},
		{"anonymous", nil, RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPermission(tt.actor, tt.role))
		})
	}
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens, err := NewTokens("s3cret", time.Hour)
	require.NoError(t, err)

	raw, err := tokens.Issue(Actor{ID: "user-1", Role: RoleAdmin})
	require.NoError(t, err)

	actor, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, &Actor{ID: "user-1", Role: RoleAdmin}, actor)
}

func TestTokens_Parse_Rejects(t *testing.T) {
	tokens, err := NewTokens("s3cret", time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokens("different", time.Hour)
		require.NoError(t, err)
		raw, err := other.Issue(Actor{ID: "user-1"})
		require.NoError(t, err)

		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past, err := NewTokens("s3cret", time.Minute)
		require.NoError(t, err)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		raw, err := past.Issue(Actor{ID: "user-1"})
		require.NoError(t, err)

		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty actor id", func(t *testing.T) {
		_, err := tokens.Issue(Actor{})
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

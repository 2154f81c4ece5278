package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret", "user-1", "org-1", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "org-1", claims.OrganizationID)
	require.Equal(t, "admin", claims.Role)
}

func TestParseJWT(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateJWT("secret", "user-1", "org-1", "member", time.Hour)
		require.NoError(t, err)

		_, err = ParseJWT("other", token)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateJWT("secret", "user-1", "org-1", "member", -time.Minute)
		require.NoError(t, err)

		_, err = ParseJWT("secret", token)
		require.Error(t, err)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := GenerateJWT("", "user-1", "org-1", "member", time.Hour)
		require.Error(t, err)
	})
}

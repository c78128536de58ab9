package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("owner-42", "admin")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-42", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestIdentityFromToken(t *testing.T) {
	token, err := GenerateToken("owner-42", "admin")
	require.NoError(t, err)

	userID, err := IdentityFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-42", userID)
}

func TestIdentityFromTokenRequiresUserID(t *testing.T) {
	token, err := GenerateToken("", "admin")
	require.NoError(t, err)

	_, err = IdentityFromToken(token)
	assert.Error(t, err)
}

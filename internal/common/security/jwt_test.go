package security

import (
	"context"
	"testing"

	"portfolio_api/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_CarriesIdentity(t *testing.T) {
	config.Load()
	InitJWT()

	tokenString, err := GenerateToken("user-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	userID, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	username, err := GetUsernameFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestVerifyToken_RejectsGarbage(t *testing.T) {
	config.Load()
	InitJWT()

	_, err := jwtauth.VerifyToken(TokenAuth, "not-a-token")
	assert.Error(t, err)
}

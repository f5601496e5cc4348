package jwt

import (
	"testing"
	"time"

	"foodgram-backend/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	service := NewJWTService()

	userID := uuid.NewString()
	token := service.GenerateTokenUser(userID, domain.RoleUser)
	require.NotEmpty(t, token)

	gotID, gotRole, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, domain.RoleUser, gotRole)
}

func TestUserTokenRejectsGarbage(t *testing.T) {
	service := NewJWTService()

	_, _, err := service.GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestForgetPasswordTokenRoundTrip(t *testing.T) {
	service := NewJWTService()

	userID := uuid.NewString()
	token, err := service.GenerateTokenForgetPassword(map[string]any{
		"user_id": userID,
		"email":   "kate@example.com",
	}, time.Hour)
	require.NoError(t, err)

	claims, err := service.ValidateTokenForgetPassword(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims["user_id"])
	assert.Equal(t, "kate@example.com", claims["email"])
}

func TestForgetPasswordTokenExpires(t *testing.T) {
	service := NewJWTService()

	token, err := service.GenerateTokenForgetPassword(map[string]any{
		"user_id": uuid.NewString(),
	}, -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateTokenForgetPassword(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

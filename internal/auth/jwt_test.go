package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/tradetrackr/internal/auth"
)

func TestSignAndParse(t *testing.T) {
	svc := auth.NewJWTService("test-secret")
	userID, profileID := uuid.New(), uuid.New()

	token, err := svc.Sign(userID, profileID)
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, profileID, claims.ProfileID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewJWTService("secret-a").Sign(uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = auth.NewJWTService("secret-b").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := auth.NewJWTService("secret").Parse("not.a.token")
	assert.Error(t, err)
}

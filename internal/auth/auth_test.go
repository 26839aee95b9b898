package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ndt-portal-backend/internal/auth"
)

func TestSignAndVerify(t *testing.T) {
	token, err := auth.Sign("secret", "user-1", "u@example.com", "admin")
	require.NoError(t, err)

	claims, err := auth.Verify("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := auth.Sign("secret", "user-1", "u@example.com", "admin")
	require.NoError(t, err)

	_, err = auth.Verify("other-secret", token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := auth.Verify("secret", "not-a-token")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.NoError(t, auth.CheckPassword(hash, "s3cret!"))
	assert.Error(t, auth.CheckPassword(hash, "wrong"))
}

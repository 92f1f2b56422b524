package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusdash/statusdash/internal/domain"
)

func TestNewJWTAuthenticatorRequiresSecret(t *testing.T) {
	_, err := NewJWTAuthenticator("", time.Minute)
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	auth, err := NewJWTAuthenticator("test-secret", 15*time.Minute)
	require.NoError(t, err)

	user := &domain.User{Username: "admin", Role: domain.RoleAdmin}
	token, expiresAt, err := auth.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	username, role, err := auth.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTAuthenticator("secret-one", time.Minute)
	require.NoError(t, err)
	verifier, err := NewJWTAuthenticator("secret-two", time.Minute)
	require.NoError(t, err)

	token, _, err := issuer.GenerateToken(&domain.User{Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, _, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	auth, err := NewJWTAuthenticator("test-secret", time.Minute)
	require.NoError(t, err)
	auth.duration = -time.Minute

	token, _, err := auth.GenerateToken(&domain.User{Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, _, err = auth.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsGarbage(t *testing.T) {
	auth, err := NewJWTAuthenticator("test-secret", time.Minute)
	require.NoError(t, err)

	_, _, err = auth.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

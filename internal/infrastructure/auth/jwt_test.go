package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/planware/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-that-is-long-enough-123",
		Expiration: time.Hour,
		Issuer:     "planware-test",
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	t.Run("generates a valid bearer token", func(t *testing.T) {
		svc := newTestJWTService()
		userID := uuid.New()

		generated, err := svc.GenerateToken(GenerateTokenInput{
			UserID:   userID,
			Username: "jordan.producer",
			Role:     RoleProducer,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, generated.Token)
		assert.Equal(t, "Bearer", generated.TokenType)
		assert.WithinDuration(t, time.Now().Add(time.Hour), generated.ExpiresAt, 5*time.Second)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc := newTestJWTService()

		generated, err := svc.GenerateToken(GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "someone",
			Role:     Role("admin"),
		})

		assert.Nil(t, generated)
		assert.Equal(t, ErrInvalidRole, err)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("round-trips claims", func(t *testing.T) {
		svc := newTestJWTService()
		userID := uuid.New()

		generated, err := svc.GenerateToken(GenerateTokenInput{
			UserID:   userID,
			Username: "casey.manager",
			Role:     RoleManager,
		})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(generated.Token)

		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "casey.manager", claims.Username)
		assert.Equal(t, RoleManager, claims.Role)
		assert.Equal(t, "planware-test", claims.Issuer)
	})

	t.Run("rejects a token signed with a different secret", func(t *testing.T) {
		svc := newTestJWTService()
		other := NewJWTService(config.JWTConfig{
			Secret:     "another-secret-key-that-is-long-enough",
			Expiration: time.Hour,
			Issuer:     "planware-test",
		})

		generated, err := other.GenerateToken(GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "someone",
			Role:     RoleProducer,
		})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(generated.Token)

		assert.Nil(t, claims)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{
			Secret:     "test-secret-key-that-is-long-enough-123",
			Expiration: -time.Minute,
			Issuer:     "planware-test",
		})

		generated, err := svc.GenerateToken(GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "someone",
			Role:     RoleProducer,
		})
		require.NoError(t, err)

		claims, err := svc.ValidateToken(generated.Token)

		assert.Nil(t, claims)
		assert.Equal(t, ErrExpiredToken, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestJWTService()

		claims, err := svc.ValidateToken("not.a.token")

		assert.Nil(t, claims)
		assert.Equal(t, ErrInvalidToken, err)
	})
}

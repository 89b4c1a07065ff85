package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndValidate(t *testing.T) {
	j := NewJwt("secret")
	id := uuid.New()

	signed, claims, err := j.CreateToken(&CreateTokenParams{ID: id, Email: "admin@adyc.org", Role: "admin"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpirationTime), claims.ExpiresAt.Time, time.Minute)

	got, err := j.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "admin", got.Role)
	assert.Equal(t, "admin@adyc.org", got.Subject)
}

func TestValidateRejects(t *testing.T) {
	j := NewJwt("secret")

	t.Run("wrong secret", func(t *testing.T) {
		signed, _, err := NewJwt("other").CreateToken(&CreateTokenParams{Email: "a@x.org", Role: "admin"})
		require.NoError(t, err)
		_, err = j.ValidateToken(signed)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		claims, err := newUserClaims(&CreateTokenParams{Email: "a@x.org", Duration: time.Minute}, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = j.ValidateToken(signed)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := j.ValidateToken("not.a.jwt")
		assert.Error(t, err)
	})
}

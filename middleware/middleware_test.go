package middleware

import (
	"testing"
	"time"

	"shophub/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return signed
}

func TestValidateJWTRoundTrip(t *testing.T) {
	signed := signTestToken(t, &Claims{
		UserID: "u123",
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ValidateJWT("Bearer " + signed)
	require.NoError(t, err)
	assert.Equal(t, "u123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("")
	assert.Error(t, err)

	_, err = ValidateJWT("Bearer not-a-token")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	signed := signTestToken(t, &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := ValidateJWT("Bearer " + signed)
	assert.Error(t, err)
}

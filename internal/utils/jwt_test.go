package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	tok, err := GenerateJWT("reader@example.com", "s3cret", time.Minute)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", claims.PublicID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseJWTRejects(t *testing.T) {
	good, err := GenerateJWT("reader@example.com", "s3cret", time.Minute)
	require.NoError(t, err)
	expired, err := GenerateJWT("reader@example.com", "s3cret", -time.Minute)
	require.NoError(t, err)

	// Same claims signed with a different algorithm
	strong := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		PublicID:         "reader@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	hs512, err := strong.SignedString([]byte("s3cret"))
	require.NoError(t, err)

	// No expiry at all
	forever, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{PublicID: "reader@example.com"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, tc := range map[string]struct{ token, secret string }{
		"wrong secret": {good, "other"},
		"expired":      {expired, "s3cret"},
		"wrong alg":    {hs512, "s3cret"},
		"no expiry":    {forever, "s3cret"},
		"garbage":      {"not.a.token", "s3cret"},
		"empty":        {"", "s3cret"},
	} {
		_, err := ParseJWT(tc.token, tc.secret)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	a := New("secret")

	hash, err := a.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, a.CheckPassword("correct horse", hash))
	assert.Error(t, a.CheckPassword("battery staple", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	a := New("secret")

	token, err := a.GenerateJWT("user-1", "ada@example.com")
	require.NoError(t, err)

	claims, err := a.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestValidateJWTRejects(t *testing.T) {
	a := New("secret")
	good, err := a.GenerateJWT("user-1", "ada@example.com")
	require.NoError(t, err)

	otherKey, err := New("other").GenerateJWT("user-1", "ada@example.com")
	require.NoError(t, err)

	expired := New("secret")
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	stale, err := expired.GenerateJWT("user-1", "ada@example.com")
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	})
	foreignToken, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", otherKey},
		{"expired", stale},
		{"wrong issuer", foreignToken},
		{"tampered", good + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.ValidateJWT(tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestWithTTL(t *testing.T) {
	a := New("secret").WithTTL(time.Minute)
	token, err := a.GenerateJWT("user-1", "ada@example.com")
	require.NoError(t, err)

	claims, err := a.ValidateJWT(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

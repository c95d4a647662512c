package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileTokens_IssueParse(t *testing.T) {
	tokens, err := NewProfileTokens(&ProfileTokensConfig{Secret: []byte("secret")})
	require.NoError(t, err)

	id, token, err := tokens.Issue()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	id2, _, err := tokens.Issue()
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestProfileTokens_WrongSecret(t *testing.T) {
	a, err := NewProfileTokens(&ProfileTokensConfig{Secret: []byte("a")})
	require.NoError(t, err)
	b, err := NewProfileTokens(&ProfileTokensConfig{Secret: []byte("b")})
	require.NoError(t, err)

	_, token, err := a.Issue()
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProfileTokens_RandomSecret(t *testing.T) {
	a, err := NewProfileTokens(nil)
	require.NoError(t, err)
	b, err := NewProfileTokens(nil)
	require.NoError(t, err)

	_, token, err := a.Issue()
	require.NoError(t, err)
	_, err = a.Parse(token)
	assert.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)

	assert.Equal(t, 365*24*time.Hour, a.TTL())
}

func TestProfileTokens_Expired(t *testing.T) {
	secret := []byte("secret")
	tokens, err := NewProfileTokens(&ProfileTokensConfig{Secret: secret})
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	claims := ProfileClaims{jwt.RegisteredClaims{
		Subject:   "old-profile",
		Issuer:    profileIssuer,
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestProfileTokens_Garbage(t *testing.T) {
	tokens, err := NewProfileTokens(&ProfileTokensConfig{Secret: []byte("secret")})
	require.NoError(t, err)

	for _, token := range []string{"", "abc", "a.b.c"} {
		_, err := tokens.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNew(t *testing.T) {
	_, err := New(Config{SecretKey: "short"})
	assert.ErrorIs(t, err, ErrWeakSecret)

	m, err := New(Config{SecretKey: testSecret})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestGenerateVerify(t *testing.T) {
	m, err := New(Config{SecretKey: testSecret})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		token, err := m.Generate("billing-cron", time.Hour)
		require.NoError(t, err)

		claims, err := m.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "billing-cron", claims.Subject)
		assert.Equal(t, DefaultIssuer, claims.Issuer)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := m.Generate("x", -time.Minute)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := New(Config{SecretKey: strings.Repeat("z", MinSecretKeyLen)})
		require.NoError(t, err)
		token, err := other.Generate("x", time.Hour)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := New(Config{SecretKey: testSecret, Issuer: "someone-else"})
		require.NoError(t, err)
		token, err := other.Generate("x", time.Hour)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty and garbage", func(t *testing.T) {
		_, err := m.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
		_, err = m.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceAuthenticateOperator(t *testing.T) {
	svc, err := NewAuthService("hunter2", "test-jwt-secret", nil)
	require.NoError(t, err)

	t.Run("CorrectPassword", func(t *testing.T) {
		token, err := svc.AuthenticateOperator("hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.AuthenticateOperator("letmein")
		assert.Error(t, err)
	})

	t.Run("LoginDisabledWithoutPassword", func(t *testing.T) {
		disabled, err := NewAuthService("", "test-jwt-secret", nil)
		require.NoError(t, err)

		_, err = disabled.AuthenticateOperator("anything")
		assert.Error(t, err)
	})
}

func TestAuthServiceValidateOperator(t *testing.T) {
	svc, err := NewAuthService("hunter2", "test-jwt-secret", nil)
	require.NoError(t, err)

	token, err := svc.AuthenticateOperator("hunter2")
	require.NoError(t, err)

	t.Run("BearerHeader", func(t *testing.T) {
		assert.True(t, svc.ValidateOperator("Bearer "+token))
	})

	t.Run("RawToken", func(t *testing.T) {
		assert.True(t, svc.ValidateOperator(token))
	})

	t.Run("EmptyHeader", func(t *testing.T) {
		assert.False(t, svc.ValidateOperator(""))
	})

	t.Run("GarbageToken", func(t *testing.T) {
		assert.False(t, svc.ValidateOperator("Bearer not-a-jwt"))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other, err := NewAuthService("hunter2", "different-secret", nil)
		require.NoError(t, err)
		assert.False(t, other.ValidateOperator("Bearer "+token))
	})
}

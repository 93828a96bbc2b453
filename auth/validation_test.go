package auth_test

import (
	"testing"

	"github.com/jrsteele09/go-portfolio-client/auth"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateEmail(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidateEmail("admin@example.com"))
	require.ErrorIs(t, v.ValidateEmail("admin"), auth.InvalidEmailErr)
	require.ErrorIs(t, v.ValidateEmail("Admin <admin@example.com>"), auth.InvalidEmailErr)
	require.ErrorIs(t, v.ValidateEmail(""), auth.InvalidEmailErr)
}

func TestValidator_ValidateLogin(t *testing.T) {
	v := auth.NewValidator()

	require.NoError(t, v.ValidateLogin(model.LoginRequest{Email: "admin@example.com", Password: "x"}))
	require.ErrorIs(t, v.ValidateLogin(model.LoginRequest{Email: "admin@example.com"}), auth.MissingPasswordErr)
}

func TestValidator_ValidateRegister(t *testing.T) {
	v := auth.NewValidator()
	valid := model.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "Analytical1"}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, v.ValidateRegister(valid))
	})

	t.Run("missing name", func(t *testing.T) {
		req := valid
		req.LastName = " "
		require.ErrorIs(t, v.ValidateRegister(req), auth.MissingNameFieldErr)
	})

	t.Run("weak password", func(t *testing.T) {
		req := valid
		req.Password = "analytical"
		err := v.ValidateRegister(req)
		require.Error(t, err)
		require.Contains(t, err.Error(), "uppercase")
	})
}

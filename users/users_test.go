package users_test

import (
	"testing"
	"time"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/users"
	fakeuserrepo "github.com/jrsteele09/go-portfolio-client/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{password: "Short1", wantErr: true},
		{password: "alllowercase1", wantErr: true},
		{password: "ALLUPPERCASE1", wantErr: true},
		{password: "NoDigitsHere", wantErr: true},
		{password: "Portfolio2024", wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := users.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUser_CheckPassword(t *testing.T) {
	hash, err := users.HashPassword("Portfolio2024")
	require.NoError(t, err)

	u := &users.User{Email: "admin@example.com", PasswordHash: hash, Roles: []users.RoleType{users.RoleAdmin}}
	require.True(t, u.CheckPassword("Portfolio2024"))
	require.False(t, u.CheckPassword("portfolio2024"))
	require.True(t, u.IsAdmin())
	require.Equal(t, []string{"ADMIN"}, u.RoleNames())
	require.Equal(t, "admin@example.com", u.Username())

	u.FirstName, u.LastName = "Ada", "Lovelace"
	require.Equal(t, "Ada Lovelace", u.Username())
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	admin := &users.User{Email: "Admin@Example.com"}
	require.NoError(t, repo.Upsert(admin))
	require.NotEmpty(t, admin.ID)

	got, err := repo.GetByEmail("admin@example.com")
	require.NoError(t, err)
	require.Equal(t, admin.ID, got.ID)

	err = repo.Upsert(&users.User{Email: "admin@example.com"})
	require.ErrorIs(t, err, perrors.ErrConflict)

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetLastLogin("admin@example.com", at))
	got, err = repo.GetByID(admin.ID)
	require.NoError(t, err)
	require.Equal(t, at, got.LastLogin)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete("admin@example.com"))
	_, err = repo.GetByEmail("admin@example.com")
	require.ErrorIs(t, err, perrors.ErrUserNotFound)
	require.ErrorIs(t, repo.SetLastLogin("admin@example.com", at), perrors.ErrUserNotFound)
}

package auth_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-client/auth"
	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/token"
	"github.com/jrsteele09/go-portfolio-client/token/jwt"
	"github.com/jrsteele09/go-portfolio-client/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-portfolio-client/token/refresh/repofake"
	"github.com/jrsteele09/go-portfolio-client/users"
	fakeuserrepo "github.com/jrsteele09/go-portfolio-client/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	secretStr         = "1234"
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "Portfolio2024"
)

type testConfig struct {
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func (c testConfig) GetAccessTokenExpiry() time.Duration  { return c.accessExpiry }
func (c testConfig) GetRefreshTokenExpiry() time.Duration { return c.refreshExpiry }
func (c testConfig) GetRefreshTokenLength() int           { return 32 }

// testFixture holds all test dependencies
type testFixture struct {
	userRepo      users.UserRepo
	refreshRepo   refresh.Repo
	revoked       *token.InMemoryRevokedTokenCache
	accessTokens  *jwt.Creator
	refreshTokens *refresh.Manager
	service       *auth.Service
	now           time.Time
}

// setupTestFixture creates a new test fixture with all dependencies
func setupTestFixture(t *testing.T, options ...auth.ServiceOption) *testFixture {
	t.Helper()

	f := &testFixture{
		userRepo:    fakeuserrepo.NewFakeUserRepo(),
		refreshRepo: refreshrepofake.NewFakeRefreshTokenRepo(),
		revoked:     token.NewInMemoryRevokedTokenCache(),
		now:         time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	jwt.NowTimeFunc = clock
	refresh.NowTimeFunc = clock
	token.NowTimeFunc = clock
	t.Cleanup(func() {
		jwt.NowTimeFunc = time.Now
		refresh.NowTimeFunc = time.Now
		token.NowTimeFunc = time.Now
	})

	cfg := testConfig{accessExpiry: 15 * time.Minute, refreshExpiry: 24 * time.Hour}
	f.accessTokens = jwt.NewCreator(cfg, token.NewHMACSigner(secretStr), f.revoked)
	f.refreshTokens = refresh.NewManager(f.refreshRepo, cfg)

	svc, err := auth.NewService(auth.Repos{Users: f.userRepo}, f.accessTokens, f.refreshTokens,
		append([]auth.ServiceOption{auth.WithNowTime(clock)}, options...)...)
	require.NoError(t, err)
	f.service = svc

	generated, err := svc.EnsureAdmin(testAdminEmail, testAdminPassword)
	require.NoError(t, err)
	require.Empty(t, generated)
	return f
}

func (f *testFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestEnsureAdmin_GeneratesPassword(t *testing.T) {
	f := setupTestFixture(t)

	generated, err := f.service.EnsureAdmin("owner@example.com", "")
	require.NoError(t, err)
	require.NoError(t, users.ValidatePasswordStrength(generated))

	_, _, err = f.service.Authenticate(model.LoginRequest{Email: "owner@example.com", Password: generated})
	require.NoError(t, err)

	again, err := f.service.EnsureAdmin("owner@example.com", "")
	require.NoError(t, err)
	require.Empty(t, again, "existing admin is left alone")
}

func TestAuthenticate(t *testing.T) {
	f := setupTestFixture(t)

	tokens, user, err := f.service.Authenticate(model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)
	require.True(t, user.IsAdmin())
	require.NotEmpty(t, tokens.AccessToken)
	require.Len(t, tokens.RefreshToken, 64)

	claims, err := f.service.Verify(tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, testAdminEmail, claims.Email)
	require.True(t, claims.HasRole(string(users.RoleAdmin)))

	stored, err := f.userRepo.GetByEmail(testAdminEmail)
	require.NoError(t, err)
	require.Equal(t, f.now, stored.LastLogin)
}

func TestAuthenticate_Failures(t *testing.T) {
	f := setupTestFixture(t)

	_, _, err := f.service.Authenticate(model.LoginRequest{Email: testAdminEmail, Password: "wrong"})
	require.ErrorIs(t, err, perrors.ErrInvalidCredentials)

	_, _, err = f.service.Authenticate(model.LoginRequest{Email: "nobody@example.com", Password: testAdminPassword})
	require.ErrorIs(t, err, perrors.ErrInvalidCredentials)

	_, _, err = f.service.Authenticate(model.LoginRequest{Email: "not-an-email", Password: testAdminPassword})
	require.ErrorIs(t, err, perrors.ErrInvalidRequest)

	admin, err := f.userRepo.GetByEmail(testAdminEmail)
	require.NoError(t, err)
	admin.Blocked = true
	_, _, err = f.service.Authenticate(model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.ErrorIs(t, err, perrors.ErrInvalidCredentials)
	require.ErrorContains(t, err, "blocked")
}

func TestAccessTokenExpiry(t *testing.T) {
	f := setupTestFixture(t)

	tokens, _, err := f.service.Authenticate(model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	f.advance(16 * time.Minute)
	_, err = f.service.Verify(tokens.AccessToken)
	require.ErrorIs(t, err, perrors.ErrTokenExpired)

	access, err := f.service.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	_, err = f.service.Verify(access)
	require.NoError(t, err)
}

func TestRefresh_Failures(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Refresh("")
	require.ErrorIs(t, err, perrors.ErrInvalidRefreshToken)

	_, err = f.service.Refresh("deadbeef")
	require.ErrorIs(t, err, perrors.ErrInvalidRefreshToken)

	tokens, _, err := f.service.Authenticate(model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	f.advance(25 * time.Hour)
	_, err = f.service.Refresh(tokens.RefreshToken)
	require.ErrorIs(t, err, perrors.ErrRefreshTokenExpired)
	require.Zero(t, f.refreshRepo.Count(), "expired token is removed")
}

func TestLogin_ReplacesRefreshToken(t *testing.T) {
	f := setupTestFixture(t)
	login := model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword}

	first, _, err := f.service.Authenticate(login)
	require.NoError(t, err)
	second, _, err := f.service.Authenticate(login)
	require.NoError(t, err)

	require.Equal(t, 1, f.refreshRepo.Count())
	_, err = f.service.Refresh(first.RefreshToken)
	require.ErrorIs(t, err, perrors.ErrInvalidRefreshToken)
	_, err = f.service.Refresh(second.RefreshToken)
	require.NoError(t, err)
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)

	tokens, _, err := f.service.Authenticate(model.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	require.NoError(t, err)

	f.service.Logout(tokens.AccessToken, tokens.RefreshToken)

	_, err = f.service.Verify(tokens.AccessToken)
	require.ErrorIs(t, err, perrors.ErrInvalidToken)
	_, err = f.service.Refresh(tokens.RefreshToken)
	require.ErrorIs(t, err, perrors.ErrInvalidRefreshToken)

	f.advance(time.Hour)
	require.Equal(t, 1, f.revoked.Cleanup())

	f.service.Logout("", "")
}

func TestRegister(t *testing.T) {
	req := model.RegisterRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "Analytical1"}

	t.Run("disabled by default", func(t *testing.T) {
		f := setupTestFixture(t)
		_, _, err := f.service.Register(req)
		require.ErrorIs(t, err, perrors.ErrUnsupported)
	})

	t.Run("creates a non-admin user", func(t *testing.T) {
		f := setupTestFixture(t, auth.WithRegistration(true))
		tokens, user, err := f.service.Register(req)
		require.NoError(t, err)
		require.False(t, user.IsAdmin())
		require.Equal(t, "Ada Lovelace", user.Username())

		claims, err := f.service.Verify(tokens.AccessToken)
		require.NoError(t, err)
		require.Equal(t, []string{"USER"}, claims.Roles)

		_, _, err = f.service.Register(req)
		require.ErrorIs(t, err, perrors.ErrConflict)
	})

	t.Run("weak password", func(t *testing.T) {
		f := setupTestFixture(t, auth.WithRegistration(true))
		weak := req
		weak.Password = "weak"
		_, _, err := f.service.Register(weak)
		require.ErrorIs(t, err, perrors.ErrInvalidRequest)
	})
}

func TestVerify_RejectsForeignSignature(t *testing.T) {
	f := setupTestFixture(t)

	other := jwt.NewCreator(testConfig{accessExpiry: time.Minute}, token.NewHMACSigner("other-secret"), nil)
	admin, err := f.userRepo.GetByEmail(testAdminEmail)
	require.NoError(t, err)
	forged, err := other.CreateAccessToken(admin)
	require.NoError(t, err)

	_, err = f.service.Verify(forged)
	require.ErrorIs(t, err, perrors.ErrInvalidToken)

	_, err = f.service.Verify("")
	require.ErrorIs(t, err, perrors.ErrNotAuthenticated)
}

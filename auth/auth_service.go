package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/token/jwt"
	"github.com/jrsteele09/go-portfolio-client/token/refresh"
	"github.com/jrsteele09/go-portfolio-client/users"
	"github.com/pkg/errors"
)

const generatedPasswordLength = 18

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users users.UserRepo // Repository for user data
}

// Tokens is what a successful login hands to the transport layer, which
// turns it into cookies.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Service authenticates the portfolio admin and manages cookie session tokens.
type Service struct {
	repos         Repos                // All repository dependencies
	accessTokens  *jwt.Creator         // Short lived JWT in the accessToken cookie
	refreshTokens *refresh.Manager     // Opaque token in the refreshToken cookie
	validator     *Validator           // Request validation
	allowRegister bool                 // Whether /auth/register creates accounts
	nowTime       func() time.Time     // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithRegistration enables self registration of non-admin users.
func WithRegistration(allow bool) ServiceOption {
	return func(s *Service) {
		s.allowRegister = allow
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, accessTokens *jwt.Creator, refreshTokens *refresh.Manager, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[auth.NewService] user repo is required")
	}
	if accessTokens == nil || refreshTokens == nil {
		return nil, errors.New("[auth.NewService] token managers are required")
	}
	s := &Service{
		repos:         repos,
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		validator:     NewValidator(),
		nowTime:       time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// EnsureAdmin creates the admin account if it doesn't exist. An empty password
// is replaced by a generated one, which is returned so it can be shown once.
func (s *Service) EnsureAdmin(email, password string) (generated string, err error) {
	if _, err := s.repos.Users.GetByEmail(email); err == nil {
		return "", nil
	}
	if password == "" {
		if password, err = generatePassword(); err != nil {
			return "", err
		}
		generated = password
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return "", errors.Wrap(err, "[Service.EnsureAdmin] failed to hash password")
	}
	admin := &users.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Portfolio",
		LastName:     "Admin",
		Roles:        []users.RoleType{users.RoleAdmin},
		DateJoined:   s.nowTime(),
	}
	if err := s.repos.Users.Upsert(admin); err != nil {
		return "", errors.Wrap(err, "[Service.EnsureAdmin] failed to store admin")
	}
	return generated, nil
}

// Authenticate checks the credentials and issues a new token pair.
func (s *Service) Authenticate(req model.LoginRequest) (*Tokens, *users.User, error) {
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, nil, perrors.Wrapf(perrors.ErrInvalidRequest, "%v", err)
	}

	user, err := s.repos.Users.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		return nil, nil, perrors.Wrapf(perrors.ErrInvalidCredentials, "%v", InvalidLoginErr)
	}
	if user.Blocked {
		return nil, nil, perrors.Wrapf(perrors.ErrInvalidCredentials, "%v", UserBlockedErr)
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repos.Users.SetLastLogin(user.Email, s.nowTime()); err != nil {
		return nil, nil, errors.Wrap(err, "[Service.Authenticate] failed to record login")
	}
	return tokens, user, nil
}

// Register creates a USER account and logs it in.
func (s *Service) Register(req model.RegisterRequest) (*Tokens, *users.User, error) {
	if !s.allowRegister {
		return nil, nil, perrors.Wrapf(perrors.ErrUnsupported, "%v", RegistrationOffErr)
	}
	if err := s.validator.ValidateRegister(req); err != nil {
		return nil, nil, perrors.Wrapf(perrors.ErrInvalidRequest, "%v", err)
	}
	if _, err := s.repos.Users.GetByEmail(req.Email); err == nil {
		return nil, nil, perrors.Wrapf(perrors.ErrConflict, "email %s already registered", req.Email)
	}

	hash, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Service.Register] failed to hash password")
	}
	user := &users.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Roles:        []users.RoleType{users.RoleUser},
		DateJoined:   s.nowTime(),
	}
	if err := s.repos.Users.Upsert(user); err != nil {
		return nil, nil, errors.Wrap(err, "[Service.Register] failed to store user")
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated.
func (s *Service) Refresh(refreshToken string) (string, error) {
	stored, err := s.refreshTokens.Validate(refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.repos.Users.GetByID(stored.UserID)
	if err != nil {
		_ = s.refreshTokens.Delete(refreshToken)
		return "", perrors.Wrapf(perrors.ErrInvalidRefreshToken, "%v", err)
	}
	if user.Blocked {
		_ = s.refreshTokens.Delete(refreshToken)
		return "", perrors.Wrapf(perrors.ErrInvalidRefreshToken, "%v", UserBlockedErr)
	}

	access, err := s.accessTokens.CreateAccessToken(user)
	if err != nil {
		return "", errors.Wrap(err, "[Service.Refresh] failed to create access token")
	}
	return access, nil
}

// Verify validates the access token from a request cookie.
func (s *Service) Verify(accessToken string) (*jwt.AccessClaims, error) {
	if accessToken == "" {
		return nil, perrors.ErrNotAuthenticated
	}
	return s.accessTokens.Verify(accessToken)
}

// Logout revokes whichever of the two tokens the caller still presents.
func (s *Service) Logout(accessToken, refreshToken string) {
	if claims, err := s.accessTokens.Verify(accessToken); err == nil {
		s.accessTokens.Revoke(claims)
	}
	if refreshToken != "" {
		_ = s.refreshTokens.Delete(refreshToken)
	}
}

func (s *Service) issue(user *users.User) (*Tokens, error) {
	access, err := s.accessTokens.CreateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issue] failed to create access token")
	}
	refreshToken, err := s.refreshTokens.Create(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.issue] failed to create refresh token")
	}
	return &Tokens{AccessToken: access, RefreshToken: refreshToken}, nil
}

func generatePassword() (string, error) {
	b := make([]byte, generatedPasswordLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "failed to generate password")
	}
	// Prefix guarantees the strength rules hold whatever the random bytes are.
	return "Pf1" + base64.RawURLEncoding.EncodeToString(b), nil
}

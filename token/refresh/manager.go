package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Config supplies refresh token settings. config.SecurityConfig satisfies it.
type Config interface {
	GetRefreshTokenLength() int
	GetRefreshTokenExpiry() time.Duration
}

// Manager handles refresh token creation, validation and revocation
type Manager struct {
	repo   Repo
	config Config
}

// NewManager creates a new refresh token manager
func NewManager(repo Repo, cfg Config) *Manager {
	return &Manager{
		repo:   repo,
		config: cfg,
	}
}

// Create generates a new refresh token for userID and stores it, replacing any
// token the user already had.
func (m *Manager) Create(userID string) (string, error) {
	// Single refresh token per user
	if existingToken, err := m.repo.GetByUserID(userID); err == nil && existingToken != nil {
		if err := m.repo.Delete(existingToken.Token); err != nil {
			return "", fmt.Errorf("failed to delete existing refresh token: %w", err)
		}
	}

	tokenBytes := make([]byte, m.config.GetRefreshTokenLength())
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.repo.Upsert(&StoredRefreshToken{
		Token:  tokenStr,
		UserID: userID,
		Iat:    NowTimeFunc(),
	}); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenStr, nil
}

// Validate returns the stored metadata for token. An expired token is deleted.
func (m *Manager) Validate(token string) (*StoredRefreshToken, error) {
	if token == "" {
		return nil, perrors.ErrInvalidRefreshToken
	}
	rt, err := m.repo.Get(token)
	if err != nil || rt == nil {
		return nil, perrors.ErrInvalidRefreshToken
	}
	if m.IsExpired(rt) {
		_ = m.repo.Delete(token)
		return nil, perrors.ErrRefreshTokenExpired
	}
	return rt, nil
}

// Delete removes a refresh token from storage
func (m *Manager) Delete(token string) error {
	return m.repo.Delete(token)
}

// IsExpired checks if a refresh token is older than the configured expiry
func (m *Manager) IsExpired(rt *StoredRefreshToken) bool {
	return NowTimeFunc().Sub(rt.Iat) > m.config.GetRefreshTokenExpiry()
}

// Active returns the number of stored refresh tokens.
func (m *Manager) Active() int {
	return m.repo.Count()
}

package config

import (
	"net/http"
	"time"
)

type SecurityConfig interface {
	SessionConfig
	GetAdminEmail() string
	GetAdminPassword() string
	GetTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
	GetEnableRateLimiting() bool
	GetLoginRatePerMinute() int
	GetLoginBurst() int
	GetSecureCookies() bool
	GetAllowRegistration() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetSessionExpiredStatus is the status protected routes answer with when the
// access cookie is missing or expired. The existing backend uses 403.
func (Security) GetSessionExpiredStatus() int {
	return GetEnvInt("SESSION_EXPIRED_STATUS", http.StatusForbidden)
}

func (Security) GetRefreshPath() string {
	return "/api/auth/refresh"
}

func (Security) GetRefreshTimeout() time.Duration {
	return GetEnvDuration("REFRESH_TIMEOUT", 10*time.Second)
}

func (Security) GetAdminEmail() string {
	return GetEnv("ADMIN_EMAIL", "admin@portfolio.local")
}

// GetAdminPassword returns the bootstrap admin password. Empty means one is generated at start.
func (Security) GetAdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "")
}

// GetTokenSecret returns the HMAC secret for access tokens. Empty means a random one per process.
func (Security) GetTokenSecret() string {
	return GetEnv("TOKEN_SECRET", "")
}

func (Security) GetAccessTokenExpiry() time.Duration {
	return GetEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute)
}

func (Security) GetRefreshTokenExpiry() time.Duration {
	return GetEnvDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour) // 7 days
}

func (Security) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (Security) GetEnableRateLimiting() bool {
	return GetEnv("LOGIN_RATE_LIMIT", "on") != "off"
}

func (Security) GetLoginRatePerMinute() int {
	return GetEnvInt("LOGIN_RATE_PER_MINUTE", 10)
}

func (Security) GetLoginBurst() int {
	return GetEnvInt("LOGIN_BURST", 5)
}

func (Security) GetSecureCookies() bool {
	return GetEnv("SECURE_COOKIES", "false") == "true"
}

func (Security) GetAllowRegistration() bool {
	return GetEnv("ALLOW_REGISTRATION", "false") == "true"
}

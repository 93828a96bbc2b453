package config

import "time"

// Config is the configuration of the development backend.
type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetSeedFile() string
	GetLogLevel() string
	GetEnv() string
	GetBaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// SessionConfig holds the session-refresh conventions shared by the client
// and the development backend.
type SessionConfig interface {
	GetSessionExpiredStatus() int
	GetRefreshPath() string
	GetRefreshTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Cors
	Security
}

func New() Config {
	return mainConfig{}
}

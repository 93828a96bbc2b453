package config

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClientConfig configures the portfolio API client and the CLI.
type ClientConfig interface {
	SessionConfig
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetStateDir() string
	GetLogLevel() string
	GetEnv() string
}

// ClientSettings is the viper-backed ClientConfig used by portfolioctl.
type ClientSettings struct {
	API     APISettings     `mapstructure:"api"`
	Session SessionSettings `mapstructure:"session"`
	State   StateSettings   `mapstructure:"state"`
	Logging LoggingSettings `mapstructure:"logging"`
	Env     string          `mapstructure:"env"`
}

type APISettings struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionSettings struct {
	ExpiredStatus  int           `mapstructure:"expired_status"`
	RefreshPath    string        `mapstructure:"refresh_path"`
	RefreshTimeout time.Duration `mapstructure:"refresh_timeout"`
}

type StateSettings struct {
	Dir string `mapstructure:"dir"`
}

type LoggingSettings struct {
	Level string `mapstructure:"level"`
}

var _ ClientConfig = (*ClientSettings)(nil)

func (c *ClientSettings) GetAPIBaseURL() string { return c.API.BaseURL }
func (c *ClientSettings) GetRequestTimeout() time.Duration { return c.API.Timeout }
func (c *ClientSettings) GetSessionExpiredStatus() int { return c.Session.ExpiredStatus }
func (c *ClientSettings) GetRefreshPath() string { return c.Session.RefreshPath }
func (c *ClientSettings) GetRefreshTimeout() time.Duration { return c.Session.RefreshTimeout }
func (c *ClientSettings) GetStateDir() string { return c.State.Dir }
func (c *ClientSettings) GetLogLevel() string { return c.Logging.Level }
func (c *ClientSettings) GetEnv() string { return c.Env }

// LoadClient reads the client configuration from file, PORTFOLIO_* environment
// variables and whatever flags have been bound on v.
func LoadClient(v *viper.Viper, cfgFile string) (*ClientSettings, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".portfolioctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/portfolioctl")
	}

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setClientDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg ClientSettings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validateClient(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("session.expired_status", http.StatusForbidden)
	v.SetDefault("session.refresh_path", "/auth/refresh")
	v.SetDefault("session.refresh_timeout", 10*time.Second)
	v.SetDefault("state.dir", defaultStateDir())
	v.SetDefault("logging.level", "warn")
	v.SetDefault("env", "DEV")
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "portfolioctl")
	}
	return ".portfolioctl"
}

func validateClient(cfg *ClientSettings) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.Session.ExpiredStatus < 400 || cfg.Session.ExpiredStatus > 499 {
		return fmt.Errorf("session.expired_status must be a 4xx status, got %d", cfg.Session.ExpiredStatus)
	}
	if !strings.HasPrefix(cfg.Session.RefreshPath, "/") {
		return fmt.Errorf("session.refresh_path must start with '/'")
	}
	if cfg.State.Dir == "" {
		return fmt.Errorf("state.dir is required")
	}
	return nil
}

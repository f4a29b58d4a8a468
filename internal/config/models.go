package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
	GitHub  GitHubConfig  `mapstructure:"github"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.GitHub.Token == "" {
		return errors.New("GITHUB_TOKEN is required")
	}
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return errors.New("GITHUB_OWNER and GITHUB_REPO are required")
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// HTTPConfig contains transport settings.
type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// GitHubConfig identifies the repository under observation and the
// credential used to read it.
type GitHubConfig struct {
	Token        string `mapstructure:"token"`
	Owner        string `mapstructure:"owner"`
	Repo         string `mapstructure:"repo"`
	LookbackDays int    `mapstructure:"lookback_days"`
}

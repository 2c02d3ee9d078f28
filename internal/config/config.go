package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orci-tz/mafunzo/internal/services"
	"github.com/orci-tz/mafunzo/internal/utils"
)

const devJWTSecret = "mafunzo-dev-secret"

// Config holds all configuration for the survey server.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Database DatabaseConfig  `yaml:"database"`
	Auth     AuthConfig      `yaml:"auth"`
	Log      LogConfig       `yaml:"log"`
	Report   ReportConfig    `yaml:"report"`
	Users    []services.User `yaml:"users"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the response store. An empty Path keeps responses
// in memory.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ReportConfig bounds the default year matrix.
type ReportConfig struct {
	StartYear int `yaml:"start_year"`
	EndYear   int `yaml:"end_year"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"http://localhost:5173"},
			ShutdownTimeout: 10 * time.Second,
		},
		Auth:   AuthConfig{JWTSecret: devJWTSecret},
		Log:    LogConfig{Level: "info", Format: "json"},
		Report: ReportConfig{StartYear: services.ReportStartYear, EndYear: services.ReportEndYear},
	}
}

// Load reads the YAML file named by SURVEY_CONFIG when set, then applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	cfg := Default()
	if path := utils.SafeEnv("SURVEY_CONFIG", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = utils.SafeEnv("SURVEY_ADDR", c.Server.Addr)
	c.Server.CORSOrigins = utils.EnvList("SURVEY_CORS_ORIGINS", c.Server.CORSOrigins)
	c.Server.ShutdownTimeout = utils.EnvDuration("SURVEY_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Database.Path = utils.SafeEnv("SURVEY_DB_PATH", c.Database.Path)
	c.Auth.JWTSecret = utils.SafeEnv("SURVEY_JWT_SECRET", c.Auth.JWTSecret)
	c.Log.Level = utils.SafeEnv("SURVEY_LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.SafeEnv("SURVEY_LOG_FORMAT", c.Log.Format)
	c.Report.StartYear = utils.EnvInt("SURVEY_REPORT_START", c.Report.StartYear)
	c.Report.EndYear = utils.EnvInt("SURVEY_REPORT_END", c.Report.EndYear)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server addr is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if c.Report.StartYear <= 0 || c.Report.EndYear < c.Report.StartYear {
		return fmt.Errorf("invalid report years: %d-%d", c.Report.StartYear, c.Report.EndYear)
	}
	seen := map[string]bool{}
	for i, u := range c.Users {
		if u.Username == "" || u.PasswordHash == "" {
			return fmt.Errorf("user %d: username and password_hash are required", i)
		}
		if seen[u.Username] {
			return fmt.Errorf("duplicate user %q", u.Username)
		}
		seen[u.Username] = true
		if u.Role != services.RoleViewer && u.Role != services.RoleAdmin {
			return fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
	}
	return nil
}

// UsingDevSecret reports whether tokens are signed with the built-in secret.
func (c *Config) UsingDevSecret() bool {
	return c.Auth.JWTSecret == devJWTSecret
}

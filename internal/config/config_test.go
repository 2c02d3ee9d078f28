package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  addr: ":9000"
  cors_origins: ["https://mafunzo.example"]
database:
  path: /var/lib/mafunzo/survey.db
log:
  level: debug
  format: console
report:
  start_year: 2010
  end_year: 2020
users:
  - id: u1
    username: hr
    password_hash: "$2a$10$abcdefghijklmnopqrstuv"
    role: viewer
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SURVEY_CONFIG", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2008, cfg.Report.StartYear)
	assert.Equal(t, 2025, cfg.Report.EndYear)
	assert.Empty(t, cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.UsingDevSecret())
}

func TestLoadFileThenEnv(t *testing.T) {
	t.Setenv("SURVEY_CONFIG", writeConfig(t, sampleYAML))
	t.Setenv("SURVEY_ADDR", ":7000")
	t.Setenv("SURVEY_REPORT_END", "2022")
	t.Setenv("SURVEY_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://mafunzo.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/var/lib/mafunzo/survey.db", cfg.Database.Path)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 2010, cfg.Report.StartYear)
	assert.Equal(t, 2022, cfg.Report.EndYear)
	require.Len(t, cfg.Users, 1)
	assert.Equal(t, "hr", cfg.Users[0].Username)
	assert.NotEmpty(t, cfg.Users[0].PasswordHash)
	assert.False(t, cfg.UsingDevSecret())
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("SURVEY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SURVEY_CONFIG", writeConfig(t, "server: [oops"))
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty addr":     func(c *Config) { c.Server.Addr = "" },
		"empty secret":   func(c *Config) { c.Auth.JWTSecret = "" },
		"bad format":     func(c *Config) { c.Log.Format = "xml" },
		"inverted years": func(c *Config) { c.Report.StartYear, c.Report.EndYear = 2020, 2010 },
		"bad role": func(c *Config) {
			c.Users = append(c.Users, userFixture("a", "clerk"))
		},
		"duplicate user": func(c *Config) {
			c.Users = append(c.Users, userFixture("a", "viewer"), userFixture("a", "admin"))
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

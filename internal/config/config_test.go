package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.Capacity.WeeklyHoursAvailable)
	assert.Equal(t, 15.0, cfg.Capacity.MaxProjectHoursPerWeek)
	assert.Equal(t, "optimistic", cfg.Capacity.DeferralPolicy)
	assert.Equal(t, BackendSQLite, cfg.Signals.Backend)
	assert.Equal(t, 7, cfg.Signals.LookbackDays)
	assert.Equal(t, 200, cfg.Signals.Limit)
	assert.Equal(t, 30, cfg.Signals.DeadlineHorizonDays)
	assert.Equal(t, 3, cfg.Ranking.TopK)
	assert.Equal(t, 4, cfg.Ranking.Workers)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Equal(t, "default", cfg.User.ID)
	assert.NotEmpty(t, cfg.DB.Path)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "cadence.yaml", `
capacity:
  weekly_hours_available: 12
  deferral_policy: defer
db:
  path: /tmp/cadence-test.db
signals:
  cache_ttl: 5m
  lookback_days: 14
ranking:
  top_k: 5
log:
  level: debug
user:
  id: student-42
`)

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 12.0, cfg.Capacity.WeeklyHoursAvailable)
	assert.Equal(t, 15.0, cfg.Capacity.MaxProjectHoursPerWeek, "unset keys keep defaults")
	assert.Equal(t, "defer", cfg.Capacity.DeferralPolicy)
	assert.Equal(t, "/tmp/cadence-test.db", cfg.DB.Path)
	assert.Equal(t, 5*time.Minute, cfg.Signals.CacheTTL)
	assert.Equal(t, 14, cfg.Signals.LookbackDays)
	assert.Equal(t, 5, cfg.Ranking.TopK)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "student-42", cfg.User.ID)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "cadence.yaml", "capacity:\n  weekly_hours_available: 12\n")
	t.Setenv("CADENCE_WEEKLY_HOURS", "25.5")
	t.Setenv("CADENCE_RANK_WORKERS", "8")
	t.Setenv("CADENCE_SIGNAL_CACHE_TTL", "30s")
	t.Setenv("CADENCE_USER_ID", "env-user")

	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 25.5, cfg.Capacity.WeeklyHoursAvailable)
	assert.Equal(t, 8, cfg.Ranking.Workers)
	assert.Equal(t, 30*time.Second, cfg.Signals.CacheTTL)
	assert.Equal(t, "env-user", cfg.User.ID)
}

func TestLoad_DotEnvFile(t *testing.T) {
	envFile := writeFile(t, "test.env", "CADENCE_TEST_DOTENV_MONGO=mongodb://localhost:27017\nCADENCE_SIGNAL_BACKEND=mongo\n")
	t.Setenv("CADENCE_SIGNAL_BACKEND", "")
	t.Setenv("CADENCE_MONGO_URI", "mongodb://explicit:27017")
	t.Cleanup(func() { os.Unsetenv("CADENCE_TEST_DOTENV_MONGO") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", os.Getenv("CADENCE_TEST_DOTENV_MONGO"))
	assert.Equal(t, "mongodb://explicit:27017", cfg.Signals.MongoURI)
	assert.Equal(t, BackendSQLite, cfg.Signals.Backend, ".env does not override variables already set")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing named file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
		assert.ErrorContains(t, err, "read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "capacity: [\n"), noEnvFile(t))
		assert.ErrorContains(t, err, "parse config yaml")
	})

	t.Run("bad env number", func(t *testing.T) {
		t.Setenv("CADENCE_MAX_PROJECT_HOURS", "lots")
		_, err := Load("", noEnvFile(t))
		assert.ErrorContains(t, err, "CADENCE_MAX_PROJECT_HOURS")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero weekly hours", func(c *Config) { c.Capacity.WeeklyHoursAvailable = 0 }, "weekly_hours_available"},
		{"negative cap", func(c *Config) { c.Capacity.MaxProjectHoursPerWeek = -1 }, "max_project_hours_per_week"},
		{"unknown policy", func(c *Config) { c.Capacity.DeferralPolicy = "later" }, "deferral_policy"},
		{"unknown backend", func(c *Config) { c.Signals.Backend = "redis" }, "signals.backend"},
		{"mongo without uri", func(c *Config) { c.Signals.Backend = BackendMongo }, "mongo_uri"},
		{"zero cache ttl", func(c *Config) { c.Signals.CacheTTL = 0 }, "cache_ttl"},
		{"negative cache ttl", func(c *Config) { c.Signals.CacheTTL = -time.Second }, "cache_ttl"},
		{"zero lookback", func(c *Config) { c.Signals.LookbackDays = 0 }, "lookback_days"},
		{"zero top k", func(c *Config) { c.Ranking.TopK = 0 }, "top_k"},
		{"zero workers", func(c *Config) { c.Ranking.Workers = 0 }, "workers"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"no user", func(c *Config) { c.User.ID = "" }, "user.id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}

	require.NoError(t, Default().Validate())
}

func TestPath(t *testing.T) {
	t.Setenv("CADENCE_CONFIG_PATH", "/etc/cadence.yaml")
	assert.Equal(t, "/etc/cadence.yaml", Path(""))
	assert.Equal(t, "./local.yaml", Path("./local.yaml"))
}

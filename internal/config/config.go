// Package config loads cadence settings from defaults, an optional YAML
// file, a .env file and CADENCE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Capacity CapacityConfig `yaml:"capacity"`
	DB       DBConfig       `yaml:"db"`
	Signals  SignalsConfig  `yaml:"signals"`
	Ranking  RankingConfig  `yaml:"ranking"`
	Server   ServerConfig   `yaml:"server"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
	User     UserConfig     `yaml:"user"`
}

type CapacityConfig struct {
	WeeklyHoursAvailable   float64 `yaml:"weekly_hours_available"`
	MaxProjectHoursPerWeek float64 `yaml:"max_project_hours_per_week"`
	// DeferralPolicy is "optimistic" or "defer".
	DeferralPolicy string `yaml:"deferral_policy"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type SignalsConfig struct {
	// Backend is "sqlite" or "mongo".
	Backend             string        `yaml:"backend"`
	MongoURI            string        `yaml:"mongo_uri"`
	MongoDatabase       string        `yaml:"mongo_database"`
	MongoCollection     string        `yaml:"mongo_collection"`
	CacheTTL            time.Duration `yaml:"cache_ttl"`
	LookbackDays        int           `yaml:"lookback_days"`
	Limit               int           `yaml:"limit"`
	DeadlineHorizonDays int           `yaml:"deadline_horizon_days"`
}

type RankingConfig struct {
	TopK    int `yaml:"top_k"`
	Workers int `yaml:"workers"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type UserConfig struct {
	ID string `yaml:"id"`
}

const (
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Capacity: CapacityConfig{
			WeeklyHoursAvailable:   20,
			MaxProjectHoursPerWeek: 15,
			DeferralPolicy:         "optimistic",
		},
		DB: DBConfig{Path: defaultDBPath()},
		Signals: SignalsConfig{
			Backend:             BackendSQLite,
			MongoDatabase:       "AcademicPlanner",
			MongoCollection:     "activity_signals",
			CacheTTL:            time.Minute,
			LookbackDays:        7,
			Limit:               200,
			DeadlineHorizonDays: 30,
		},
		Ranking:  RankingConfig{TopK: 3, Workers: 4},
		Server:   ServerConfig{Addr: ":8080"},
		Schedule: ScheduleConfig{Cron: "0 8 * * 1"},
		Log:      LogConfig{Level: "info"},
		User:     UserConfig{ID: "default"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cadence.db"
	}
	return filepath.Join(home, ".cadence", "cadence.db")
}

// Path returns the config file to read: explicit wins, then
// CADENCE_CONFIG_PATH. An empty result means no file.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv("CADENCE_CONFIG_PATH")
}

// Load builds the configuration. A named YAML file must exist; missing
// .env files are ignored. envFiles defaults to ".env".
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	str("CADENCE_DB_PATH", &cfg.DB.Path)
	str("CADENCE_DEFERRAL_POLICY", &cfg.Capacity.DeferralPolicy)
	str("CADENCE_SIGNAL_BACKEND", &cfg.Signals.Backend)
	str("MONGODB_URI", &cfg.Signals.MongoURI)
	str("CADENCE_MONGO_URI", &cfg.Signals.MongoURI)
	str("CADENCE_MONGO_DATABASE", &cfg.Signals.MongoDatabase)
	str("CADENCE_MONGO_COLLECTION", &cfg.Signals.MongoCollection)
	str("CADENCE_SERVER_ADDR", &cfg.Server.Addr)
	str("CADENCE_SCHEDULE_CRON", &cfg.Schedule.Cron)
	str("CADENCE_LOG_LEVEL", &cfg.Log.Level)
	str("CADENCE_USER_ID", &cfg.User.ID)

	for name, dst := range map[string]*float64{
		"CADENCE_WEEKLY_HOURS":      &cfg.Capacity.WeeklyHoursAvailable,
		"CADENCE_MAX_PROJECT_HOURS": &cfg.Capacity.MaxProjectHoursPerWeek,
	} {
		if v := os.Getenv(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = f
		}
	}
	for name, dst := range map[string]*int{
		"CADENCE_RANK_TOP_K":   &cfg.Ranking.TopK,
		"CADENCE_RANK_WORKERS": &cfg.Ranking.Workers,
	} {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("CADENCE_SIGNAL_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CADENCE_SIGNAL_CACHE_TTL: %w", err)
		}
		cfg.Signals.CacheTTL = d
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Capacity.WeeklyHoursAvailable <= 0 {
		return fmt.Errorf("capacity.weekly_hours_available must be positive, got %v", c.Capacity.WeeklyHoursAvailable)
	}
	if c.Capacity.MaxProjectHoursPerWeek <= 0 {
		return fmt.Errorf("capacity.max_project_hours_per_week must be positive, got %v", c.Capacity.MaxProjectHoursPerWeek)
	}
	switch c.Capacity.DeferralPolicy {
	case "optimistic", "defer":
	default:
		return fmt.Errorf("capacity.deferral_policy must be optimistic or defer, got %q", c.Capacity.DeferralPolicy)
	}
	switch c.Signals.Backend {
	case BackendSQLite:
	case BackendMongo:
		if c.Signals.MongoURI == "" {
			return errors.New("signals.mongo_uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("signals.backend must be sqlite or mongo, got %q", c.Signals.Backend)
	}
	if c.Signals.CacheTTL <= 0 {
		return fmt.Errorf("signals.cache_ttl must be positive, got %s", c.Signals.CacheTTL)
	}
	if c.Signals.LookbackDays <= 0 || c.Signals.Limit <= 0 || c.Signals.DeadlineHorizonDays <= 0 {
		return errors.New("signals.lookback_days, limit and deadline_horizon_days must be positive")
	}
	if c.Ranking.TopK <= 0 {
		return fmt.Errorf("ranking.top_k must be positive, got %d", c.Ranking.TopK)
	}
	if c.Ranking.Workers <= 0 {
		return fmt.Errorf("ranking.workers must be positive, got %d", c.Ranking.Workers)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.User.ID == "" {
		return errors.New("user.id is required")
	}
	return nil
}

// SlogLevel returns the configured log level. Validate has already
// rejected unknown names.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all settings for the pipeline and the read API, loaded from
// environment variables. Callers are expected to godotenv.Load() before
// calling New.
type Config struct {
	RAWG     RAWGConfig
	Paths    PathsConfig
	Database DatabaseConfig
	Promote  PromoteConfig
	Server   ServerConfig
	Cache    CacheConfig
}

// RAWGConfig holds API access and pacing settings for the RAWG client.
type RAWGConfig struct {
	APIKey         string        `envconfig:"RAWG_API_KEY"`
	BaseURL        string        `envconfig:"RAWG_BASE_URL" default:"https://api.rawg.io/api"`
	PageSize       int           `envconfig:"RAWG_PAGE_SIZE" default:"40"`
	DatesFrom      string        `envconfig:"RAWG_DATES_FROM" default:"2025-09-01"`
	PageDelay      time.Duration `envconfig:"RAWG_PAGE_DELAY" default:"500ms"`
	DetailCooldown time.Duration `envconfig:"RAWG_DETAIL_COOLDOWN" default:"3s"`
	MaxAttempts    int           `envconfig:"RAWG_MAX_ATTEMPTS" default:"3"`
	RetryDelay     time.Duration `envconfig:"RAWG_RETRY_DELAY" default:"1s"`
}

// PathsConfig holds the local data directories.
type PathsConfig struct {
	RawDir      string `envconfig:"RAW_DIR" default:"data_local/raw/rawg/games"`
	DetailDir   string `envconfig:"DETAIL_DIR" default:"data_local/raw/rawg/games/details"`
	SnapshotDir string `envconfig:"SNAPSHOT_DIR" default:"data_local/temp/rawg/games"`
	ArchiveDir  string `envconfig:"ARCHIVE_DIR" default:"data_local/archive"`
}

type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL"`
}

// PromoteConfig holds settings for the promote pass and the pull-all reader.
type PromoteConfig struct {
	Force         bool `envconfig:"FORCE_PROMOTE" default:"false"`
	PullBatchSize int  `envconfig:"PULL_BATCH_SIZE" default:"1000"`
}

type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
}

type CacheConfig struct {
	Type          string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL           time.Duration `envconfig:"CACHE_TTL" default:"5m"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// New reads configuration from environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// RequireDatabase validates that a database URL was provided. The fetch pass
// runs without one, every other pass needs it.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	return nil
}

// RequireAPIKey validates that a RAWG API key was provided.
func (c *Config) RequireAPIKey() error {
	if c.RAWG.APIKey == "" {
		return fmt.Errorf("RAWG_API_KEY environment variable is not set")
	}
	return nil
}

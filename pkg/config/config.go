// Package config handles loading and managing applyscore configuration.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables (optionally loaded from a .env file).
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/applyscore/applyscore/pkg/scoring"
)

// Storage drivers.
const (
	DriverPostgres = "postgres" // lib/pq
	DriverPgx      = "pgx"      // jackc/pgx stdlib
	DriverSQLite   = "sqlite"
)

// Cache drivers.
const (
	CacheNone  = "none"
	CacheLRU   = "lru"
	CacheRedis = "redis"
)

// Archive drivers.
const (
	ArchiveNone  = "none"
	ArchiveLocal = "local"
	ArchiveS3    = "s3"
	ArchiveGCS   = "gcs"
)

// Config is the top-level configuration for applyscore.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Cache    CacheConfig    `yaml:"cache"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            string   `yaml:"port"`
	CORSOrigins     []string `yaml:"cors_origins"`
	ShutdownTimeout int      `yaml:"shutdown_timeout"` // seconds
	MaxBodyBytes    int64    `yaml:"max_body_bytes"`
}

// DatabaseConfig selects and connects the persistence backend.
type DatabaseConfig struct {
	InMemory bool   `yaml:"in_memory"`
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"` // takes precedence over the discrete fields
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolMin  int    `yaml:"pool_min"`
	PoolMax  int    `yaml:"pool_max"`
	Migrate  bool   `yaml:"migrate"` // apply migrations on startup
}

// ScoringConfig tunes the scoring engine.
type ScoringConfig struct {
	ExtraSelectionPenalty float64 `yaml:"extra_selection_penalty"`
}

// CacheConfig controls the job cache.
type CacheConfig struct {
	Driver    string `yaml:"driver"`
	Size      int    `yaml:"size"`
	RedisAddr string `yaml:"redis_addr"`
	TTL       int    `yaml:"ttl"` // seconds, 0 keeps entries forever
}

// ArchiveConfig controls where score reports are archived.
type ArchiveConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // S3-compatible endpoint override
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3000",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 15,
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			Driver:  DriverPostgres,
			Host:    "localhost",
			Port:    5432,
			Name:    "applyscore",
			User:    "postgres",
			SSLMode: "disable",
			PoolMin: 2,
			PoolMax: 10,
			Migrate: true,
		},
		Scoring: ScoringConfig{
			ExtraSelectionPenalty: scoring.DefaultExtraSelectionPenalty,
		},
		Cache: CacheConfig{
			Driver: CacheLRU,
			Size:   128,
		},
		Archive: ArchiveConfig{
			Driver: ArchiveNone,
			Path:   filepath.Join(os.TempDir(), "applyscore-reports"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from the first existing file among paths
// into the process environment. Variables already set are not overridden.
// It returns the file it loaded, or "" if none existed.
func LoadEnvFile(paths ...string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("loading %s: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

// ApplyEnv overrides settings from environment variables. Malformed numeric
// or boolean values are reported rather than silently ignored.
func (c *Config) ApplyEnv() error {
	var errs []string
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not a boolean", key, v))
				return
			}
			*dst = b
		}
	}

	str("PORT", &c.Server.Port)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}

	flag("USE_IN_MEMORY", &c.Database.InMemory)
	str("DATABASE_DRIVER", &c.Database.Driver)
	str("DATABASE_URL", &c.Database.URL)
	str("DB_HOST", &c.Database.Host)
	num("DB_PORT", &c.Database.Port)
	str("DB_NAME", &c.Database.Name)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_SSLMODE", &c.Database.SSLMode)
	num("DB_POOL_MIN", &c.Database.PoolMin)
	num("DB_POOL_MAX", &c.Database.PoolMax)
	flag("DB_MIGRATE", &c.Database.Migrate)

	if v := os.Getenv("EXTRA_SELECTION_PENALTY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("EXTRA_SELECTION_PENALTY: %q is not a number", v))
		} else {
			c.Scoring.ExtraSelectionPenalty = f
		}
	}

	str("CACHE_DRIVER", &c.Cache.Driver)
	num("CACHE_SIZE", &c.Cache.Size)
	num("CACHE_TTL", &c.Cache.TTL)
	str("REDIS_ADDR", &c.Cache.RedisAddr)

	str("ARCHIVE_DRIVER", &c.Archive.Driver)
	str("ARCHIVE_PATH", &c.Archive.Path)
	str("ARCHIVE_BUCKET", &c.Archive.Bucket)
	str("AWS_REGION", &c.Archive.Region)
	str("S3_ENDPOINT", &c.Archive.Endpoint)

	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate rejects unknown drivers and out-of-range settings.
func (c *Config) Validate() error {
	var problems []string

	if !c.Database.InMemory {
		switch c.Database.Driver {
		case DriverPostgres, DriverPgx, DriverSQLite:
		default:
			problems = append(problems, fmt.Sprintf("database.driver %q must be one of postgres, pgx, sqlite", c.Database.Driver))
		}
		if c.Database.PoolMax < 1 {
			problems = append(problems, "database.pool_max must be at least 1")
		}
		if c.Database.PoolMin > c.Database.PoolMax {
			problems = append(problems, "database.pool_min must not exceed pool_max")
		}
	}

	if p := c.Scoring.ExtraSelectionPenalty; p < 0 || p > 1 {
		problems = append(problems, "scoring.extra_selection_penalty must be between 0 and 1")
	}

	switch c.Cache.Driver {
	case CacheNone, CacheLRU:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			problems = append(problems, "cache.redis_addr is required for the redis cache")
		}
	default:
		problems = append(problems, fmt.Sprintf("cache.driver %q must be one of none, lru, redis", c.Cache.Driver))
	}

	switch c.Archive.Driver {
	case ArchiveNone:
	case ArchiveLocal:
		if c.Archive.Path == "" {
			problems = append(problems, "archive.path is required for the local archive")
		}
	case ArchiveS3, ArchiveGCS:
		if c.Archive.Bucket == "" {
			problems = append(problems, fmt.Sprintf("archive.bucket is required for the %s archive", c.Archive.Driver))
		}
	default:
		problems = append(problems, fmt.Sprintf("archive.driver %q must be one of none, local, s3, gcs", c.Archive.Driver))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be json or console", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DSN returns the connection string for the configured driver. An explicit
// URL wins; otherwise Postgres URLs are assembled from the discrete fields and
// SQLite uses Name as the file path.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverSQLite {
		if d.Name == "" {
			return "applyscore.db"
		}
		return d.Name
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	if d.User != "" {
		u.User = url.UserPassword(d.User, d.Password)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	return u.String()
}

// FindConfigFile looks for .applyscore/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".applyscore", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"180s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"180s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"180s"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envSeparator:","`

	GenerateModels       bool `env:"GENERATE_MODELS" envDefault:"false"`
	GenerateColumnReport bool `env:"GENERATE_COLUMN_REPORT" envDefault:"false"`

	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Storage  StorageConfig
}

// DatabaseConfig selects and configures the storage engine.
type DatabaseConfig struct {
	// Type is "postgres" or "sqlite".
	Type     string `env:"DB_TYPE" envDefault:"postgres"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"roster"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"roster"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// SQLitePath is used when Type is "sqlite".
	SQLitePath string `env:"SQLITE_PATH" envDefault:"roster.db"`

	// ReplicaDSNs routes read-only queries to postgres replicas.
	ReplicaDSNs []string `env:"DATABASE_REPLICA_DSNS" envSeparator:";"`

	SlowThreshold time.Duration `env:"DB_SLOW_THRESHOLD" envDefault:"10s"`
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// RedisConfig enables the facet cache when URL is set.
type RedisConfig struct {
	URL string        `env:"REDIS_URL"`
	TTL time.Duration `env:"FACET_CACHE_TTL" envDefault:"10m"`
}

// SessionConfig controls the admin login.
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	Username     string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	PasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
}

// StorageConfig enables cover image uploads when Bucket is set.
type StorageConfig struct {
	Bucket        string `env:"S3_BUCKET"`
	Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	MaxUploadMB   int64  `env:"MAX_UPLOAD_MB" envDefault:"10"`
}

// Load reads the optional .env file and parses the environment.
func Load(envFiles ...string) (Config, error) {
	// a missing .env file is fine, the process environment still applies
	_ = godotenv.Load(envFiles...)
	return Parse()
}

// Parse builds a Config from the current process environment.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Database.Type = strings.ToLower(strings.TrimSpace(cfg.Database.Type))
	return cfg, cfg.Validate()
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.Database.Type {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.Database.Type)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

// Address is the listen address for the HTTP server.
func (c Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%s", c.Port)
}

package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DBUrl       string `env:"DB_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/app.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	Timezone  string `env:"APP_TIMEZONE" envDefault:"UTC"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	MetricsEnabled bool    `env:"METRICS_ENABLED" envDefault:"true"`
	EnableDocs     bool    `env:"ENABLE_API_DOCS" envDefault:"false"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`
	CORSOrigins    string  `env:"CORS_ORIGINS" envDefault:"*"`

	DefaultAdminEmail    string `env:"DEFAULT_ADMIN_EMAIL"`
	DefaultAdminPassword string `env:"DEFAULT_ADMIN_PASSWORD"`
	DefaultAdminName     string `env:"DEFAULT_ADMIN_NAME" envDefault:"Administrator"`

	location *time.Location
}

// LoadConfig reads .env (if present) and the process environment. The result
// is suitable for the API server: JWT_SECRET must be set.
func LoadConfig() (*Config, error) {
	cfg, err := LoadStorageConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStorageConfig is LoadConfig without the server-only checks, for tools
// that only talk to the database.
func LoadStorageConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.AppEnv = normalizeEnv(c.AppEnv)
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	switch c.DBDriver {
	case DriverPostgres:
		if c.DBUrl == "" {
			return fmt.Errorf("DB_URL is required when DB_DRIVER=postgres")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func (c *Config) ValidateServer() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// Location is the zone that defines "today" for booking and scheduling rules.
func (c *Config) Location() *time.Location {
	if c == nil || c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

// DocsEnabled exposes /docs only when explicitly enabled in development.
func (c *Config) DocsEnabled() bool {
	return c != nil && c.EnableDocs && c.IsDevelopment()
}

func (c *Config) HasDefaultAdmin() bool {
	return c != nil && c.DefaultAdminEmail != "" && c.DefaultAdminPassword != ""
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

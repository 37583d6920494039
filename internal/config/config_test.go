package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/app")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, "Administrator", cfg.DefaultAdminName)
	assert.False(t, cfg.HasDefaultAdmin())
}

func TestParseSQLiteDoesNotNeedDBURL(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_URL", "")
	t.Setenv("SQLITE_PATH", "tmp/test.db")
	t.Setenv("APP_ENV", "dev")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.True(t, cfg.IsDevelopment())
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without url", env: map[string]string{"DB_DRIVER": "postgres", "DB_URL": ""}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "bad timezone", env: map[string]string{"DB_DRIVER": "sqlite", "APP_TIMEZONE": "Mars/Olympus"}},
		{name: "bad ttl", env: map[string]string{"DB_DRIVER": "sqlite", "JWT_TTL": "-1h"}},
		{name: "zero burst", env: map[string]string{"DB_DRIVER": "sqlite", "RATE_LIMIT_BURST": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestTimezoneLocation(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_TIMEZONE", "Europe/Paris")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
}

func TestValidateServerRequiresSecret(t *testing.T) {
	cfg := &Config{}
	assert.EqualError(t, cfg.ValidateServer(), "JWT_SECRET is required")

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.ValidateServer())
}

func TestNormalizeEnv(t *testing.T) {
	assert.Equal(t, "development", normalizeEnv(" Local "))
	assert.Equal(t, "staging", normalizeEnv("stage"))
	assert.Equal(t, "test", normalizeEnv("testing"))
	assert.Equal(t, "qa", normalizeEnv("QA"))
}

func TestDocsEnabledRequiresDevelopment(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "development", EnableDocs: true}).DocsEnabled())
	assert.False(t, (&Config{AppEnv: "production", EnableDocs: true}).DocsEnabled())
	assert.False(t, (&Config{AppEnv: "development"}).DocsEnabled())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("BACKEND_BASE_URL", "http://licensing.local/")
	t.Setenv("CACHE_LIST_TTL", "45s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://portal.gov, https://eservices.gov ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://licensing.local", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 45*time.Second, cfg.Cache.ListTTL)
	assert.Equal(t, []string{"https://portal.gov", "https://eservices.gov"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, int64(10*1024*1024), cfg.Storage.MaxFileSize)
}

func TestValidateProductionRules(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		Database:    DatabaseConfig{Password: "pw"},
		Backend:     BackendConfig{BaseURL: "https://licensing.gov"},
		Session:     SessionConfig{VerifySecret: "s3cret"},
		Retention:   RetentionConfig{AuditDays: 90},
	}
	require.NoError(t, cfg.Validate())

	cfg.Backend.BaseURL = "http://licensing.gov"
	assert.Error(t, cfg.Validate())

	cfg.Backend.BaseURL = "https://licensing.gov"
	cfg.Session.VerifySecret = ""
	assert.Error(t, cfg.Validate())

	cfg.Environment = "development"
	cfg.Retention.AuditDays = 0
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "svc", Password: "pw", Database: "eservice", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=eservice sslmode=disable", d.DSN())
}

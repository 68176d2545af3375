package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "APP_ENV", "NODE_ENV", "DATABASE_DRIVER", "DATABASE_URL", "REDIS_URL",
	"SESSION_SECRET", "SESSION_STORE", "AI_PROVIDER", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	"UNSPLASH_ACCESS_KEY", "S3_BUCKET", "AWS_S3_BUCKET", "AWS_REGION", "AWS_ENDPOINT_URL_S3",
	"AWS_ENDPOINT_URL", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "EMERGENCY_ADMIN",
	"ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_EMAIL", "ADMIN_FULL_NAME", "SITE_URL",
	"TRUSTED_PROXIES",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithSQLite(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  driver: sqlite\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, defaultSQLiteURL, cfg.Database.URL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "database", cfg.Session.Store)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, defaultDevSessionSecret, cfg.Session.Secret)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 2000, cfg.AI.MaxTokens)
	assert.Equal(t, "@every 4h", cfg.News.Schedule)
	assert.Equal(t, 3, cfg.News.Concurrency)
	assert.Len(t, cfg.News.Sources, 3)
	assert.False(t, cfg.Auth.EmergencyAdmin)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "http://localhost:5000", cfg.Site.URL)
}

func TestSiteConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  driver: sqlite\nsite:\n  url: https://yourbuzzfeed.com/\n  title: Buzz\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://yourbuzzfeed.com", cfg.Site.URL)
	assert.Equal(t, "Buzz", cfg.Site.Title)
	assert.Equal(t, defaultSiteDescription, cfg.Site.Description)

	t.Setenv("SITE_URL", "https://staging.yourbuzzfeed.com")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.yourbuzzfeed.com", cfg.Site.URL)
}

func TestTrustedProxies(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  driver: sqlite\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1,")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestLoadFileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: 8080
env: production
database:
  driver: postgresql
  url: postgres://u:p@db:5432/buzz
redis:
  url: cache:6379
session:
  secret: s3cret
  store: redis
  ttl: 12h
ai:
  provider: anthropic
news:
  schedule: "0 */2 * * *"
  sources:
    - name: Feed
      url: https://example.com/rss
auth:
  emergency_admin: true
allowed_origins: [" https://yourbuzzfeed.com ", ""]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "redis://cache:6379", cfg.Redis.URL)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, defaultAnthropicModel, cfg.AI.Model)
	assert.Equal(t, "0 */2 * * *", cfg.News.Schedule)
	require.Len(t, cfg.News.Sources, 1)
	assert.Equal(t, SourceKindRSS, cfg.News.Sources[0].Kind)
	assert.True(t, cfg.Auth.EmergencyAdmin)
	assert.Equal(t, []string{"https://yourbuzzfeed.com"}, cfg.AllowedOrigins)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: 8080\ndatabase:\n  driver: sqlite\n")
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/buzz")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMERGENCY_ADMIN", "true")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/buzz", cfg.Database.URL)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.True(t, cfg.Auth.EmergencyAdmin)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "admin123", cfg.Admin.Password)
}

func TestLoadMissingDefaultFileIsFine(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		body string
		env  map[string]string
	}{
		"unknown field":        {body: "bogus: 1\n"},
		"bad port":             {body: "port: 70000\ndatabase:\n  driver: sqlite\n"},
		"missing database url": {body: "database:\n  driver: postgres\n"},
		"unsupported driver":   {body: "database:\n  driver: oracle\n  url: x\n"},
		"redis store no redis": {body: "database:\n  driver: sqlite\nsession:\n  store: redis\n"},
		"production no secret": {body: "env: production\ndatabase:\n  driver: sqlite\n"},
		"bad ttl":              {body: "database:\n  driver: sqlite\nsession:\n  ttl: forever\n"},
		"bad provider":         {body: "database:\n  driver: sqlite\nai:\n  provider: llama\n"},
		"bad source kind":      {body: "database:\n  driver: sqlite\nnews:\n  sources:\n    - name: x\n      kind: ftp\n      url: x\n"},
		"bad emergency env":    {body: "database:\n  driver: sqlite\n", env: map[string]string{"EMERGENCY_ADMIN": "maybe"}},
		"bad trusted proxy":    {body: "database:\n  driver: sqlite\ntrusted_proxies: [\"proxy.local\"]\n"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := DatabaseConfig{Driver: "mysql", URL: "mysql://root:pw@db/buzz"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "root:pw@tcp(db:3306)/buzz?charset=utf8mb4&loc=Local&parseTime=True", dsn)

	raw := "root:pw@tcp(db:3306)/buzz"
	dsn, err = DatabaseConfig{Driver: "mysql", URL: raw}.DSN()
	require.NoError(t, err)
	assert.Equal(t, raw, dsn)

	_, err = DatabaseConfig{Driver: "mysql", URL: "mysql://root@db"}.DSN()
	assert.Error(t, err)

	dsn, err = DatabaseConfig{Driver: "postgres", URL: "postgres://x"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", dsn)
}

func TestResolveRuntimePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "logs")
	assert.Equal(t, abs, ResolveRuntimePath(abs+"/", "ignored"))

	rel := ResolveRuntimePath("", "logs")
	assert.True(t, filepath.IsAbs(rel))
	assert.Equal(t, "logs", filepath.Base(rel))
}

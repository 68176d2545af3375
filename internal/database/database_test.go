package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/models"
)

func TestConnectSQLiteMigrates(t *testing.T) {
	cfg := &config.AppConfig{
		Env: "test",
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			URL:         "file:" + filepath.Join(t.TempDir(), "buzz.db") + "?_busy_timeout=5000",
			AutoMigrate: true,
		},
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(&config.AppConfig{Database: config.DatabaseConfig{Driver: "oracle", URL: "x"}})
	assert.Error(t, err)
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"DISCORD_TOKEN", "DISCORD_APP_ID", "DISCORD_GUILD_ID", "DISCORD_FORCE_COMMAND_UPDATE",
	"STATS_FILE", "STATS_MOUNT_DIR", "STATS_WORK_DIR", "BACKUP_INTERVAL", "BACKUP_RETENTION",
	"LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "SERVICE_NAME", "VERSION", "PORT",
	"HTTP_RATE_LIMIT", "TRUSTED_PROXIES",
}

// clearEnvVars unsets every variable Load reads and restores them after the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads defaults when only the token is set", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DISCORD_TOKEN", "token")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "token", cfg.Discord.Token)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, DefaultStatsFile, cfg.Storage.StatsFile)
		assert.Equal(t, DefaultMountDir, cfg.Storage.MountDir)
		assert.Equal(t, DefaultWorkDir, cfg.Storage.WorkDir)
		assert.Equal(t, 6*time.Hour, cfg.Storage.BackupInterval)
		assert.Equal(t, DefaultBackupRetention, cfg.Storage.BackupRetention)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.True(t, cfg.IsDevelopment())
		assert.False(t, cfg.Discord.ForceCommandUpdate)
		assert.Equal(t, 120, cfg.HTTP.RateLimit)
		assert.Empty(t, cfg.HTTP.TrustedProxies)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("DISCORD_APP_ID", "app")
		t.Setenv("DISCORD_GUILD_ID", "guild")
		t.Setenv("DISCORD_FORCE_COMMAND_UPDATE", "true")
		t.Setenv("STATS_FILE", "guild.json")
		t.Setenv("STATS_MOUNT_DIR", "/volume")
		t.Setenv("BACKUP_INTERVAL", "30m")
		t.Setenv("BACKUP_RETENTION", "3")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("ENVIRONMENT", "prod")
		t.Setenv("PORT", "9090")
		t.Setenv("HTTP_RATE_LIMIT", "0")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "app", cfg.Discord.AppID)
		assert.Equal(t, "guild", cfg.Discord.GuildID)
		assert.True(t, cfg.Discord.ForceCommandUpdate)
		assert.Equal(t, "guild.json", cfg.Storage.StatsFile)
		assert.Equal(t, "/volume", cfg.Storage.MountDir)
		assert.Equal(t, 30*time.Minute, cfg.Storage.BackupInterval)
		assert.Equal(t, 3, cfg.Storage.BackupRetention)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, 0, cfg.HTTP.RateLimit)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.HTTP.TrustedProxies)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("returns error when DISCORD_TOKEN is missing", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "DISCORD_TOKEN")
	})

	t.Run("returns error when DISCORD_TOKEN is empty", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DISCORD_TOKEN", "")

		_, err := Load()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DISCORD_TOKEN")
	})

	t.Run("returns error for invalid PORT", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("PORT", "not-a-number")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("LOG_FORMAT", "xml")

		_, err := Load()

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("rejects zero backup retention", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("BACKUP_RETENTION", "0")

		_, err := Load()

		assert.Error(t, err)
	})
}

func TestLoadStorage(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("STATS_WORK_DIR", "/srv/guild")

	cfg, err := LoadStorage()

	require.NoError(t, err, "storage config must not require the Discord token")
	assert.Equal(t, "/srv/guild", cfg.WorkDir)
	assert.Equal(t, DefaultStatsFile, cfg.StatsFile)
}

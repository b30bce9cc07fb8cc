package config

// Environment variable names that are referenced outside struct tags
const (
	EnvDiscordToken = "DISCORD_TOKEN"
	EnvStatsFile    = "STATS_FILE"
	EnvMountDir     = "STATS_MOUNT_DIR"
	EnvWorkDir      = "STATS_WORK_DIR"
)

// Defaults
const (
	DefaultStatsFile       = "user_stats.json"
	DefaultMountDir        = "/data"
	DefaultWorkDir         = "."
	DefaultBackupRetention = 10
	DefaultPort            = 8080
)

// Error messages
const (
	ErrMsgParseEnvFailed   = "failed to parse environment: %w"
	ErrMsgValidationFailed = "invalid configuration: %w"
)

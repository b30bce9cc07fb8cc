package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Discord DiscordConfig
	Storage StorageConfig
	Log     LogConfig
	HTTP    HTTPConfig

	Port int `env:"PORT" envDefault:"8080" validate:"gte=1,lte=65535"`
}

// HTTPConfig tunes the health and metrics endpoint
type HTTPConfig struct {
	// RateLimit is the number of requests one client may make per minute; 0 disables the limit
	RateLimit      int      `env:"HTTP_RATE_LIMIT" envDefault:"120" validate:"gte=0"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// DiscordConfig holds the bot credentials and command registration settings
type DiscordConfig struct {
	Token              string `env:"DISCORD_TOKEN,required,notEmpty"`
	AppID              string `env:"DISCORD_APP_ID"`
	GuildID            string `env:"DISCORD_GUILD_ID"`
	ForceCommandUpdate bool   `env:"DISCORD_FORCE_COMMAND_UPDATE" envDefault:"false"`
}

// StorageConfig describes where the stats file lives and how it is backed up
type StorageConfig struct {
	StatsFile       string        `env:"STATS_FILE" envDefault:"user_stats.json" validate:"required"`
	MountDir        string        `env:"STATS_MOUNT_DIR" envDefault:"/data"`
	WorkDir         string        `env:"STATS_WORK_DIR" envDefault:"." validate:"required"`
	BackupInterval  time.Duration `env:"BACKUP_INTERVAL" envDefault:"6h" validate:"gte=0"`
	BackupRetention int           `env:"BACKUP_RETENTION" envDefault:"10" validate:"gte=1"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Format      string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=json text"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"guildstats-bot"`
	Version     string `env:"VERSION" envDefault:"dev"`
}

// Load loads the bot configuration from environment variables.
// DISCORD_TOKEN is required; everything else has a default.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseEnvFailed, err)
	}

	if err := validateStruct(cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgValidationFailed, err)
	}

	return cfg, nil
}

// LoadStorage loads only the storage settings. Used by offline tooling that never
// talks to Discord and therefore has no token.
func LoadStorage() (*StorageConfig, error) {
	_ = godotenv.Load()

	cfg := &StorageConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseEnvFailed, err)
	}

	if err := validateStruct(cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgValidationFailed, err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the bot runs in a dev environment
func (c *Config) IsDevelopment() bool {
	return c.Log.Environment == "dev" || c.Log.Environment == "development"
}

package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/GuildStatsBot_Go/internal/concurrency"
	"github.com/osse101/GuildStatsBot_Go/internal/config"
	"github.com/osse101/GuildStatsBot_Go/internal/discord"
	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/profile"
	"github.com/osse101/GuildStatsBot_Go/internal/scheduler"
	"github.com/osse101/GuildStatsBot_Go/internal/server"
	"github.com/osse101/GuildStatsBot_Go/internal/storage"
	"github.com/osse101/GuildStatsBot_Go/internal/validation"
	"github.com/osse101/GuildStatsBot_Go/internal/worker"
)

// Background job pool sizing
const (
	snapshotWorkers   = 1
	snapshotQueueSize = 4
)

func main() {
	// Load configuration; a missing token is the only fatal error
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.ServiceName,
		cfg.Log.Version,
		cfg.Log.Environment,
		cfg.IsDevelopment(),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	paths := storage.ResolvePaths(storage.PathOptions{
		FileName: cfg.Storage.StatsFile,
		MountDir: cfg.Storage.MountDir,
		WorkDir:  cfg.Storage.WorkDir,
		TempDir:  os.TempDir(),
	})
	validator, err := validation.NewStatsValidator()
	if err != nil {
		slog.Error("Failed to build stats validator", "error", err)
		os.Exit(1)
	}
	store := storage.New(paths,
		storage.WithRetention(cfg.Storage.BackupRetention),
		storage.WithValidator(validator.Validate),
	)

	// Schema problems are reported but never block startup; Load tolerates them
	if err := validator.ValidateFile(paths.Primary); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Stats file does not match the expected layout", "path", paths.Primary, "error", err)
	}

	initial := store.Load(ctx)
	slog.Info("Stats storage ready",
		"primary", paths.Primary,
		"on_mount", paths.OnMount,
		"records", len(initial))
	if !paths.OnMount {
		slog.Warn("Persistent volume not found, stats are stored in the working directory", "mount_dir", cfg.Storage.MountDir)
	}

	svc := profile.NewService(store, concurrency.NewLockManager(), paths.Primary)

	// Periodic snapshots
	pool := worker.NewPool(snapshotWorkers, snapshotQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	if sched.Schedule(cfg.Storage.BackupInterval, worker.NewSnapshotJob(store)) {
		slog.Info("Scheduled snapshots enabled", "interval", cfg.Storage.BackupInterval, "retention", cfg.Storage.BackupRetention)
	}

	// Create bot
	bot, err := discord.New(discord.Config{
		Token:   cfg.Discord.Token,
		AppID:   cfg.Discord.AppID,
		GuildID: cfg.Discord.GuildID,
		Service: svc,
	})
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}
	bot.RegisterDefaultCommands()

	limiter := server.NewRateLimiter(cfg.HTTP.RateLimit, server.DefaultRateWindow, cfg.HTTP.TrustedProxies)
	httpServer := discord.NewHTTPServer(cfg.Port, bot, limiter)
	httpServer.Start()

	if err := bot.Start(); err != nil {
		slog.Error("Bot failed", "error", err)
		os.Exit(1)
	}

	if cfg.Discord.ForceCommandUpdate {
		slog.Info("Force command update enabled via environment variable")
	}
	if err := bot.RegisterCommands(bot.Registry, cfg.Discord.ForceCommandUpdate); err != nil {
		slog.Error("Failed to register commands", "error", err)
		// Don't exit - bot can still run if commands are already registered
	}

	<-ctx.Done()
	slog.Info("Shutting down")

	bot.Stop()
	sched.Stop()
	pool.Stop()
	httpServer.Stop(context.Background())

	// Leave a snapshot of the final state behind
	if res, err := store.Snapshot(context.Background()); err != nil {
		slog.Warn("Final snapshot failed", "error", err)
	} else {
		slog.Info("Final snapshot written", "path", res.Path)
	}
}

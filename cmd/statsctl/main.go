// statsctl - offline inspection and maintenance of the guild stats file
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/osse101/GuildStatsBot_Go/internal/config"
	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/stats"
	"github.com/osse101/GuildStatsBot_Go/internal/storage"
	"github.com/osse101/GuildStatsBot_Go/internal/validation"
)

var version = "dev"

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	// Keep the CLI output clean; only warnings and errors from the store are shown
	logger.InitLoggerWithWriter(logger.NewConfig("warn", "text", "statsctl", version, "cli", false), os.Stderr)

	err := run(context.Background(), os.Args[1], os.Args[2:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		printUsage(os.Stderr)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: statsctl <command> [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  info                          Show where the stats file lives and its state")
	fmt.Fprintln(w, "  backup                        Write a timestamped snapshot now")
	fmt.Fprintln(w, "  snapshots                     List snapshots, newest first")
	fmt.Fprintln(w, "  restore <path>                Replace the stats file with a backup or snapshot")
	fmt.Fprintln(w, "  validate [path]               Check a stats file against the expected layout")
	fmt.Fprintln(w, "  leaderboard [--top N] [--page N]")
	fmt.Fprintln(w, "                                Show the ranking (default: first page of 15)")
	fmt.Fprintln(w, "  export [--format json|yaml]   Print the whole database")
	fmt.Fprintln(w, "  version                       Show version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fmt.Fprintln(w, "  --file <name>      Stats file name (default from STATS_FILE)")
	fmt.Fprintln(w, "  --mount <dir>      Persistent volume directory (default from STATS_MOUNT_DIR)")
	fmt.Fprintln(w, "  --workdir <dir>    Fallback directory (default from STATS_WORK_DIR)")
}

// run dispatches one subcommand and writes its output to out
func run(ctx context.Context, command string, args []string, out io.Writer) error {
	switch command {
	case "info":
		return cmdInfo(args, out)
	case "backup":
		return cmdBackup(ctx, args, out)
	case "snapshots":
		return cmdSnapshots(args, out)
	case "restore":
		return cmdRestore(ctx, args, out)
	case "validate":
		return cmdValidate(args, out)
	case "leaderboard":
		return cmdLeaderboard(ctx, args, out)
	case "export":
		return cmdExport(ctx, args, out)
	case "version":
		fmt.Fprintln(out, "statsctl", version)
		return nil
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

// storeFlags registers the global storage flags, defaulting to the environment
type storeFlags struct {
	file    *string
	mount   *string
	workdir *string
	keep    *int
}

func newFlagSet(name string) (*flag.FlagSet, *storeFlags) {
	defaults, err := config.LoadStorage()
	if err != nil {
		defaults = &config.StorageConfig{
			StatsFile:       config.DefaultStatsFile,
			MountDir:        config.DefaultMountDir,
			WorkDir:         config.DefaultWorkDir,
			BackupRetention: config.DefaultBackupRetention,
		}
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	sf := &storeFlags{
		file:    fs.String("file", defaults.StatsFile, "stats file name"),
		mount:   fs.String("mount", defaults.MountDir, "persistent volume directory"),
		workdir: fs.String("workdir", defaults.WorkDir, "fallback directory when the volume is absent"),
		keep:    fs.Int("keep", defaults.BackupRetention, "snapshots to keep when writing a new one"),
	}
	return fs, sf
}

func (sf *storeFlags) paths() storage.Paths {
	return storage.ResolvePaths(storage.PathOptions{
		FileName: *sf.file,
		MountDir: *sf.mount,
		WorkDir:  *sf.workdir,
		TempDir:  os.TempDir(),
	})
}

// open builds a store that refuses to restore files failing validation
func (sf *storeFlags) open() (*storage.Store, error) {
	validator, err := validation.NewStatsValidator()
	if err != nil {
		return nil, err
	}
	return storage.New(sf.paths(),
		storage.WithRetention(*sf.keep),
		storage.WithValidator(validator.Validate),
	), nil
}

func cmdInfo(args []string, out io.Writer) error {
	fs, sf := newFlagSet("info")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := sf.open()
	if err != nil {
		return err
	}
	info := store.Info()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Primary:\t%s\n", info.Primary)
	fmt.Fprintf(w, "On volume:\t%t\n", info.OnMount)
	fmt.Fprintf(w, "Exists:\t%t\n", info.Exists)
	fmt.Fprintf(w, "Readable:\t%t\n", info.Readable)
	fmt.Fprintf(w, "Records:\t%d\n", info.Records)
	fmt.Fprintf(w, "Size:\t%d bytes\n", info.Size)
	if !info.ModifiedAt.IsZero() {
		fmt.Fprintf(w, "Modified:\t%s\n", info.ModifiedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Rolling backup:\t%t\n", info.BackupExists)
	fmt.Fprintf(w, "Snapshot dir:\t%s\n", info.BackupDir)
	fmt.Fprintf(w, "Snapshots:\t%d\n", info.Snapshots)
	if info.Snapshots > 0 {
		fmt.Fprintf(w, "Latest snapshot:\t%s\n", info.LatestSnapshot.UTC().Format(time.RFC3339))
	}
	for _, p := range info.Emergency {
		fmt.Fprintf(w, "Emergency:\t%s\n", p)
	}
	return w.Flush()
}

func cmdBackup(ctx context.Context, args []string, out io.Writer) error {
	fs, sf := newFlagSet("backup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := sf.open()
	if err != nil {
		return err
	}
	result, err := store.Snapshot(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Snapshot written:", result.Path)
	return nil
}

func cmdSnapshots(args []string, out io.Writer) error {
	fs, sf := newFlagSet("snapshots")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := sf.open()
	if err != nil {
		return err
	}
	snaps, err := store.Snapshots()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(out, "No snapshots.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSIZE\tPATH")
	fmt.Fprintln(w, "-------\t----\t----")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.CreatedAt.UTC().Format(time.RFC3339), s.Size, s.Path)
	}
	return w.Flush()
}

func cmdRestore(ctx context.Context, args []string, out io.Writer) error {
	fs, sf := newFlagSet("restore")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: restore needs exactly one backup path", errUsage)
	}

	store, err := sf.open()
	if err != nil {
		return err
	}
	db, err := store.Restore(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Restored %d records from %s\n", len(db), fs.Arg(0))
	return nil
}

func cmdValidate(args []string, out io.Writer) error {
	fs, sf := newFlagSet("validate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: validate takes at most one path", errUsage)
	}

	path := sf.paths().Primary
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}

	validator, err := validation.NewStatsValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateFile(path); err != nil {
		return err
	}
	fmt.Fprintln(out, "OK:", path)
	return nil
}

func cmdLeaderboard(ctx context.Context, args []string, out io.Writer) error {
	fs, sf := newFlagSet("leaderboard")
	top := fs.Int("top", stats.DefaultPageSize, "entries per page")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := sf.open()
	if err != nil {
		return err
	}
	db := store.Load(ctx)
	result := stats.Paginate(stats.Rank(db), *top, *page)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPLAYER\tTOTAL\tATK\tDEF\tACC\tCLASS")
	fmt.Fprintln(w, "----\t------\t-----\t---\t---\t---\t-----")
	for idx, e := range result.Entries {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			result.Offset+idx+1, playerName(e), e.TotalScore,
			e.Record.Attack, e.Record.Defense, e.Record.Accuracy, e.Record.ClassName())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPage %d/%d, %d players\n", result.Number, result.TotalPages, result.TotalCount)
	return nil
}

func playerName(e stats.RankedEntry) string {
	switch {
	case e.Record.DisplayName != "":
		return e.Record.DisplayName
	case e.Record.Username != "":
		return e.Record.Username
	default:
		return e.UserID
	}
}

func cmdExport(ctx context.Context, args []string, out io.Writer) error {
	fs, sf := newFlagSet("export")
	format := fs.String("format", "json", "output format: json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := sf.open()
	if err != nil {
		return err
	}
	return export(out, store.Load(ctx), *format)
}

func export(out io.Writer, db domain.StatsDatabase, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(db)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(db); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, format)
	}
}

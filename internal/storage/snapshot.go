package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/metrics"
)

// SnapshotInfo describes one timestamped snapshot on disk
type SnapshotInfo struct {
	Path      string
	Name      string
	Size      int64
	CreatedAt time.Time
}

// Info summarizes the storage state for operators
type Info struct {
	Primary        string
	OnMount        bool
	Exists         bool
	Readable       bool
	Size           int64
	ModifiedAt     time.Time
	Records        int
	BackupExists   bool
	BackupDir      string
	Snapshots      int
	LatestSnapshot time.Time
	Emergency      []string
}

// Snapshot writes a gzip-compressed, timestamped copy of the current primary file into
// the backup directory and prunes snapshots beyond the retention count.
func (s *Store) Snapshot(ctx context.Context) (BackupResult, error) {
	log := logger.FromContext(ctx)

	if s.paths.BackupDir == "" {
		return BackupResult{}, domain.ErrSnapshotsDisabled
	}

	// Only snapshot content that decodes; a corrupt primary would just rotate out a good snapshot.
	db, err := readDatabase(s.paths.Primary)
	if err != nil {
		return BackupResult{}, fmt.Errorf(ErrMsgNothingToSnapshot, domain.ErrStorageUnreadable, s.paths.Primary, err)
	}
	raw, err := os.ReadFile(s.paths.Primary)
	if err != nil {
		return BackupResult{}, fmt.Errorf(ErrMsgReadFailed, s.paths.Primary, err)
	}

	if err := os.MkdirAll(s.paths.BackupDir, DirMode); err != nil {
		return BackupResult{}, fmt.Errorf(ErrMsgCreateDirFailed, s.paths.BackupDir, err)
	}

	name := s.paths.snapshotPrefix() + s.now().UTC().Format(SnapshotTimeFormat) + SnapshotExt
	path := filepath.Join(s.paths.BackupDir, name)

	err = s.writeAtomic(path, func(w io.Writer) error {
		zw := gzip.NewWriter(w)
		if _, err := zw.Write(raw); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	})
	metrics.BackupAttempts.WithLabelValues(metrics.KindSnapshot, metrics.ResultLabel(err)).Inc()

	result := BackupResult{Path: path, Err: err}
	if err != nil {
		return result, err
	}

	log.Info(LogMsgSnapshotWritten, "path", path, "records", len(db))
	s.prune(ctx)
	return result, nil
}

// Snapshots lists timestamped snapshots, newest first. A missing backup directory
// yields an empty list.
func (s *Store) Snapshots() ([]SnapshotInfo, error) {
	if s.paths.BackupDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(s.paths.BackupDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(ErrMsgListSnapshots, s.paths.BackupDir, err)
	}

	prefix := s.paths.snapshotPrefix()
	var snaps []SnapshotInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, SnapshotExt) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), SnapshotExt)
		createdAt, err := time.Parse(SnapshotTimeFormat, stamp)
		if err != nil {
			continue
		}

		info := SnapshotInfo{
			Path:      filepath.Join(s.paths.BackupDir, name),
			Name:      name,
			CreatedAt: createdAt,
		}
		if fi, err := entry.Info(); err == nil {
			info.Size = fi.Size()
		}
		snaps = append(snaps, info)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps, nil
}

// Restore replaces the live database with the content of a backup file
func (s *Store) Restore(ctx context.Context, path string) (domain.StatsDatabase, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if s.validate != nil {
		if err := s.validate(raw); err != nil {
			return nil, fmt.Errorf(ErrMsgRestoreRejected, domain.ErrInvalidStatsFile, path, err)
		}
	}
	db, err := decodeDatabase(path, raw)
	if err != nil {
		return nil, err
	}
	if !s.Save(ctx, db) {
		return nil, fmt.Errorf(ErrMsgRestoreFailed, domain.ErrStorageWriteFailed, path)
	}
	return db, nil
}

// Info reports where the database lives and what is on disk
func (s *Store) Info() Info {
	info := Info{
		Primary:   s.paths.Primary,
		OnMount:   s.paths.OnMount,
		BackupDir: s.paths.BackupDir,
		Emergency: s.paths.Emergency,
	}

	if fi, err := os.Stat(s.paths.Primary); err == nil {
		info.Exists = true
		info.Size = fi.Size()
		info.ModifiedAt = fi.ModTime()
	}
	if db, err := readDatabase(s.paths.Primary); err == nil {
		info.Readable = true
		info.Records = len(db)
	}
	if _, err := os.Stat(s.paths.BackupPath()); err == nil {
		info.BackupExists = true
	}
	if snaps, err := s.Snapshots(); err == nil && len(snaps) > 0 {
		info.Snapshots = len(snaps)
		info.LatestSnapshot = snaps[0].CreatedAt
	}

	return info
}

// prune removes snapshots beyond the retention count, oldest first
func (s *Store) prune(ctx context.Context) {
	log := logger.FromContext(ctx)

	snaps, err := s.Snapshots()
	if err != nil || len(snaps) <= s.retention {
		return
	}

	for _, snap := range snaps[s.retention:] {
		if err := os.Remove(snap.Path); err != nil {
			log.Warn(LogMsgSnapshotPruneFailed, "path", snap.Path, "error", err)
			continue
		}
		log.Debug(LogMsgSnapshotPruned, "path", snap.Path)
	}
}

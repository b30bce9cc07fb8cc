package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/metrics"
)

// BackupResult reports the outcome of a single best-effort backup write
type BackupResult struct {
	Path string
	Err  error
}

// OK reports whether the backup was written
func (r BackupResult) OK() bool {
	return r.Err == nil
}

// Store persists the stats database as a JSON file with atomic replace,
// a rolling .backup copy, timestamped snapshots and emergency copies.
//
// Store performs no locking. Two callers running load-mutate-save at the same time
// race and the last save wins; callers serialize mutations themselves.
type Store struct {
	paths     Paths
	retention int
	now       func() time.Time

	// validate checks raw content before Restore adopts it
	validate func([]byte) error

	// beforeRename runs between writing the temp file and renaming it into place.
	// Tests use it to simulate a crash at that point.
	beforeRename func(tmpPath string) error
}

// Option configures a Store
type Option func(*Store)

// WithRetention sets how many timestamped snapshots are kept
func WithRetention(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithClock overrides the time source used for snapshot names
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithValidator makes Restore reject content that validate refuses
func WithValidator(validate func([]byte) error) Option {
	return func(s *Store) {
		s.validate = validate
	}
}

// New creates a Store over already-resolved paths
func New(paths Paths, opts ...Option) *Store {
	s := &Store{
		paths:     paths,
		retention: DefaultSnapshotRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the locations this store was built with
func (s *Store) Paths() Paths {
	return s.paths
}

// Load returns the current database. It never fails: an unreadable primary falls back
// through the backup candidates, and the first one that decodes is written back to the
// primary location. With nothing readable an empty database is returned.
func (s *Store) Load(ctx context.Context) domain.StatsDatabase {
	log := logger.FromContext(ctx)

	db, err := readDatabase(s.paths.Primary)
	if err == nil {
		log.Debug(LogMsgLoadedPrimary, "path", s.paths.Primary, "records", len(db))
		metrics.StoreLoads.WithLabelValues(metrics.SourcePrimary).Inc()
		metrics.StatsRecords.Set(float64(len(db)))
		return db
	}

	if errors.Is(err, fs.ErrNotExist) {
		log.Info(LogMsgPrimaryMissing, "path", s.paths.Primary)
	} else {
		log.Warn(LogMsgPrimaryUnreadable, "path", s.paths.Primary, "error", fmt.Errorf("%w: %v", domain.ErrStorageUnreadable, err))
	}

	for _, candidate := range s.backupCandidates() {
		db, err := readDatabase(candidate)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn(LogMsgBackupUnreadable, "path", candidate, "error", err)
			}
			continue
		}

		log.Warn(LogMsgAdoptedBackup, "path", candidate, "records", len(db))
		if !s.Save(ctx, db) {
			log.Error(LogMsgAdoptPersistFailed, "path", s.paths.Primary)
		}
		metrics.StoreLoads.WithLabelValues(metrics.SourceBackup).Inc()
		metrics.StatsRecords.Set(float64(len(db)))
		return db
	}

	log.Warn(LogMsgStartingFresh, "path", s.paths.Primary)
	metrics.StoreLoads.WithLabelValues(metrics.SourceEmpty).Inc()
	metrics.StatsRecords.Set(0)
	return domain.StatsDatabase{}
}

// Save writes db durably and reports success. On failure the previous primary content
// is left untouched and no temp file remains.
func (s *Store) Save(ctx context.Context, db domain.StatsDatabase) bool {
	log := logger.FromContext(ctx)

	err := s.save(db)
	metrics.StoreSaves.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		log.Error(LogMsgSaveFailed, "path", s.paths.Primary, "error", err)
		return false
	}

	log.Debug(LogMsgSaved, "path", s.paths.Primary, "records", len(db))
	return true
}

func (s *Store) save(db domain.StatsDatabase) error {
	if db == nil {
		db = domain.StatsDatabase{}
	}

	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf(ErrMsgEncodeFailed, err)
	}

	dir := filepath.Dir(s.paths.Primary)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf(ErrMsgCreateDirFailed, dir, err)
	}

	rotated, err := s.rotateBackup()
	if err != nil {
		metrics.BackupAttempts.WithLabelValues(metrics.KindRolling, metrics.ResultFailure).Inc()
		return fmt.Errorf(ErrMsgBackupCopyFailed, s.paths.Primary, err)
	}
	if rotated {
		metrics.BackupAttempts.WithLabelValues(metrics.KindRolling, metrics.ResultSuccess).Inc()
	}

	return s.writeAtomic(s.paths.Primary, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// EmergencyBackup writes db to every emergency location. Each attempt is reported;
// none of them can fail the caller.
func (s *Store) EmergencyBackup(ctx context.Context, db domain.StatsDatabase) []BackupResult {
	log := logger.FromContext(ctx)

	if db == nil {
		db = domain.StatsDatabase{}
	}

	results := make([]BackupResult, 0, len(s.paths.Emergency))
	data, err := json.MarshalIndent(db, "", "  ")
	for _, path := range s.paths.Emergency {
		result := BackupResult{Path: path, Err: err}
		if err == nil {
			if mkErr := os.MkdirAll(filepath.Dir(path), DirMode); mkErr != nil {
				result.Err = fmt.Errorf(ErrMsgCreateDirFailed, filepath.Dir(path), mkErr)
			} else {
				result.Err = s.writeAtomic(path, func(w io.Writer) error {
					_, werr := w.Write(data)
					return werr
				})
			}
		}

		metrics.BackupAttempts.WithLabelValues(metrics.KindEmergency, metrics.ResultLabel(result.Err)).Inc()
		if result.Err != nil {
			log.Warn(LogMsgEmergencyBackupFailed, "path", path, "error", result.Err)
		} else {
			log.Info(LogMsgEmergencyBackupDone, "path", path, "records", len(db))
		}
		results = append(results, result)
	}

	return results
}

// writeAtomic streams content into <path>.tmp, syncs it and renames it over path.
// The temp file is removed on any error.
func (s *Store) writeAtomic(path string, write func(io.Writer) error) (err error) {
	tmpPath := path + TmpSuffix

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FileMode)
	if err != nil {
		return fmt.Errorf(ErrMsgWriteTempFailed, tmpPath, err)
	}

	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				logger.Warn(LogMsgTempCleanupFailed, "path", tmpPath, "error", rmErr)
			}
		}
	}()

	if err = write(f); err != nil {
		f.Close()
		return fmt.Errorf(ErrMsgWriteTempFailed, tmpPath, err)
	}
	if err = f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf(ErrMsgWriteTempFailed, tmpPath, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf(ErrMsgWriteTempFailed, tmpPath, err)
	}

	if s.beforeRename != nil {
		if err = s.beforeRename(tmpPath); err != nil {
			return fmt.Errorf(ErrMsgRenameFailed, path, err)
		}
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf(ErrMsgRenameFailed, path, err)
	}

	syncDir(filepath.Dir(path))
	return nil
}

// backupCandidates lists fallback sources in the order they are tried
func (s *Store) backupCandidates() []string {
	candidates := []string{s.paths.BackupPath()}
	if snaps, err := s.Snapshots(); err == nil {
		for _, snap := range snaps {
			candidates = append(candidates, snap.Path)
		}
	}
	return append(candidates, s.paths.Emergency...)
}

// ReadFile returns the JSON content of a stats file, transparently gunzipping snapshots
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadFailed, path, err)
	}
	if !strings.HasSuffix(path, SnapshotExt) {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeFailed, path, err)
	}
	defer zr.Close()
	raw, err = io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeFailed, path, err)
	}
	return raw, nil
}

// readDatabase decodes a stats file.
// Totals are recomputed so the total invariant holds for whatever was on disk.
func readDatabase(path string) (domain.StatsDatabase, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeDatabase(path, raw)
}

func decodeDatabase(path string, raw []byte) (domain.StatsDatabase, error) {
	var db domain.StatsDatabase
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf(ErrMsgDecodeFailed, path, err)
	}
	if db == nil {
		db = domain.StatsDatabase{}
	}

	for id, rec := range db {
		rec.Recompute()
		db[id] = rec
	}
	return db, nil
}

// rotateBackup atomically replaces the rolling backup with the current primary. A primary
// that is missing or does not decode is skipped, so a corrupt file never overwrites the
// last good backup.
func (s *Store) rotateBackup() (bool, error) {
	raw, err := ReadFile(s.paths.Primary)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := decodeDatabase(s.paths.Primary, raw); err != nil {
		logger.Warn(LogMsgBackupRotationSkipped, "path", s.paths.Primary, "error", err)
		return false, nil
	}

	err = s.writeAtomic(s.paths.BackupPath(), func(w io.Writer) error {
		_, werr := w.Write(raw)
		return werr
	})
	return err == nil, err
}

// syncDir flushes a directory entry after a rename; not every platform supports it
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

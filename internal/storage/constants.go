package storage

import "os"

// File naming
const (
	TmpSuffix       = ".tmp"
	BackupSuffix    = ".backup"
	EmergencySuffix = ".emergency"
	SnapshotExt     = ".json.gz"
	SnapshotDirName = "backups"

	// SnapshotTimeFormat sorts lexicographically in chronological order
	SnapshotTimeFormat = "20060102T150405.000Z"
)

// File permissions
const (
	FileMode os.FileMode = 0o644
	DirMode  os.FileMode = 0o755
)

// DefaultSnapshotRetention is used when a store is built with a non-positive retention
const DefaultSnapshotRetention = 10

// Error messages
const (
	ErrMsgReadFailed        = "failed to read %s: %w"
	ErrMsgDecodeFailed      = "failed to decode %s: %w"
	ErrMsgEncodeFailed      = "failed to encode stats: %w"
	ErrMsgCreateDirFailed   = "failed to create directory %s: %w"
	ErrMsgBackupCopyFailed  = "failed to copy %s to backup: %w"
	ErrMsgWriteTempFailed   = "failed to write %s: %w"
	ErrMsgRenameFailed      = "failed to replace %s: %w"
	ErrMsgListSnapshots     = "failed to list snapshots in %s: %w"
	ErrMsgNothingToSnapshot = "%w: primary file %s cannot be snapshotted: %v"
	ErrMsgRestoreFailed     = "%w: restore from %s not persisted"
	ErrMsgRestoreRejected   = "%w: %s: %v"
)

// Log messages
const (
	LogMsgLoadedPrimary         = "Loaded stats database"
	LogMsgPrimaryMissing        = "Stats file not found, checking backups"
	LogMsgPrimaryUnreadable     = "Error loading stats, checking backups"
	LogMsgBackupUnreadable      = "Backup candidate unreadable"
	LogMsgAdoptedBackup         = "Recovered stats database from backup"
	LogMsgAdoptPersistFailed    = "Recovered backup could not be written to primary location"
	LogMsgStartingFresh         = "No readable stats or backups found, starting fresh"
	LogMsgSaved                 = "Stats database saved"
	LogMsgSaveFailed            = "Error saving stats"
	LogMsgTempCleanupFailed     = "Failed to remove temporary stats file"
	LogMsgBackupRotationSkipped = "Stats file does not decode, keeping previous backup"
	LogMsgEmergencyBackupFailed = "Emergency backup failed"
	LogMsgEmergencyBackupDone   = "Emergency backup written"
	LogMsgSnapshotWritten       = "Stats snapshot written"
	LogMsgSnapshotPruned        = "Old stats snapshot removed"
	LogMsgSnapshotPruneFailed   = "Failed to remove old stats snapshot"
)

package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// PathOptions are the raw inputs to location resolution
type PathOptions struct {
	// FileName is the base name of the stats file, e.g. user_stats.json
	FileName string
	// MountDir is the durable volume preferred when it exists
	MountDir string
	// WorkDir is the process-local fallback directory
	WorkDir string
	// TempDir hosts the last-resort emergency copy; defaults to os.TempDir()
	TempDir string
}

// Paths is the resolved, immutable set of storage locations for one process.
type Paths struct {
	Primary   string
	BackupDir string
	Emergency []string
	OnMount   bool
}

// ResolvePaths decides once where the stats file lives: the mount directory when it is
// present, the working directory otherwise.
func ResolvePaths(opts PathOptions) Paths {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	dir := workDir
	onMount := false
	if opts.MountDir != "" {
		if info, err := os.Stat(opts.MountDir); err == nil && info.IsDir() {
			dir = opts.MountDir
			onMount = true
		}
	}

	primary := filepath.Join(dir, opts.FileName)

	var emergency []string
	seen := map[string]bool{primary: true}
	for _, candidate := range []string{
		filepath.Join(workDir, opts.FileName+EmergencySuffix),
		filepath.Join(tempDir, opts.FileName+EmergencySuffix),
	} {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		emergency = append(emergency, candidate)
	}

	return Paths{
		Primary:   primary,
		BackupDir: filepath.Join(dir, SnapshotDirName),
		Emergency: emergency,
		OnMount:   onMount,
	}
}

// TempPath is the transient sibling written before the atomic replace
func (p Paths) TempPath() string {
	return p.Primary + TmpSuffix
}

// BackupPath holds the previous durable content of the primary
func (p Paths) BackupPath() string {
	return p.Primary + BackupSuffix
}

// snapshotPrefix is the file name prefix shared by every timestamped snapshot
func (p Paths) snapshotPrefix() string {
	base := filepath.Base(p.Primary)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-"
}

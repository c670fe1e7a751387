package fileio

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/models"
)

// LogFile is a discovered usage log
type LogFile struct {
	Path      string
	SessionID string
	ModTime   time.Time
	Size      int64
}

// epoch is the modification time assigned to files whose metadata cannot be read,
// so they sort after every readable file.
var epoch = time.Unix(0, 0).UTC()

// DiscoverLogFiles recursively finds every .jsonl file under root, newest-modified first.
// Unreadable entries below root are logged and skipped.
func DiscoverLogFiles(root string) ([]LogFile, error) {
	files, walkErrs, err := discoverLogFiles(root, models.LogFileExtension)
	for _, werr := range walkErrs {
		logging.LogWarnf("discovery: %v", werr)
	}
	return files, err
}

// discoverLogFiles walks root for files with the given extension.
// Only a failure on root itself is returned as an error.
func discoverLogFiles(root, ext string) ([]LogFile, []*errors.FileError, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil, errors.NewFileError(root, errors.OpStat, errors.ErrDataDirNotFound)
	}

	var files []LogFile
	var walkErrs []*errors.FileError

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			walkErrs = append(walkErrs, errors.NewFileError(path, errors.OpWalk, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}

		file := LogFile{
			Path:      path,
			SessionID: SessionIDFromPath(path),
			ModTime:   epoch,
		}
		if fi, statErr := d.Info(); statErr == nil {
			file.ModTime = fi.ModTime()
			file.Size = fi.Size()
		} else {
			// still read; a real failure surfaces as a read error
			logging.LogDebugf("discovery: no metadata for %s: %v", path, statErr)
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, walkErrs, errors.NewFileError(root, errors.OpWalk, err)
	}

	SortNewestFirst(files)
	return files, walkErrs, nil
}

// SortNewestFirst orders files by modification time, newest first, then by path
func SortNewestFirst(files []LogFile) {
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Path < files[j].Path
	})
}

// DiscoverDataRoots returns the conventional data roots on this platform that exist
// and contain at least one log file.
func DiscoverDataRoots() []string {
	var roots []string
	for _, candidate := range defaultSearchPaths() {
		if hasLogFiles(candidate) {
			roots = append(roots, candidate)
		}
	}
	return roots
}

func defaultSearchPaths() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join(homeDir, ".claude", "projects"),
			filepath.Join(homeDir, ".config", "claude", "projects"),
			filepath.Join(homeDir, "Library", "Application Support", "claude", "projects"),
		}
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(homeDir, "AppData", "Roaming")
		}
		return []string{
			filepath.Join(homeDir, ".claude", "projects"),
			filepath.Join(appData, "claude", "projects"),
		}
	default:
		return []string{
			filepath.Join(homeDir, ".claude", "projects"),
			filepath.Join(homeDir, ".config", "claude", "projects"),
			filepath.Join(homeDir, ".local", "share", "claude", "projects"),
		}
	}
}

// hasLogFiles reports whether dir contains a log file within its first two levels
func hasLogFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			if strings.HasSuffix(entry.Name(), models.LogFileExtension) {
				return true
			}
			continue
		}
		sub, err := os.ReadDir(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		for _, s := range sub {
			if !s.IsDir() && strings.HasSuffix(s.Name(), models.LogFileExtension) {
				return true
			}
		}
	}
	return false
}

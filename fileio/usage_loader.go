package fileio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/models"
)

// FileResult is the outcome of scanning one log file
type FileResult struct {
	FilePath    string
	SessionID   string
	Records     []models.UsageRecord
	LineErrors  []*errors.LineError
	Lines       int
	Skipped     int // Lines without billable usage
	Duplicates  int
	Error       error // Set when the file itself could not be read
	ProcessTime time.Duration
}

// LoadResult is the outcome of one full load
type LoadResult struct {
	Records         []models.UsageRecord
	FilesDiscovered int
	FilesProcessed  int
	FileErrors      []*errors.FileError
	LineErrors      []*errors.LineError
	Duplicates      int
	Skipped         int
	Errors          *errors.ErrorMetrics
	Duration        time.Duration
}

// scannedFile holds extraction output for one file before deduplication
type scannedFile struct {
	file       LogFile
	candidates []models.UsageRecord
	lineErrors []*errors.LineError
	lines      int
	skipped    int
	err        error
	elapsed    time.Duration
}

// ProcessFile reads path and scans it with the shared dedup state
func ProcessFile(path string, dedup *Deduplicator) *FileResult {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return &FileResult{
			FilePath:    path,
			SessionID:   SessionIDFromPath(path),
			Error:       errors.NewFileError(path, errors.OpRead, err),
			ProcessTime: time.Since(start),
		}
	}

	scan := extractLines(data, LogFile{Path: path, SessionID: SessionIDFromPath(path)})
	result := applyDedup(scan, dedup)
	result.ProcessTime = time.Since(start)
	return result
}

// ProcessLines scans a log stream line by line, resetting the per-file dedup set first
func ProcessLines(r io.Reader, path, sessionID string, dedup *Deduplicator) (*FileResult, error) {
	start := time.Now()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewFileError(path, errors.OpRead, err)
	}

	scan := extractLines(data, LogFile{Path: path, SessionID: sessionID})
	result := applyDedup(scan, dedup)
	result.ProcessTime = time.Since(start)
	return result, nil
}

// readAndExtract is the parallel half of a load: it touches no shared state
func readAndExtract(file LogFile) scannedFile {
	start := time.Now()
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return scannedFile{
			file:    file,
			err:     errors.NewFileError(file.Path, errors.OpRead, err),
			elapsed: time.Since(start),
		}
	}

	scan := extractLines(data, file)
	scan.elapsed = time.Since(start)
	return scan
}

// extractLines runs the extractor over every non-blank line. Line numbers start at 1.
func extractLines(data []byte, file LogFile) scannedFile {
	scan := scannedFile{file: file}

	lineNum := 0
	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		lineNum++

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		scan.lines++

		record, err := ExtractRecord(line, file.SessionID)
		if err != nil {
			scan.lineErrors = append(scan.lineErrors, errors.NewLineError(file.Path, lineNum, lineReason(err), err))
			continue
		}
		if record == nil {
			scan.skipped++
			continue
		}
		scan.candidates = append(scan.candidates, *record)
	}

	return scan
}

func lineReason(err error) string {
	switch {
	case errors.Is(err, errors.ErrInvalidJSON):
		return "parse"
	case errors.Is(err, errors.ErrInvalidTimestamp):
		return "timestamp"
	case errors.Is(err, errors.ErrMissingMessage):
		return "message"
	case errors.Is(err, errors.ErrInvalidRecord):
		return "record"
	default:
		return ""
	}
}

// applyDedup is the sequential half: candidates are checked in line order
func applyDedup(scan scannedFile, dedup *Deduplicator) *FileResult {
	result := &FileResult{
		FilePath:    scan.file.Path,
		SessionID:   scan.file.SessionID,
		LineErrors:  scan.lineErrors,
		Lines:       scan.lines,
		Skipped:     scan.skipped,
		Error:       scan.err,
		ProcessTime: scan.elapsed,
	}
	if scan.err != nil {
		return result
	}

	dedup.ResetFile()
	result.Records = make([]models.UsageRecord, 0, len(scan.candidates))
	for _, record := range scan.candidates {
		if dedup.Seen(record.MessageID, record.RequestID) {
			result.Duplicates++
			continue
		}
		result.Records = append(result.Records, record)
	}

	if len(result.LineErrors) > 0 || result.Duplicates > 0 {
		logging.LogDebugf("%s: %d records, %d duplicates, %d bad lines",
			result.FilePath, len(result.Records), result.Duplicates, len(result.LineErrors))
	}
	return result
}

// Summary returns a one-line description of the load for logs and reports
func (r *LoadResult) Summary() string {
	return fmt.Sprintf("%d records from %d/%d files (%d duplicates, %d bad lines, %d file errors) in %v",
		len(r.Records), r.FilesProcessed, r.FilesDiscovered, r.Duplicates,
		len(r.LineErrors), len(r.FileErrors), r.Duration.Round(time.Millisecond))
}

package fileio

import (
	"sort"

	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/models"
)

// mergeScans deduplicates scans in the order given, which must be newest-modified first,
// and returns the combined records sorted by timestamp, most recent first.
func mergeScans(scans []scannedFile, dedup *Deduplicator) *LoadResult {
	result := &LoadResult{}

	total := 0
	for _, scan := range scans {
		total += len(scan.candidates)
	}
	result.Records = make([]models.UsageRecord, 0, total)

	for _, scan := range scans {
		fileResult := applyDedup(scan, dedup)
		if fileResult.Error != nil {
			var fe *errors.FileError
			if !errors.As(fileResult.Error, &fe) {
				fe = errors.NewFileError(fileResult.FilePath, errors.OpRead, fileResult.Error)
			}
			result.FileErrors = append(result.FileErrors, fe)
			continue
		}

		result.FilesProcessed++
		result.Records = append(result.Records, fileResult.Records...)
		result.LineErrors = append(result.LineErrors, fileResult.LineErrors...)
		result.Duplicates += fileResult.Duplicates
		result.Skipped += fileResult.Skipped
	}

	SortRecordsNewestFirst(result.Records)

	if result.Duplicates > 0 {
		logging.LogDebugf("deduplication: skipped %d duplicate records across all files", result.Duplicates)
	}
	return result
}

// SortRecordsNewestFirst orders records by timestamp, most recent first; ties keep their order
func SortRecordsNewestFirst(records []models.UsageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

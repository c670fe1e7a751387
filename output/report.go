package output

import (
	"time"

	"github.com/penwyp/claudestat/models"
)

// Diagnostics summarises how the records behind a report were loaded
type Diagnostics struct {
	FilesDiscovered int           `json:"files_discovered"`
	FilesProcessed  int           `json:"files_processed"`
	Duplicates      int           `json:"duplicates"`
	Skipped         int           `json:"skipped"`
	LineErrors      int           `json:"line_errors"`
	FileErrors      int           `json:"file_errors"`
	Duration        time.Duration `json:"duration_ns"`

	// ErrorsByType breaks LineErrors and FileErrors down by error class
	ErrorsByType map[string]int64 `json:"errors_by_type,omitempty"`
}

// Report is everything a Formatter needs to render one run
type Report struct {
	Range       models.TimeRange
	Stats       *models.UsageStats
	Diagnostics Diagnostics
	// Notice is shown above the report, e.g. when the data directory is missing
	Notice      string
	GeneratedAt time.Time
}

// Title returns the report heading
func (r *Report) Title() string {
	return "claudestat · " + r.Range.Label()
}

func (r *Report) stats() *models.UsageStats {
	if r.Stats == nil {
		return models.NewUsageStats()
	}
	return r.Stats
}

func (r *Report) now() time.Time {
	if r.GeneratedAt.IsZero() {
		return time.Now()
	}
	return r.GeneratedAt
}

// head keeps the first n rows; n <= 0 keeps everything
func head[T any](rows []T, n int) []T {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// tail keeps the last n rows; n <= 0 keeps everything
func tail[T any](rows []T, n int) []T {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}

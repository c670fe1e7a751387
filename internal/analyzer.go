package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/penwyp/claudestat/calculations"
	"github.com/penwyp/claudestat/config"
	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/fileio"
	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/models"
	"github.com/penwyp/claudestat/output"
)

// Analyzer runs the load, filter and aggregate pipeline for one configuration
type Analyzer struct {
	config *config.Config
	loader *fileio.Loader
	logger logging.LoggerInterface
}

// Result is one analysis run
type Result struct {
	Root        string
	Range       models.TimeRange
	Records     []models.UsageRecord // Filtered, most recent first
	Stats       *models.UsageStats
	Load        *fileio.LoadResult // Nil when the data directory is missing
	Notice      string
	GeneratedAt time.Time
}

// NewAnalyzer creates a new analyzer instance
func NewAnalyzer(cfg *config.Config) (*Analyzer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	return &Analyzer{
		config: cfg,
		loader: fileio.NewLoader(cfg.Data.Workers).WithExtension(cfg.Data.Extension),
		logger: logging.GetLogger().With(logging.F("component", "analyzer")),
	}, nil
}

// Analyze loads every record under the data root, keeps those inside the configured
// range and aggregates them. A missing data directory is not an error: the result is
// empty and carries a notice instead.
func (a *Analyzer) Analyze(ctx context.Context) (*Result, error) {
	rng, err := a.config.TimeRange()
	if err != nil {
		return nil, err
	}
	loc, err := a.config.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", a.config.Report.Timezone, err)
	}

	result := &Result{Range: rng, GeneratedAt: time.Now()}

	root, err := config.ResolveDataRoot(a.config)
	if err != nil {
		return a.emptyResult(result, err)
	}
	result.Root = root

	load, err := a.loader.Load(ctx, root)
	if err != nil {
		if errors.Is(err, errors.ErrDataDirNotFound) {
			return a.emptyResult(result, err)
		}
		return nil, err
	}
	result.Load = load
	a.logger.Debugf("loaded %s", load.Summary())

	records := calculations.InLocation(load.Records, loc)
	result.Records = calculations.FilterByTimeRangeAt(records, rng, result.GeneratedAt)
	result.Stats = calculations.Aggregate(result.Records)

	a.logger.Infof("analyzed %d of %d records for %s", len(result.Records), len(load.Records), rng.Label())
	return result, nil
}

// emptyResult turns a missing data directory into an empty report with a hint
func (a *Analyzer) emptyResult(result *Result, err error) (*Result, error) {
	a.logger.Warnf("no usage data: %v", err)

	result.Records = []models.UsageRecord{}
	result.Stats = calculations.Aggregate(nil)
	result.Notice = noticeFor(err, fileio.DiscoverDataRoots())
	return result, nil
}

func noticeFor(err error, candidates []string) string {
	notice := fmt.Sprintf("No usage data: %v.", err)
	if len(candidates) > 0 {
		notice += fmt.Sprintf(" Logs were found in %s; pass --data-dir to use them.", strings.Join(candidates, ", "))
	}
	return notice
}

// Report converts the result into the form the output formatters render
func (r *Result) Report() *output.Report {
	report := &output.Report{
		Range:       r.Range,
		Stats:       r.Stats,
		Notice:      r.Notice,
		GeneratedAt: r.GeneratedAt,
	}
	if r.Load != nil {
		report.Diagnostics = output.Diagnostics{
			FilesDiscovered: r.Load.FilesDiscovered,
			FilesProcessed:  r.Load.FilesProcessed,
			Duplicates:      r.Load.Duplicates,
			Skipped:         r.Load.Skipped,
			LineErrors:      len(r.Load.LineErrors),
			FileErrors:      len(r.Load.FileErrors),
			Duration:        r.Load.Duration,
		}
		if r.Load.Errors != nil && r.Load.Errors.TotalErrors.Value() > 0 {
			report.Diagnostics.ErrorsByType = make(map[string]int64)
			for errType, n := range r.Load.Errors.Snapshot() {
				report.Diagnostics.ErrorsByType[string(errType)] = n
			}
		}
	}
	return report
}

package fileio

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/models"
)

// Loader discovers and loads every usage log under a data root.
// Files are read and parsed in parallel; deduplication runs afterwards in
// newest-file-first order so the result matches a sequential scan.
type Loader struct {
	workerCount int
	extension   string
	logger      logging.LoggerInterface
}

// LoadProgress tracks the progress of the parallel read phase
type LoadProgress struct {
	TotalFiles     int32
	ProcessedFiles int32
	Errors         int32
	TotalRecords   int32
}

// NewLoader creates a loader; a non-positive workerCount means one worker per CPU
func NewLoader(workerCount int) *Loader {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	return &Loader{
		workerCount: workerCount,
		extension:   models.LogFileExtension,
		logger:      logging.GetLogger().With(logging.F("component", "loader")),
	}
}

// WithExtension overrides the log file extension
func (l *Loader) WithExtension(ext string) *Loader {
	if ext != "" {
		l.extension = ext
	}
	return l
}

// Load discovers and loads every log file under root.
// A missing root returns an error wrapping errors.ErrDataDirNotFound; per-file
// and per-line problems are collected in the result instead.
func (l *Loader) Load(ctx context.Context, root string) (*LoadResult, error) {
	return l.LoadWithProgress(ctx, root, nil)
}

// LoadWithProgress is Load with a callback invoked as files finish reading
func (l *Loader) LoadWithProgress(ctx context.Context, root string, progressCallback func(*LoadProgress)) (*LoadResult, error) {
	start := time.Now()

	files, walkErrs, err := discoverLogFiles(root, l.extension)
	if err != nil {
		return nil, err
	}
	l.logger.Debugf("discovered %d log files under %s", len(files), root)

	scans, err := l.readAll(ctx, files, progressCallback)
	if err != nil {
		return nil, err
	}

	result := mergeScans(scans, NewDeduplicator())
	result.FilesDiscovered = len(files)
	result.FileErrors = append(walkErrs, result.FileErrors...)
	result.Errors = errors.NewErrorMetrics()
	for _, fe := range result.FileErrors {
		result.Errors.Record(fe)
		l.logger.With(logging.F("file", fe.Path)).Warnf("skipping file: %v", fe.Err)
	}
	for _, le := range result.LineErrors {
		result.Errors.Record(le)
		l.logger.With(logging.F("file", le.Path), logging.F("line", le.Line)).Warnf("skipping line: %v", le.Err)
	}
	result.Duration = time.Since(start)

	l.logger.Debugf("load complete: %s", result.Summary())
	return result, nil
}

// readAll runs the parallel phase. Results keep the order of files.
func (l *Loader) readAll(ctx context.Context, files []LogFile, progressCallback func(*LoadProgress)) ([]scannedFile, error) {
	scans := make([]scannedFile, len(files))
	if len(files) == 0 {
		return scans, nil
	}

	progress := &LoadProgress{TotalFiles: int32(len(files))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workerCount)

	for i, file := range files {
		i, file := i, file
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			scans[i] = readAndExtract(file)

			atomic.AddInt32(&progress.ProcessedFiles, 1)
			if scans[i].err != nil {
				atomic.AddInt32(&progress.Errors, 1)
			} else {
				atomic.AddInt32(&progress.TotalRecords, int32(len(scans[i].candidates)))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if progressCallback != nil {
		progressCallback(progress)
	}
	return scans, nil
}

package internal

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/claudestat/config"
	"github.com/penwyp/claudestat/logging"
	"github.com/penwyp/claudestat/models"
)

// Export formats
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
)

// Exporter writes the filtered record list to a file or stream
type Exporter struct {
	config *config.Config
	logger logging.LoggerInterface
}

// ExportOptions contains export configuration
type ExportOptions struct {
	Format     string
	OutputFile string // Empty writes to Writer
	Writer     io.Writer
	Compress   bool
	Overwrite  bool
}

// ExportResult contains the results of an export operation
type ExportResult struct {
	OutputFile  string
	Format      string
	RecordCount int
	FileSize    int64
	Compressed  bool
	Duration    time.Duration
	Notice      string
}

// NewExporter creates a new exporter instance
func NewExporter(cfg *config.Config) (*Exporter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	return &Exporter{
		config: cfg,
		logger: logging.GetLogger().With(logging.F("component", "exporter")),
	}, nil
}

// Export loads and filters records the same way a report does, then writes them
func (e *Exporter) Export(ctx context.Context, options ExportOptions) (*ExportResult, error) {
	start := time.Now()

	format := strings.ToLower(options.Format)
	if format != ExportCSV && format != ExportJSON {
		return nil, fmt.Errorf("unsupported export format: %s", options.Format)
	}

	analyzer, err := NewAnalyzer(e.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}
	analysis, err := analyzer.Analyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze data: %w", err)
	}

	result := &ExportResult{
		Format:      format,
		RecordCount: len(analysis.Records),
		Compressed:  options.Compress,
		Notice:      analysis.Notice,
	}

	if options.OutputFile == "" {
		w := options.Writer
		if w == nil {
			w = os.Stdout
		}
		if err := writeCompressed(w, options.Compress, func(w io.Writer) error {
			return WriteRecords(w, format, analysis.Records)
		}); err != nil {
			return nil, err
		}
		result.Duration = time.Since(start)
		return result, nil
	}

	path := options.OutputFile
	if options.Compress && !strings.HasSuffix(path, ".gz") {
		path += ".gz"
	}
	result.OutputFile = path

	file, err := createOutputFile(path, options.Overwrite)
	if err != nil {
		return nil, err
	}

	err = writeCompressed(file, options.Compress, func(w io.Writer) error {
		return WriteRecords(w, format, analysis.Records)
	})
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	result.FileSize = info.Size()
	result.Duration = time.Since(start)

	e.logger.Infof("export completed: %d records, %d bytes, %v", result.RecordCount, result.FileSize, result.Duration)
	return result, nil
}

// WriteRecords writes records in format, keeping their order
func WriteRecords(w io.Writer, format string, records []models.UsageRecord) error {
	switch strings.ToLower(format) {
	case ExportCSV:
		return writeCSV(w, records)
	case ExportJSON:
		return writeJSON(w, records)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func writeCSV(w io.Writer, records []models.UsageRecord) error {
	writer := csv.NewWriter(w)

	header := []string{
		"Timestamp", "Model", "Project", "Session ID", "Request ID", "Message ID",
		"Input Tokens", "Output Tokens", "Cache Read", "Cache Creation", "Total Tokens", "Cost USD",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Timestamp.Format(time.RFC3339),
			r.Model,
			r.ProjectPath,
			r.SessionID,
			r.RequestID,
			r.MessageID,
			strconv.Itoa(r.InputTokens),
			strconv.Itoa(r.OutputTokens),
			strconv.Itoa(r.CacheReadTokens),
			strconv.Itoa(r.CacheCreationTokens),
			strconv.Itoa(r.TotalTokens()),
			fmt.Sprintf("%.6f", r.CostUSD),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, records []models.UsageRecord) error {
	if records == nil {
		records = []models.UsageRecord{}
	}
	data, err := sonic.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// writeCompressed runs write against w, through gzip when compress is set
func writeCompressed(w io.Writer, compress bool, write func(io.Writer) error) error {
	if !compress {
		return write(w)
	}

	gz := gzip.NewWriter(w)
	if err := write(gz); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// createOutputFile creates the output file and its directory
func createOutputFile(filename string, overwrite bool) (*os.File, error) {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	file, err := os.OpenFile(filename, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("output file %s already exists (use --overwrite)", filename)
		}
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return file, nil
}

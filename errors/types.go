package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// ErrorType classifies a failure by what went wrong
type ErrorType string

const (
	// System errors
	ErrorTypeSystem     ErrorType = "system"
	ErrorTypePermission ErrorType = "permission"

	// Data errors
	ErrorTypeDataFormat  ErrorType = "data_format"
	ErrorTypeDataMissing ErrorType = "data_missing"

	// Application errors
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeUnknown ErrorType = "unknown"
)

// ErrorSeverity tells the caller how far a failure propagates
type ErrorSeverity int

const (
	SeverityLow      ErrorSeverity = iota // Skipped silently, debug log only
	SeverityMedium                        // One line or file lost, run continues
	SeverityCritical                      // Run cannot produce a report
)

func (s ErrorSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Sentinel errors
var (
	// ErrDataDirNotFound is the only fatal ingestion error
	ErrDataDirNotFound = stderrors.New("data directory not found")

	ErrInvalidJSON      = stderrors.New("invalid json")
	ErrInvalidTimestamp = stderrors.New("missing or invalid timestamp")
	ErrMissingMessage   = stderrors.New("missing message object")
	ErrInvalidRecord    = stderrors.New("invalid usage record")
	ErrInvalidConfig    = stderrors.New("invalid configuration")
)

// Op names for FileError
const (
	OpStat  = "stat"
	OpOpen  = "open"
	OpRead  = "read"
	OpWalk  = "walk"
	OpWatch = "watch"
)

// FileError reports a file that could not be discovered, opened or read.
// The file is skipped and processing continues with the next one.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError wraps err with the file path and operation
func NewFileError(path, op string, err error) *FileError {
	return &FileError{Path: path, Op: op, Err: err}
}

// LineError reports a single log line that could not be turned into a record.
// Line numbers start at 1.
type LineError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *LineError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v", e.Path, e.Line, e.Reason, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// NewLineError wraps err with its location in a log file
func NewLineError(path string, line int, reason string, err error) *LineError {
	return &LineError{Path: path, Line: line, Reason: reason, Err: err}
}

// Classify maps an error onto the taxonomy
func Classify(err error) (ErrorType, ErrorSeverity) {
	if err == nil {
		return ErrorTypeUnknown, SeverityLow
	}

	switch {
	case Is(err, ErrDataDirNotFound):
		return ErrorTypeDataMissing, SeverityCritical
	case Is(err, ErrInvalidConfig):
		return ErrorTypeConfig, SeverityCritical
	case Is(err, ErrInvalidJSON), Is(err, ErrInvalidTimestamp), Is(err, ErrMissingMessage), Is(err, ErrInvalidRecord):
		return ErrorTypeDataFormat, SeverityMedium
	}

	var fe *FileError
	if As(err, &fe) {
		if Is(fe.Err, fs.ErrPermission) {
			return ErrorTypePermission, SeverityMedium
		}
		return ErrorTypeSystem, SeverityMedium
	}

	var le *LineError
	if As(err, &le) {
		return ErrorTypeDataFormat, SeverityMedium
	}

	return ErrorTypeUnknown, SeverityMedium
}

// IsFatal reports whether err should abort the run
func IsFatal(err error) bool {
	_, severity := Classify(err)
	return severity == SeverityCritical
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// New returns an error with the given text
func New(text string) error {
	return stderrors.New(text)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

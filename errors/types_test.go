package errors

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileError(t *testing.T) {
	err := NewFileError("/tmp/a.jsonl", OpOpen, fs.ErrPermission)

	assert.Equal(t, "open /tmp/a.jsonl: permission denied", err.Error())
	assert.True(t, Is(err, fs.ErrPermission))

	var fe *FileError
	require.True(t, As(fmt.Errorf("wrapped: %w", err), &fe))
	assert.Equal(t, "/tmp/a.jsonl", fe.Path)
	assert.Equal(t, OpOpen, fe.Op)
}

func TestLineError(t *testing.T) {
	err := NewLineError("/tmp/a.jsonl", 3, "parse", ErrInvalidJSON)

	assert.Equal(t, "/tmp/a.jsonl:3: parse: invalid json", err.Error())
	assert.True(t, Is(err, ErrInvalidJSON))

	noReason := NewLineError("/tmp/a.jsonl", 7, "", ErrInvalidTimestamp)
	assert.Equal(t, "/tmp/a.jsonl:7: missing or invalid timestamp", noReason.Error())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantType     ErrorType
		wantSeverity ErrorSeverity
		wantFatal    bool
	}{
		{
			name:         "missing data dir",
			err:          fmt.Errorf("resolve: %w", ErrDataDirNotFound),
			wantType:     ErrorTypeDataMissing,
			wantSeverity: SeverityCritical,
			wantFatal:    true,
		},
		{
			name:         "invalid config",
			err:          fmt.Errorf("%w: bad range", ErrInvalidConfig),
			wantType:     ErrorTypeConfig,
			wantSeverity: SeverityCritical,
			wantFatal:    true,
		},
		{
			name:         "bad json line",
			err:          NewLineError("f", 1, "", ErrInvalidJSON),
			wantType:     ErrorTypeDataFormat,
			wantSeverity: SeverityMedium,
		},
		{
			name:         "unreadable file",
			err:          NewFileError("f", OpOpen, fs.ErrPermission),
			wantType:     ErrorTypePermission,
			wantSeverity: SeverityMedium,
		},
		{
			name:         "vanished file",
			err:          NewFileError("f", OpStat, fs.ErrNotExist),
			wantType:     ErrorTypeSystem,
			wantSeverity: SeverityMedium,
		},
		{
			name:         "anything else",
			err:          New("boom"),
			wantType:     ErrorTypeUnknown,
			wantSeverity: SeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotSeverity := Classify(tt.err)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantSeverity, gotSeverity)
			assert.Equal(t, tt.wantFatal, IsFatal(tt.err))
		})
	}
}

func TestErrorMetrics(t *testing.T) {
	m := NewErrorMetrics()
	m.Record(nil)
	m.Record(NewLineError("f", 1, "", ErrInvalidJSON))
	m.Record(NewLineError("f", 2, "", ErrInvalidTimestamp))
	m.Record(NewFileError("g", OpOpen, fs.ErrPermission))

	assert.Equal(t, int64(3), m.TotalErrors.Value())
	assert.Equal(t, int64(2), m.Count(ErrorTypeDataFormat))
	assert.Equal(t, int64(1), m.Count(ErrorTypePermission))
	assert.Equal(t, int64(0), m.Count(ErrorTypeConfig))
	assert.Equal(t, []ErrorType{ErrorTypeDataFormat, ErrorTypePermission}, m.Types())
	assert.Equal(t, map[ErrorType]int64{ErrorTypeDataFormat: 2, ErrorTypePermission: 1}, m.Snapshot())
}

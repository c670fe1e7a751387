package fileio

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/claudestat/errors"
)

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	createTestJSONLFile(t, root, "sess-a", "a.jsonl", base,
		usageLine(base, "msg_1", "req_1", "claude-sonnet-4", 100, 10),
		usageLine(base.Add(time.Minute), "msg_2", "req_2", "claude-sonnet-4", 100, 10),
		"garbage",
	)
	// Continuation log repeating msg_2 plus one new request
	createTestJSONLFile(t, root, "sess-b", "b.jsonl", base.Add(time.Hour),
		usageLine(base.Add(time.Minute), "msg_2", "req_2", "claude-sonnet-4", 100, 10),
		usageLine(base.Add(2*time.Hour), "msg_3", "req_3", "claude-opus-4", 5, 5),
		`{"timestamp":"2025-06-01T12:00:00Z","message":{"model":"m","usage":{"input_tokens":0}}}`,
	)

	result, err := NewLoader(2).Load(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesDiscovered)
	assert.Equal(t, 2, result.FilesProcessed)
	assert.Len(t, result.Records, 3)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.LineErrors, 1)
	assert.Equal(t, 3, result.LineErrors[0].Line)
	assert.Equal(t, int64(1), result.Errors.Count(errors.ErrorTypeDataFormat))

	// Newest first by timestamp
	for i := 1; i < len(result.Records); i++ {
		assert.False(t, result.Records[i].Timestamp.After(result.Records[i-1].Timestamp))
	}
	assert.Equal(t, "msg_3", result.Records[0].MessageID)

	// msg_2 was kept from the newer file, which is merged first
	for _, r := range result.Records {
		if r.MessageID == "msg_2" {
			assert.Equal(t, "sess-b", r.SessionID)
		}
	}
}

func TestLoader_MatchesSequentialScan(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for f := 0; f < 12; f++ {
		var lines []string
		for l := 0; l < 20; l++ {
			// Every file shares half its ids with its neighbour
			id := f*10 + l
			lines = append(lines, usageLine(base.Add(time.Duration(id)*time.Minute),
				fmt.Sprintf("msg_%d", id), fmt.Sprintf("req_%d", id), "claude-sonnet-4", id+1, 1))
		}
		createTestJSONLFile(t, root, fmt.Sprintf("s%02d", f), "log.jsonl", base.Add(time.Duration(f)*time.Hour), lines...)
	}

	files, err := DiscoverLogFiles(root)
	require.NoError(t, err)

	dedup := NewDeduplicator()
	sequential := 0
	for _, f := range files {
		sequential += len(ProcessFile(f.Path, dedup).Records)
	}

	for _, workers := range []int{1, 4, 16} {
		result, err := NewLoader(workers).Load(context.Background(), root)
		require.NoError(t, err)
		assert.Len(t, result.Records, sequential, "workers=%d", workers)
		assert.Equal(t, 12*20-sequential, result.Duplicates, "workers=%d", workers)
	}
}

func TestLoader_MissingRoot(t *testing.T) {
	_, err := NewLoader(1).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestLoader_EmptyRoot(t *testing.T) {
	result, err := NewLoader(0).Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Zero(t, result.FilesDiscovered)
}

func TestLoader_Cancelled(t *testing.T) {
	root := t.TempDir()
	ts := time.Now()
	createTestJSONLFile(t, root, "s", "a.jsonl", ts, usageLine(ts, "m", "r", "claude-sonnet-4", 1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(1).Load(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_WithExtension(t *testing.T) {
	root := t.TempDir()
	ts := time.Now()
	createTestJSONLFile(t, root, "s", "a.log", ts, usageLine(ts, "m", "r", "claude-sonnet-4", 1, 1))
	createTestJSONLFile(t, root, "s", "b.jsonl", ts, usageLine(ts, "m2", "r2", "claude-sonnet-4", 1, 1))

	result, err := NewLoader(1).WithExtension(".log").Load(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilesDiscovered)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "m", result.Records[0].MessageID)
}

func TestLoader_Progress(t *testing.T) {
	root := t.TempDir()
	ts := time.Now()
	createTestJSONLFile(t, root, "s", "a.jsonl", ts, usageLine(ts, "m", "r", "claude-sonnet-4", 1, 1))
	createTestJSONLFile(t, root, "s", "b.jsonl", ts, usageLine(ts, "m2", "r2", "claude-sonnet-4", 1, 1))

	var got *LoadProgress
	_, err := NewLoader(2).LoadWithProgress(context.Background(), root, func(p *LoadProgress) { got = p })
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int32(2), got.TotalFiles)
	assert.Equal(t, int32(2), got.ProcessedFiles)
	assert.Equal(t, int32(2), got.TotalRecords)
}

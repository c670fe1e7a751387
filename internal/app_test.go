package internal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renderRecorder struct {
	mu      sync.Mutex
	counts  []int
	notices []string
}

func (r *renderRecorder) render(result *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, len(result.Records))
	r.notices = append(r.notices, result.Notice)
	return nil
}

func (r *renderRecorder) last() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.counts) == 0 {
		return -1
	}
	return r.counts[len(r.counts)-1]
}

func TestNewApplication_RequiresRender(t *testing.T) {
	_, err := NewApplication(testConfig(t.TempDir()), nil)
	assert.Error(t, err)
}

func TestApplication_ReloadsOnChange(t *testing.T) {
	root := t.TempDir()
	writeLog(t, root, "s1", "a.jsonl", usageLine(time.Now(), "m1", "r1", sonnet, 10, 10))

	cfg := testConfig(root)
	cfg.Watch.Debounce = 20 * time.Millisecond

	rec := &renderRecorder{}
	app, err := NewApplication(cfg, rec.render)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.last() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, app.IsRunning, time.Second, 10*time.Millisecond)

	// Give the watcher time to register directories before writing
	time.Sleep(100 * time.Millisecond)
	writeLog(t, root, "s1", "b.jsonl", usageLine(time.Now(), "m2", "r2", sonnet, 10, 10))

	require.Eventually(t, func() bool { return rec.last() == 2 }, 5*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, app.Reloads(), 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, app.IsRunning())
}

func TestApplication_MissingDataDirectory(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing"))

	rec := &renderRecorder{}
	app, err := NewApplication(cfg, rec.render)
	require.NoError(t, err)

	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot watch")

	// The empty report is still shown once
	require.Len(t, rec.counts, 1)
	assert.NotEmpty(t, rec.notices[0])
	assert.False(t, app.IsRunning())
}

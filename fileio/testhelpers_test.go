package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// usageLine builds a minimal assistant log line
func usageLine(ts time.Time, msgID, reqID, model string, input, output int) string {
	return fmt.Sprintf(`{"timestamp":%q,"requestId":%q,"cwd":"/home/me/code/app","message":{"id":%q,"model":%q,"usage":{"input_tokens":%d,"output_tokens":%d}}}`,
		ts.UTC().Format(time.RFC3339Nano), reqID, msgID, model, input, output)
}

// createTestJSONLFile writes lines to dir/session/name and sets its modification time
func createTestJSONLFile(t *testing.T, dir, session, name string, modTime time.Time, lines ...string) string {
	t.Helper()

	sessionDir := filepath.Join(dir, session)
	require.NoError(t, os.MkdirAll(sessionDir, 0755))

	path := filepath.Join(sessionDir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

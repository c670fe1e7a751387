package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/penwyp/claudestat/config"
)

func usageLine(ts time.Time, msgID, reqID, model string, input, output int) string {
	return fmt.Sprintf(`{"timestamp":%q,"requestId":%q,"cwd":"/home/me/code/app","message":{"id":%q,"model":%q,"usage":{"input_tokens":%d,"output_tokens":%d}}}`,
		ts.UTC().Format(time.RFC3339Nano), reqID, msgID, model, input, output)
}

func writeLog(t *testing.T, root, session, name string, lines ...string) string {
	t.Helper()

	dir := filepath.Join(root, session)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func testConfig(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Data.Root = root
	cfg.Data.Workers = 2
	cfg.Report.Range = "all"
	return cfg
}

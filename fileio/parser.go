package fileio

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"

	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/models"
)

// Usage field names inside message.usage
const (
	fieldInputTokens         = "input_tokens"
	fieldOutputTokens        = "output_tokens"
	fieldCacheReadTokens     = "cache_read_input_tokens"
	fieldCacheCreationTokens = "cache_creation_input_tokens"
)

// ExtractRecord turns one log line into a usage record.
//
// It returns (nil, nil) for lines that carry no billable usage: a missing or
// null message.usage, or all four token counts at zero. Malformed JSON, a
// missing or unparseable timestamp, and a missing message object are reported
// as errors wrapping errors.ErrInvalidJSON, errors.ErrInvalidTimestamp and
// errors.ErrMissingMessage.
func ExtractRecord(line []byte, sessionID string) (*models.UsageRecord, error) {
	line = bytes.TrimSpace(line)
	if !gjson.ValidBytes(line) {
		return nil, errors.ErrInvalidJSON
	}
	root := gjson.ParseBytes(line)

	timestamp, err := parseTimestamp(root.Get("timestamp"))
	if err != nil {
		return nil, err
	}

	message := root.Get("message")
	if !message.Exists() {
		return nil, errors.ErrMissingMessage
	}

	usage := message.Get("usage")
	if !usage.Exists() || usage.Type == gjson.Null {
		return nil, nil
	}

	record := &models.UsageRecord{
		Timestamp:           timestamp,
		SessionID:           sessionID,
		InputTokens:         tokenCount(usage.Get(fieldInputTokens)),
		OutputTokens:        tokenCount(usage.Get(fieldOutputTokens)),
		CacheReadTokens:     tokenCount(usage.Get(fieldCacheReadTokens)),
		CacheCreationTokens: tokenCount(usage.Get(fieldCacheCreationTokens)),
	}
	if !record.HasUsage() {
		return nil, nil
	}

	record.Model = stringOr(message.Get("model"), models.UnknownModel)
	record.ProjectPath = stringOr(root.Get("cwd"), "")
	record.RequestID = stringOr(root.Get("requestId"), "")
	record.MessageID = stringOr(message.Get("id"), "")
	record.CostUSD = recordCost(root.Get("costUSD"), record)

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidRecord, err)
	}
	return record, nil
}

func parseTimestamp(value gjson.Result) (time.Time, error) {
	if value.Type != gjson.String {
		return time.Time{}, errors.ErrInvalidTimestamp
	}
	ts, err := time.Parse(time.RFC3339Nano, value.Str)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errors.ErrInvalidTimestamp, value.Str)
	}
	return ts.UTC(), nil
}

// tokenCount returns a non-negative integral JSON number that fits in an int, or 0 for anything else
func tokenCount(value gjson.Result) int {
	if value.Type != gjson.Number {
		return 0
	}
	n := value.Float()
	if n < 0 || n != math.Trunc(n) || n >= float64(math.MaxInt) {
		return 0
	}
	return int(value.Int())
}

// stringOr returns a non-empty JSON string, or def
func stringOr(value gjson.Result, def string) string {
	if value.Type == gjson.String && value.Str != "" {
		return value.Str
	}
	return def
}

// recordCost prefers a logged costUSD and falls back to the pricing table
func recordCost(logged gjson.Result, r *models.UsageRecord) float64 {
	if logged.Type == gjson.Number {
		cost := logged.Float()
		if cost >= 0 && !math.IsInf(cost, 0) && !math.IsNaN(cost) {
			return cost
		}
	}
	return models.CalculateCost(r.Model, r.InputTokens, r.OutputTokens, r.CacheReadTokens, r.CacheCreationTokens)
}

// SessionIDFromPath derives the session identifier from a log file location:
// the name of the directory holding the file.
func SessionIDFromPath(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) {
		return ""
	}
	return dir
}

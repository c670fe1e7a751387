package models

import (
	"time"
)

// UsageRecord represents a single billable request extracted from a usage log line.
// Records are immutable once the extractor returns them.
type UsageRecord struct {
	Timestamp           time.Time `json:"timestamp"`
	Model               string    `json:"model"`
	ProjectPath         string    `json:"project_path,omitempty"` // From top-level cwd
	SessionID           string    `json:"session_id,omitempty"`   // From the log file location
	RequestID           string    `json:"request_id,omitempty"`
	MessageID           string    `json:"message_id,omitempty"`
	InputTokens         int       `json:"input_tokens"`
	OutputTokens        int       `json:"output_tokens"`
	CacheReadTokens     int       `json:"cache_read_tokens"`
	CacheCreationTokens int       `json:"cache_creation_tokens"`
	CostUSD             float64   `json:"cost_usd"`
}

// TotalTokens returns the sum of all four token categories
func (r *UsageRecord) TotalTokens() int {
	return r.InputTokens + r.OutputTokens + r.CacheReadTokens + r.CacheCreationTokens
}

// HasUsage reports whether any token category is non-zero
func (r *UsageRecord) HasUsage() bool {
	return r.InputTokens != 0 || r.OutputTokens != 0 || r.CacheReadTokens != 0 || r.CacheCreationTokens != 0
}

// DedupKey returns the composite identity "messageID:requestID".
// It is empty when either half is missing, in which case the record is never deduplicated.
func (r *UsageRecord) DedupKey() string {
	return DedupKey(r.MessageID, r.RequestID)
}

// ResolvedProjectPath returns the project path used for grouping
func (r *UsageRecord) ResolvedProjectPath() string {
	if r.ProjectPath == "" {
		return UnknownProject
	}
	return r.ProjectPath
}

// Date returns the calendar date key of the record in its own location
func (r *UsageRecord) Date() string {
	return r.Timestamp.Format(DateFormat)
}

// DedupKey joins a message ID and request ID into a single identity key
func DedupKey(messageID, requestID string) string {
	if messageID == "" || requestID == "" {
		return ""
	}
	return messageID + ":" + requestID
}

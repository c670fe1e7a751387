package fileio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/claudestat/errors"
	"github.com/penwyp/claudestat/models"
)

func TestExtractRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    *models.UsageRecord
		wantErr error
	}{
		{
			name: "full assistant line with logged cost",
			line: `{"timestamp":"2025-06-01T10:00:00.123Z","cwd":"/home/me/Github/app","requestId":"req_1","costUSD":0.5,` +
				`"message":{"id":"msg_1","model":"claude-opus-4-20250514","usage":{"input_tokens":10,"output_tokens":20,"cache_read_input_tokens":30,"cache_creation_input_tokens":40}}}`,
			want: &models.UsageRecord{
				Timestamp:           time.Date(2025, 6, 1, 10, 0, 0, 123000000, time.UTC),
				Model:               "claude-opus-4-20250514",
				ProjectPath:         "/home/me/Github/app",
				SessionID:           "sess",
				RequestID:           "req_1",
				MessageID:           "msg_1",
				InputTokens:         10,
				OutputTokens:        20,
				CacheReadTokens:     30,
				CacheCreationTokens: 40,
				CostUSD:             0.5,
			},
		},
		{
			name: "computed sonnet cost",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"claude-sonnet-4-x","usage":{"input_tokens":1000000,"output_tokens":1000000}}}`,
			want: &models.UsageRecord{
				Timestamp:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Model:        "claude-sonnet-4-x",
				SessionID:    "sess",
				InputTokens:  1_000_000,
				OutputTokens: 1_000_000,
				CostUSD:      18.0,
			},
		},
		{
			name: "unknown model costs nothing",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"gpt-5-experimental","usage":{"input_tokens":500,"output_tokens":500}}}`,
			want: &models.UsageRecord{
				Timestamp:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Model:        "gpt-5-experimental",
				SessionID:    "sess",
				InputTokens:  500,
				OutputTokens: 500,
				CostUSD:      0,
			},
		},
		{
			name: "missing model becomes unknown",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"usage":{"output_tokens":5}}}`,
			want: &models.UsageRecord{
				Timestamp:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Model:        models.UnknownModel,
				SessionID:    "sess",
				OutputTokens: 5,
			},
		},
		{
			name: "offset timestamp normalised to UTC",
			line: `{"timestamp":"2025-06-01T12:00:00+02:00","message":{"model":"m","usage":{"input_tokens":1}}}`,
			want: &models.UsageRecord{
				Timestamp:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Model:       "m",
				SessionID:   "sess",
				InputTokens: 1,
			},
		},
		{
			name: "non-numeric and negative tokens default to zero",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"m","usage":{"input_tokens":"12","output_tokens":-4,"cache_read_input_tokens":1.5,"cache_creation_input_tokens":7}}}`,
			want: &models.UsageRecord{
				Timestamp:           time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Model:               "m",
				SessionID:           "sess",
				CacheCreationTokens: 7,
			},
		},
		{
			name: "token counts beyond int range default to zero",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"m","usage":{"input_tokens":99999999999999999999,"output_tokens":10}}}`,
			want: &models.UsageRecord{
				Timestamp:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Model:        "m",
				SessionID:    "sess",
				OutputTokens: 10,
			},
		},
		{
			name: "exponent token count beyond int range is skipped",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"m","usage":{"input_tokens":1e20}}}`,
		},
		{
			name: "string costUSD falls back to computed",
			line: `{"timestamp":"2025-06-01T10:00:00Z","costUSD":"1.25","message":{"model":"claude-sonnet-4","usage":{"output_tokens":1000000}}}`,
			want: &models.UsageRecord{
				Timestamp:    time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
				Model:        "claude-sonnet-4",
				SessionID:    "sess",
				OutputTokens: 1_000_000,
				CostUSD:      15.0,
			},
		},
		{
			name: "null usage is skipped",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"m","usage":null}}`,
		},
		{
			name: "missing usage is skipped",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"role":"user","content":"hi"}}`,
		},
		{
			name: "all-zero usage is skipped",
			line: `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"m","usage":{"input_tokens":0,"output_tokens":0,"cache_read_input_tokens":0,"cache_creation_input_tokens":0}}}`,
		},
		{
			name:    "invalid json",
			line:    `{"timestamp":`,
			wantErr: errors.ErrInvalidJSON,
		},
		{
			name:    "missing timestamp",
			line:    `{"message":{"usage":{"input_tokens":1}}}`,
			wantErr: errors.ErrInvalidTimestamp,
		},
		{
			name:    "malformed timestamp",
			line:    `{"timestamp":"yesterday","message":{"usage":{"input_tokens":1}}}`,
			wantErr: errors.ErrInvalidTimestamp,
		},
		{
			name:    "numeric timestamp",
			line:    `{"timestamp":1717236000,"message":{"usage":{"input_tokens":1}}}`,
			wantErr: errors.ErrInvalidTimestamp,
		},
		{
			name:    "missing message",
			line:    `{"timestamp":"2025-06-01T10:00:00Z","type":"summary"}`,
			wantErr: errors.ErrMissingMessage,
		},
		{
			name:    "zero timestamp",
			line:    `{"timestamp":"0001-01-01T00:00:00Z","message":{"model":"claude-sonnet-4","usage":{"input_tokens":10}}}`,
			wantErr: errors.ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractRecord([]byte(tt.line), "sess")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want.CostUSD, got.CostUSD, 1e-9)
			got.CostUSD = tt.want.CostUSD
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractRecord_UnknownModelDisplayName(t *testing.T) {
	line := `{"timestamp":"2025-06-01T10:00:00Z","message":{"model":"gpt-5-experimental","usage":{"input_tokens":1}}}`
	got, err := ExtractRecord([]byte(line), "")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Zero(t, got.CostUSD)
	assert.Equal(t, "gpt-5-experimental", models.DisplayName(got.Model))
}

func TestSessionIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/me/.claude/projects/-home-me-app/abc.jsonl", "-home-me-app"},
		{"/root.jsonl", ""},
		{"loose.jsonl", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SessionIDFromPath(tt.path))
		})
	}
}

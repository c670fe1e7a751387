package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageRecord_Validate(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		record  UsageRecord
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid record",
			record: UsageRecord{
				Timestamp:    ts,
				Model:        "claude-sonnet-4",
				InputTokens:  100,
				OutputTokens: 50,
				CostUSD:      0.01,
			},
		},
		{
			name:    "zero timestamp",
			record:  UsageRecord{Model: "claude-sonnet-4", InputTokens: 100},
			wantErr: true,
			errMsg:  "timestamp cannot be zero",
		},
		{
			name:    "empty model",
			record:  UsageRecord{Timestamp: ts, InputTokens: 100},
			wantErr: true,
			errMsg:  "model cannot be empty",
		},
		{
			name:    "negative input tokens",
			record:  UsageRecord{Timestamp: ts, Model: "m", InputTokens: -1, OutputTokens: 5},
			wantErr: true,
			errMsg:  "input tokens cannot be negative",
		},
		{
			name:    "no usage",
			record:  UsageRecord{Timestamp: ts, Model: "m"},
			wantErr: true,
			errMsg:  "at least one token type must be greater than zero",
		},
		{
			name:    "negative cost",
			record:  UsageRecord{Timestamp: ts, Model: "m", InputTokens: 1, CostUSD: -1},
			wantErr: true,
			errMsg:  "cost must be a finite non-negative number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			var verr ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

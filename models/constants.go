package models

import "time"

// Fallback labels used when a record lacks descriptive fields
const (
	UnknownModel   = "unknown"
	UnknownProject = "Unknown Project"
	UnknownSession = "unknown"
	UnknownName    = "Unknown"
)

// Log discovery
const (
	LogFileExtension = ".jsonl"
	DefaultDataDir   = "~/.claude/projects"
)

// Time formats
const (
	DateFormat        = "2006-01-02"
	DisplayTimeFormat = "2006-01-02 15:04:05"
	FileTimeFormat    = "20060102-150405"
)

// TokensPerMillion is the unit every price in the pricing table is quoted in
const TokensPerMillion = 1_000_000

// Watch mode
const (
	DefaultDebounce = 500 * time.Millisecond
	MinDebounce     = 50 * time.Millisecond
)

package models

import (
	"time"
)

// UsageStats holds the global totals and every aggregate view for one record set.
// A UsageStats value is never updated in place; a new record set produces a new value.
type UsageStats struct {
	TotalCost                float64 `json:"total_cost"`
	TotalInputTokens         int64   `json:"total_input_tokens"`
	TotalOutputTokens        int64   `json:"total_output_tokens"`
	TotalCacheReadTokens     int64   `json:"total_cache_read_tokens"`
	TotalCacheCreationTokens int64   `json:"total_cache_creation_tokens"`
	TotalTokens              int64   `json:"total_tokens"`
	// SessionCount counts distinct raw session IDs, not project-qualified session keys.
	SessionCount int `json:"session_count"`

	Records  []UsageRecord  `json:"records,omitempty"`
	Models   []ModelStats   `json:"models"`
	Projects []ProjectStats `json:"projects"`
	Sessions []SessionStats `json:"sessions"`
	Daily    []DailyUsage   `json:"daily"`
}

// ModelStats is the per-model breakdown row.
// TotalTokens here is input+output only, unlike the other views.
type ModelStats struct {
	Model               string  `json:"model"`
	DisplayName         string  `json:"display_name"`
	TotalCost           float64 `json:"total_cost"`
	TotalTokens         int64   `json:"total_tokens"`
	InputTokens         int64   `json:"input_tokens"`
	OutputTokens        int64   `json:"output_tokens"`
	CacheReadTokens     int64   `json:"cache_read_tokens"`
	CacheCreationTokens int64   `json:"cache_creation_tokens"`
	RequestCount        int     `json:"request_count"`
}

// ProjectStats is the per-project breakdown row, keyed by resolved project path
type ProjectStats struct {
	ProjectName         string    `json:"project_name"`
	ProjectPath         string    `json:"project_path"`
	TotalCost           float64   `json:"total_cost"`
	TotalTokens         int64     `json:"total_tokens"`
	InputTokens         int64     `json:"input_tokens"`
	OutputTokens        int64     `json:"output_tokens"`
	CacheReadTokens     int64     `json:"cache_read_tokens"`
	CacheCreationTokens int64     `json:"cache_creation_tokens"`
	RequestCount        int       `json:"request_count"`
	SessionCount        int       `json:"session_count"`
	LastUsed            time.Time `json:"last_used"`
}

// SessionStats is the per-session breakdown row, keyed by "projectPath:sessionID"
type SessionStats struct {
	SessionID           string    `json:"session_id"`
	ProjectPath         string    `json:"project_path"`
	TotalCost           float64   `json:"total_cost"`
	TotalTokens         int64     `json:"total_tokens"`
	InputTokens         int64     `json:"input_tokens"`
	OutputTokens        int64     `json:"output_tokens"`
	CacheReadTokens     int64     `json:"cache_read_tokens"`
	CacheCreationTokens int64     `json:"cache_creation_tokens"`
	RequestCount        int       `json:"request_count"`
	LastUsed            time.Time `json:"last_used"`
}

// DailyUsage is the per-calendar-day row used by the timeline
type DailyUsage struct {
	Date                string   `json:"date"`
	TotalCost           float64  `json:"total_cost"`
	TotalTokens         int64    `json:"total_tokens"`
	InputTokens         int64    `json:"input_tokens"`
	OutputTokens        int64    `json:"output_tokens"`
	CacheReadTokens     int64    `json:"cache_read_tokens"`
	CacheCreationTokens int64    `json:"cache_creation_tokens"`
	RequestCount        int      `json:"request_count"`
	ModelsUsed          []string `json:"models_used"`
}

// NewUsageStats returns an empty stats value with non-nil views
func NewUsageStats() *UsageStats {
	return &UsageStats{
		Records:  []UsageRecord{},
		Models:   []ModelStats{},
		Projects: []ProjectStats{},
		Sessions: []SessionStats{},
		Daily:    []DailyUsage{},
	}
}

// IsEmpty reports whether the stats were built from an empty record set
func (s *UsageStats) IsEmpty() bool {
	return len(s.Records) == 0 && s.TotalCost == 0
}

// RequestCount returns the number of records behind the stats
func (s *UsageStats) RequestCount() int {
	return len(s.Records)
}

// AvgCostPerSession returns total cost divided by the distinct session count
func (s *UsageStats) AvgCostPerSession() float64 {
	if s.SessionCount == 0 {
		return 0
	}
	return s.TotalCost / float64(s.SessionCount)
}

// ActiveDays returns the number of calendar days with at least one record
func (s *UsageStats) ActiveDays() int {
	return len(s.Daily)
}

// AvgDailyCost returns total cost divided by the number of active days
func (s *UsageStats) AvgDailyCost() float64 {
	days := s.ActiveDays()
	if days == 0 {
		return 0
	}
	return s.TotalCost / float64(days)
}

// ModelByID looks up a model row
func (s *UsageStats) ModelByID(model string) (ModelStats, bool) {
	for _, m := range s.Models {
		if m.Model == model {
			return m, true
		}
	}
	return ModelStats{}, false
}

// ProjectByPath looks up a project row by resolved project path
func (s *UsageStats) ProjectByPath(path string) (ProjectStats, bool) {
	for _, p := range s.Projects {
		if p.ProjectPath == path {
			return p, true
		}
	}
	return ProjectStats{}, false
}

// DayByDate looks up a daily row by YYYY-MM-DD key
func (s *UsageStats) DayByDate(date string) (DailyUsage, bool) {
	for _, d := range s.Daily {
		if d.Date == date {
			return d, true
		}
	}
	return DailyUsage{}, false
}

package calculations

import (
	"sort"

	"github.com/samber/lo"

	"github.com/penwyp/claudestat/models"
)

// Aggregate builds the global totals and all four breakdown views from records.
// The returned stats hold their own copy of the record slice.
func Aggregate(records []models.UsageRecord) *models.UsageStats {
	stats := models.NewUsageStats()
	if len(records) == 0 {
		return stats
	}

	for i := range records {
		r := &records[i]
		stats.TotalCost += r.CostUSD
		stats.TotalInputTokens += int64(r.InputTokens)
		stats.TotalOutputTokens += int64(r.OutputTokens)
		stats.TotalCacheReadTokens += int64(r.CacheReadTokens)
		stats.TotalCacheCreationTokens += int64(r.CacheCreationTokens)
	}
	stats.TotalTokens = stats.TotalInputTokens + stats.TotalOutputTokens +
		stats.TotalCacheReadTokens + stats.TotalCacheCreationTokens

	stats.SessionCount = len(distinctSessions(records, func(models.UsageRecord) bool { return true }))

	stats.Records = append(stats.Records, records...)
	stats.Models = ModelBreakdown(records)
	stats.Projects = ProjectBreakdown(records)
	stats.Sessions = SessionBreakdown(records)
	stats.Daily = DailyBreakdown(records)

	return stats
}

// ModelBreakdown groups records by model id, highest cost first.
// TotalTokens counts input and output only.
func ModelBreakdown(records []models.UsageRecord) []models.ModelStats {
	rows := make([]models.ModelStats, 0)
	index := make(map[string]int)

	for i := range records {
		r := &records[i]
		idx, ok := index[r.Model]
		if !ok {
			idx = len(rows)
			index[r.Model] = idx
			rows = append(rows, models.ModelStats{
				Model:       r.Model,
				DisplayName: models.DisplayName(r.Model),
			})
		}

		row := &rows[idx]
		row.TotalCost += r.CostUSD
		row.InputTokens += int64(r.InputTokens)
		row.OutputTokens += int64(r.OutputTokens)
		row.CacheReadTokens += int64(r.CacheReadTokens)
		row.CacheCreationTokens += int64(r.CacheCreationTokens)
		row.TotalTokens = row.InputTokens + row.OutputTokens
		row.RequestCount++
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalCost > rows[j].TotalCost
	})
	return rows
}

// ProjectBreakdown groups records by resolved project path, highest cost first
func ProjectBreakdown(records []models.UsageRecord) []models.ProjectStats {
	rows := make([]models.ProjectStats, 0)
	index := make(map[string]int)

	for i := range records {
		r := &records[i]
		path := r.ResolvedProjectPath()
		idx, ok := index[path]
		if !ok {
			idx = len(rows)
			index[path] = idx
			rows = append(rows, models.ProjectStats{
				ProjectName: ExtractProjectName(path),
				ProjectPath: path,
				LastUsed:    r.Timestamp,
			})
		}

		row := &rows[idx]
		row.TotalCost += r.CostUSD
		row.InputTokens += int64(r.InputTokens)
		row.OutputTokens += int64(r.OutputTokens)
		row.CacheReadTokens += int64(r.CacheReadTokens)
		row.CacheCreationTokens += int64(r.CacheCreationTokens)
		row.TotalTokens = row.InputTokens + row.OutputTokens + row.CacheReadTokens + row.CacheCreationTokens
		row.RequestCount++
		if r.Timestamp.After(row.LastUsed) {
			row.LastUsed = r.Timestamp
		}
	}

	// Second pass: distinct sessions per project
	for i := range rows {
		path := rows[i].ProjectPath
		rows[i].SessionCount = len(distinctSessions(records, func(r models.UsageRecord) bool {
			return r.ResolvedProjectPath() == path
		}))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalCost > rows[j].TotalCost
	})
	return rows
}

// SessionBreakdown groups records by project-qualified session, most recently used first
func SessionBreakdown(records []models.UsageRecord) []models.SessionStats {
	rows := make([]models.SessionStats, 0)
	index := make(map[string]int)

	for i := range records {
		r := &records[i]
		key := SessionKey(r)
		idx, ok := index[key]
		if !ok {
			idx = len(rows)
			index[key] = idx
			sessionID := r.SessionID
			if sessionID == "" {
				sessionID = models.UnknownName
			}
			rows = append(rows, models.SessionStats{
				SessionID:   sessionID,
				ProjectPath: r.ResolvedProjectPath(),
				LastUsed:    r.Timestamp,
			})
		}

		row := &rows[idx]
		row.TotalCost += r.CostUSD
		row.InputTokens += int64(r.InputTokens)
		row.OutputTokens += int64(r.OutputTokens)
		row.CacheReadTokens += int64(r.CacheReadTokens)
		row.CacheCreationTokens += int64(r.CacheCreationTokens)
		row.TotalTokens = row.InputTokens + row.OutputTokens + row.CacheReadTokens + row.CacheCreationTokens
		row.RequestCount++
		if r.Timestamp.After(row.LastUsed) {
			row.LastUsed = r.Timestamp
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LastUsed.After(rows[j].LastUsed)
	})
	return rows
}

// DailyBreakdown groups records by calendar date, oldest first.
// Dates are taken in the location of each record's timestamp.
func DailyBreakdown(records []models.UsageRecord) []models.DailyUsage {
	rows := make([]models.DailyUsage, 0)
	index := make(map[string]int)

	for i := range records {
		r := &records[i]
		date := r.Date()
		idx, ok := index[date]
		if !ok {
			idx = len(rows)
			index[date] = idx
			rows = append(rows, models.DailyUsage{Date: date, ModelsUsed: []string{}})
		}

		row := &rows[idx]
		row.TotalCost += r.CostUSD
		row.InputTokens += int64(r.InputTokens)
		row.OutputTokens += int64(r.OutputTokens)
		row.CacheReadTokens += int64(r.CacheReadTokens)
		row.CacheCreationTokens += int64(r.CacheCreationTokens)
		row.TotalTokens = row.InputTokens + row.OutputTokens + row.CacheReadTokens + row.CacheCreationTokens
		row.RequestCount++
		if !lo.Contains(row.ModelsUsed, r.Model) {
			row.ModelsUsed = append(row.ModelsUsed, r.Model)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows
}

// SessionKey returns the "projectPath:sessionID" grouping key, with "unknown" for either missing half
func SessionKey(r *models.UsageRecord) string {
	project := r.ProjectPath
	if project == "" {
		project = models.UnknownSession
	}
	session := r.SessionID
	if session == "" {
		session = models.UnknownSession
	}
	return project + ":" + session
}

// distinctSessions returns the distinct non-empty session IDs of the records matching keep
func distinctSessions(records []models.UsageRecord, keep func(models.UsageRecord) bool) []string {
	ids := lo.FilterMap(records, func(r models.UsageRecord, _ int) (string, bool) {
		return r.SessionID, r.SessionID != "" && keep(r)
	})
	return lo.Uniq(ids)
}

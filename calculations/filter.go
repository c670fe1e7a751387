package calculations

import (
	"time"

	"github.com/samber/lo"

	"github.com/penwyp/claudestat/models"
)

// FilterByTimeRange returns the records inside rng, measured back from the current time.
// Now is read once per call.
func FilterByTimeRange(records []models.UsageRecord, rng models.TimeRange) []models.UsageRecord {
	return FilterByTimeRangeAt(records, rng, time.Now())
}

// FilterByTimeRangeAt is FilterByTimeRange with an explicit reference time.
// A record is kept when its timestamp is not before now minus the range window.
// AllTime returns the input unchanged.
func FilterByTimeRangeAt(records []models.UsageRecord, rng models.TimeRange, now time.Time) []models.UsageRecord {
	window := rng.Window()
	if window == 0 {
		return records
	}

	cutoff := now.Add(-window)
	return lo.Filter(records, func(r models.UsageRecord, _ int) bool {
		return !r.Timestamp.Before(cutoff)
	})
}

// InLocation returns a copy of records with timestamps converted to loc.
// Daily keys follow the location of the timestamps, so this decides which calendar day a record lands on.
func InLocation(records []models.UsageRecord, loc *time.Location) []models.UsageRecord {
	if loc == nil {
		return records
	}
	return lo.Map(records, func(r models.UsageRecord, _ int) models.UsageRecord {
		r.Timestamp = r.Timestamp.In(loc)
		return r
	})
}

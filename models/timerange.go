package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange is a named relative window used to filter records before aggregation
type TimeRange int

const (
	AllTime TimeRange = iota
	Last7Days
	Last30Days
)

// Label returns the display label of the range
func (r TimeRange) Label() string {
	switch r {
	case Last7Days:
		return "7 Days"
	case Last30Days:
		return "30 Days"
	default:
		return "All Time"
	}
}

// String returns the configuration token for the range
func (r TimeRange) String() string {
	switch r {
	case Last7Days:
		return "7d"
	case Last30Days:
		return "30d"
	default:
		return "all"
	}
}

// Window returns the look-back duration, or zero for AllTime
func (r TimeRange) Window() time.Duration {
	switch r {
	case Last7Days:
		return 7 * 24 * time.Hour
	case Last30Days:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// ParseTimeRange parses a configuration token such as "all", "7d" or "30d"
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "alltime", "all-time":
		return AllTime, nil
	case "7d", "7", "week", "last7days":
		return Last7Days, nil
	case "30d", "30", "month", "last30days":
		return Last30Days, nil
	default:
		return AllTime, fmt.Errorf("invalid time range: %s (valid options: all, 7d, 30d)", s)
	}
}

// TimeRanges returns every supported range in display order
func TimeRanges() []TimeRange {
	return []TimeRange{AllTime, Last30Days, Last7Days}
}

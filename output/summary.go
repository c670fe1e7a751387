package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/penwyp/claudestat/models"
)

const defaultBarWidth = 30

// SummaryFormatter renders a compact text report with a cost bar per day
type SummaryFormatter struct {
	Limit    int
	BarWidth int
}

// Format implements Formatter
func (f *SummaryFormatter) Format(w io.Writer, report *Report) error {
	stats := report.stats()
	now := report.now()

	var b strings.Builder
	title := report.Title()
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
	if report.Notice != "" {
		fmt.Fprintf(&b, "%s\n", report.Notice)
	}

	if stats.IsEmpty() {
		b.WriteString("\nNo data found.\n")
	} else {
		b.WriteString("\nOverview:\n")
		fmt.Fprintf(&b, "  Total Cost:     %s\n", FormatCurrency(stats.TotalCost))
		fmt.Fprintf(&b, "  Total Tokens:   %s (input %s, output %s, cache read %s, cache write %s)\n",
			FormatTokens(stats.TotalTokens),
			FormatTokens(stats.TotalInputTokens),
			FormatTokens(stats.TotalOutputTokens),
			FormatTokens(stats.TotalCacheReadTokens),
			FormatTokens(stats.TotalCacheCreationTokens))
		fmt.Fprintf(&b, "  Sessions:       %d (avg %s)\n", stats.SessionCount, FormatCurrency(stats.AvgCostPerSession()))
		fmt.Fprintf(&b, "  Requests:       %d\n", stats.RequestCount())
		fmt.Fprintf(&b, "  Active Days:    %d (avg %s/day)\n", stats.ActiveDays(), FormatCurrency(stats.AvgDailyCost()))

		b.WriteString("\nModels:\n")
		for _, m := range head(stats.Models, f.Limit) {
			fmt.Fprintf(&b, "  %-24s %9s  %6s  %d requests\n",
				m.DisplayName, FormatCurrency(m.TotalCost), share(m.TotalCost, stats.TotalCost), m.RequestCount)
		}

		b.WriteString("\nProjects:\n")
		for _, p := range head(stats.Projects, f.Limit) {
			fmt.Fprintf(&b, "  %-24s %9s  %d sessions, last used %s\n",
				p.ProjectName, FormatCurrency(p.TotalCost), p.SessionCount, FormatRelativeTime(p.LastUsed, now))
		}

		b.WriteString("\nSessions:\n")
		for _, s := range head(stats.Sessions, f.Limit) {
			fmt.Fprintf(&b, "  %-10s %-24s %9s  %s\n",
				shortID(s.SessionID), TruncateProjectPath(s.ProjectPath, 24), FormatCurrency(s.TotalCost),
				FormatRelativeTime(s.LastUsed, now))
		}

		b.WriteString("\nTimeline:\n")
		days := tail(stats.Daily, f.Limit)
		peak := lo.MaxBy(days, func(a, b models.DailyUsage) bool {
			return a.TotalCost > b.TotalCost
		})
		width := f.BarWidth
		if width <= 0 {
			width = defaultBarWidth
		}
		for _, d := range days {
			bar := NewShareBar(d.TotalCost, peak.TotalCost, width)
			fmt.Fprintf(&b, "  %s %s %9s  %d requests\n", d.Date, bar.Render(), FormatCurrency(d.TotalCost), d.RequestCount)
		}
	}

	diag := report.Diagnostics
	b.WriteString("\nLoad:\n")
	fmt.Fprintf(&b, "  Files:          %d/%d processed\n", diag.FilesProcessed, diag.FilesDiscovered)
	fmt.Fprintf(&b, "  Duplicates:     %d\n", diag.Duplicates)
	fmt.Fprintf(&b, "  Errors:         %d lines, %d files\n", diag.LineErrors, diag.FileErrors)
	fmt.Fprintf(&b, "  Duration:       %v\n", diag.Duration.Round(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return err
}

// share formats part as a percentage of total
func share(part, total float64) string {
	if total <= 0 {
		return FormatPercentage(0)
	}
	return FormatPercentage(part / total * 100)
}

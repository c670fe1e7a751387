package output

import (
	"fmt"
	"strings"
	"time"
)

// FormatCurrency formats a USD amount, keeping more precision for small values
func FormatCurrency(amount float64) string {
	switch {
	case amount == 0:
		return "$0.00"
	case amount < 0.01:
		return fmt.Sprintf("$%.4f", amount)
	case amount < 1:
		return fmt.Sprintf("$%.3f", amount)
	default:
		return fmt.Sprintf("$%.2f", amount)
	}
}

// FormatTokens formats a token count with a K, M or B suffix
func FormatTokens(tokens int64) string {
	switch {
	case tokens < 1_000:
		return fmt.Sprintf("%d", tokens)
	case tokens < 1_000_000:
		return fmt.Sprintf("%.1fK", float64(tokens)/1_000)
	case tokens < 1_000_000_000:
		return fmt.Sprintf("%.1fM", float64(tokens)/1_000_000)
	default:
		return fmt.Sprintf("%.1fB", float64(tokens)/1_000_000_000)
	}
}

// FormatPercentage formats a percentage with one decimal
func FormatPercentage(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatRelativeTime describes t relative to now, e.g. "3 hours ago"
func FormatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := now.Sub(t)
	switch {
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// TruncateProjectPath shortens a path to at most maxLen characters.
// Paths with several components keep only the last one behind ".../".
func TruncateProjectPath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}

	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		return ".../" + parts[len(parts)-1]
	}

	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

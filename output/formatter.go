package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/penwyp/claudestat/models"
)

// Output format names
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

// Formatter renders a report to w
type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// NewFormatter returns the formatter for format.
// limit caps the rows of each breakdown; 0 shows everything.
func NewFormatter(format string, limit int) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return &TableFormatter{Limit: limit}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	case FormatSummary:
		return &SummaryFormatter{Limit: limit}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97706"))
	sectionStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// TableFormatter renders every view as a bordered table
type TableFormatter struct {
	Limit int
}

// Format implements Formatter
func (f *TableFormatter) Format(w io.Writer, report *Report) error {
	stats := report.stats()
	now := report.now()

	var b strings.Builder
	b.WriteString(titleStyle.Render(report.Title()))
	b.WriteString("\n")
	if report.Notice != "" {
		b.WriteString(noticeStyle.Render(report.Notice))
		b.WriteString("\n")
	}

	if stats.IsEmpty() {
		b.WriteString(fmt.Sprintf("\nNo usage data found for %s.\n", strings.ToLower(report.Range.Label())))
		_, err := io.WriteString(w, b.String())
		return err
	}

	section := func(name, body string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	section("Overview", renderTable(
		[]string{"Total Cost", "Total Tokens", "Sessions", "Requests", "Active Days", "Avg/Day", "Avg/Session"},
		[][]string{{
			FormatCurrency(stats.TotalCost),
			FormatTokens(stats.TotalTokens),
			strconv.Itoa(stats.SessionCount),
			strconv.Itoa(stats.RequestCount()),
			strconv.Itoa(stats.ActiveDays()),
			FormatCurrency(stats.AvgDailyCost()),
			FormatCurrency(stats.AvgCostPerSession()),
		}},
		0, nil,
	))

	modelRows := head(stats.Models, f.Limit)
	section("Models", renderTable(
		[]string{"Model", "Requests", "Input", "Output", "Cache Read", "Cache Write", "Tokens", "Cost"},
		modelTableRows(modelRows),
		1,
		func(row, col int, s lipgloss.Style) lipgloss.Style {
			if col == 0 && row < len(modelRows) {
				return s.Foreground(lipgloss.Color(models.ModelColor(modelRows[row].Model)))
			}
			return s
		},
	))

	section("Projects", renderTable(
		[]string{"Project", "Path", "Sessions", "Requests", "Tokens", "Cost", "Last Used"},
		projectTableRows(head(stats.Projects, f.Limit), now),
		2, nil,
	))

	section("Sessions", renderTable(
		[]string{"Session", "Project", "Requests", "Tokens", "Cost", "Last Used"},
		sessionTableRows(head(stats.Sessions, f.Limit), now),
		2, nil,
	))

	section("Timeline", renderTable(
		[]string{"Date", "Requests", "Tokens", "Cost", "Models"},
		dailyTableRows(tail(stats.Daily, f.Limit)),
		1,
		func(_, col int, s lipgloss.Style) lipgloss.Style {
			if col == 4 {
				return s.Align(lipgloss.Left)
			}
			return s
		},
	))

	_, err := io.WriteString(w, b.String())
	return err
}

// renderTable draws a bordered table; columns from textCols on are right aligned
func renderTable(headers []string, rows [][]string, textCols int, style func(row, col int, s lipgloss.Style) lipgloss.Style) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			s := cellStyle
			if col >= textCols {
				s = s.Align(lipgloss.Right)
			}
			if style != nil {
				s = style(row, col, s)
			}
			return s
		})
	return t.Render()
}

func modelTableRows(rows []models.ModelStats) [][]string {
	out := make([][]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, []string{
			m.DisplayName,
			strconv.Itoa(m.RequestCount),
			FormatTokens(m.InputTokens),
			FormatTokens(m.OutputTokens),
			FormatTokens(m.CacheReadTokens),
			FormatTokens(m.CacheCreationTokens),
			FormatTokens(m.TotalTokens),
			FormatCurrency(m.TotalCost),
		})
	}
	return out
}

func projectTableRows(rows []models.ProjectStats, now time.Time) [][]string {
	out := make([][]string, 0, len(rows))
	for _, p := range rows {
		out = append(out, []string{
			p.ProjectName,
			TruncateProjectPath(p.ProjectPath, 40),
			strconv.Itoa(p.SessionCount),
			strconv.Itoa(p.RequestCount),
			FormatTokens(p.TotalTokens),
			FormatCurrency(p.TotalCost),
			FormatRelativeTime(p.LastUsed, now),
		})
	}
	return out
}

func sessionTableRows(rows []models.SessionStats, now time.Time) [][]string {
	out := make([][]string, 0, len(rows))
	for _, s := range rows {
		out = append(out, []string{
			shortID(s.SessionID),
			TruncateProjectPath(s.ProjectPath, 40),
			strconv.Itoa(s.RequestCount),
			FormatTokens(s.TotalTokens),
			FormatCurrency(s.TotalCost),
			FormatRelativeTime(s.LastUsed, now),
		})
	}
	return out
}

func dailyTableRows(rows []models.DailyUsage) [][]string {
	out := make([][]string, 0, len(rows))
	for _, d := range rows {
		out = append(out, []string{
			d.Date,
			strconv.Itoa(d.RequestCount),
			FormatTokens(d.TotalTokens),
			FormatCurrency(d.TotalCost),
			strings.Join(displayNames(d.ModelsUsed), ", "),
		})
	}
	return out
}

func displayNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, models.DisplayName(id))
	}
	return names
}

// shortID keeps session UUIDs readable in narrow columns
func shortID(id string) string {
	if len(id) > 8 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}

// JSONFormatter renders the report as indented JSON
type JSONFormatter struct{}

type jsonReport struct {
	Range             string                `json:"range"`
	GeneratedAt       string                `json:"generated_at"`
	Notice            string                `json:"notice,omitempty"`
	TotalCost         float64               `json:"total_cost"`
	TotalTokens       int64                 `json:"total_tokens"`
	InputTokens       int64                 `json:"input_tokens"`
	OutputTokens      int64                 `json:"output_tokens"`
	CacheReadTokens   int64                 `json:"cache_read_tokens"`
	CacheCreateTokens int64                 `json:"cache_creation_tokens"`
	SessionCount      int                   `json:"session_count"`
	RequestCount      int                   `json:"request_count"`
	ActiveDays        int                   `json:"active_days"`
	AvgDailyCost      float64               `json:"avg_daily_cost"`
	AvgSessionCost    float64               `json:"avg_cost_per_session"`
	Models            []models.ModelStats   `json:"models"`
	Projects          []models.ProjectStats `json:"projects"`
	Sessions          []models.SessionStats `json:"sessions"`
	Daily             []models.DailyUsage   `json:"daily"`
	Diagnostics       Diagnostics           `json:"diagnostics"`
}

// Format implements Formatter
func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	stats := report.stats()
	out := jsonReport{
		Range:             report.Range.String(),
		GeneratedAt:       report.now().Format(models.DisplayTimeFormat),
		Notice:            report.Notice,
		TotalCost:         stats.TotalCost,
		TotalTokens:       stats.TotalTokens,
		InputTokens:       stats.TotalInputTokens,
		OutputTokens:      stats.TotalOutputTokens,
		CacheReadTokens:   stats.TotalCacheReadTokens,
		CacheCreateTokens: stats.TotalCacheCreationTokens,
		SessionCount:      stats.SessionCount,
		RequestCount:      stats.RequestCount(),
		ActiveDays:        stats.ActiveDays(),
		AvgDailyCost:      stats.AvgDailyCost(),
		AvgSessionCost:    stats.AvgCostPerSession(),
		Models:            stats.Models,
		Projects:          stats.Projects,
		Sessions:          stats.Sessions,
		Daily:             stats.Daily,
		Diagnostics:       report.Diagnostics,
	}

	data, err := sonic.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// CSVFormatter renders the daily timeline as CSV
type CSVFormatter struct{}

// Format implements Formatter
func (f *CSVFormatter) Format(w io.Writer, report *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Date", "Requests", "Input Tokens", "Output Tokens",
		"Cache Read", "Cache Creation", "Total Tokens", "Cost USD", "Models"}); err != nil {
		return err
	}

	for _, d := range report.stats().Daily {
		if err := writer.Write([]string{
			d.Date,
			strconv.Itoa(d.RequestCount),
			strconv.FormatInt(d.InputTokens, 10),
			strconv.FormatInt(d.OutputTokens, 10),
			strconv.FormatInt(d.CacheReadTokens, 10),
			strconv.FormatInt(d.CacheCreationTokens, 10),
			strconv.FormatInt(d.TotalTokens, 10),
			fmt.Sprintf("%.4f", d.TotalCost),
			strings.Join(d.ModelsUsed, ";"),
		}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

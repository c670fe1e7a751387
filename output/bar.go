package output

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BarStyle controls how a ShareBar is drawn
type BarStyle struct {
	BarChar   string
	EmptyChar string
	Color     lipgloss.Color
}

// DefaultBarStyle is used by the summary timeline
var DefaultBarStyle = BarStyle{
	BarChar:   "█",
	EmptyChar: "░",
	Color:     "#3B82F6",
}

// ShareBar draws value as a fraction of max, e.g. one day's cost against the busiest day
type ShareBar struct {
	Value float64
	Max   float64
	Width int
	Style BarStyle
}

// NewShareBar creates a bar of the given width with the default style
func NewShareBar(value, max float64, width int) *ShareBar {
	if width < 1 {
		width = 1
	}
	return &ShareBar{Value: value, Max: max, Width: width, Style: DefaultBarStyle}
}

// Percentage returns value/max in the range 0-100
func (b *ShareBar) Percentage() float64 {
	if b.Max <= 0 || b.Value <= 0 {
		return 0
	}
	return math.Min(100, b.Value/b.Max*100)
}

// Render draws the bar without brackets or labels
func (b *ShareBar) Render() string {
	fill := int(math.Round(float64(b.Width) * b.Percentage() / 100))
	if fill == 0 && b.Percentage() > 0 {
		// Any usage shows at least one cell
		fill = 1
	}
	if fill > b.Width {
		fill = b.Width
	}

	bar := strings.Repeat(b.Style.BarChar, fill) + strings.Repeat(b.Style.EmptyChar, b.Width-fill)
	if b.Style.Color != "" {
		return lipgloss.NewStyle().Foreground(b.Style.Color).Render(bar)
	}
	return bar
}

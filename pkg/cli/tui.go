package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of a live view.
type Theme struct {
	Primary lipgloss.Color // accent: border, title and bars
	Dim     lipgloss.Color // help and secondary text
}

// DefaultTheme is the calm blue used when a view has no accent of its own.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#7eb8da"),
	Dim:     lipgloss.Color("#6e7681"),
}

// WithPrimary returns t with a different accent color.
func (t Theme) WithPrimary(hex string) Theme {
	if hex != "" {
		t.Primary = lipgloss.Color(hex)
	}
	return t
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 1),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Row is one labeled line of a Panel.
type Row struct {
	Label string
	Value string
}

// Panel is a bordered box with a title line, labeled rows and a help line
// underneath.
type Panel struct {
	Styles Styles
	Title  string
	Status string
	Rows   []Row
	Help   string
}

// Render draws the panel with an inner width of width columns. Values wider
// than the panel are truncated with an ellipsis.
func (p Panel) Render(width int) string {
	width = max(width, 16)
	labelWidth := 0
	for _, r := range p.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}

	lines := make([]string, 0, len(p.Rows)+2)
	head := p.Styles.Title.Render(p.Title)
	if p.Status != "" {
		status := p.Styles.Help.Render("[" + p.Status + "]")
		gap := max(1, width-lipgloss.Width(head)-lipgloss.Width(status))
		head += strings.Repeat(" ", gap) + status
	}
	lines = append(lines, head, "")

	for _, r := range p.Rows {
		label := p.Styles.Label.Render(r.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(r.Label)))
		room := width - labelWidth - 2
		value := r.Value
		if room > 1 && lipgloss.Width(value) > room {
			value = truncate(value, room-1) + "…"
		}
		lines = append(lines, label+"  "+value)
	}

	box := p.Styles.Border.Width(width + 2).Render(strings.Join(lines, "\n"))
	if p.Help == "" {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Left, box, p.Styles.Help.Render(p.Help))
}

// Bar renders a horizontal gauge width cells wide filled to frac (0..1).
func Bar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac = min(max(frac, 0), 1)
	n := int(frac*float64(width) + 0.5)
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// truncate cuts s to at most width display columns.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := 0
	for i, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			return s[:i]
		}
		w += rw
	}
	return s
}

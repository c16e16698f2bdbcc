package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styler colours a plain grid for terminal output.
type Styler struct {
	enabled bool
	visited lipgloss.Style
	knot    lipgloss.Style
	origin  lipgloss.Style
	empty   lipgloss.Style
}

// NewStyler returns a Styler. With enabled false, Style returns its input.
// Colors are lipgloss color strings ("10", "#00ff00").
func NewStyler(enabled bool, visitedColor, knotColor string) *Styler {
	return &Styler{
		enabled: enabled,
		visited: lipgloss.NewStyle().Foreground(lipgloss.Color(visitedColor)).Bold(true),
		knot:    lipgloss.NewStyle().Foreground(lipgloss.Color(knotColor)).Bold(true),
		origin:  lipgloss.NewStyle().Underline(true),
		empty:   lipgloss.NewStyle().Faint(true),
	}
}

// Style colours every glyph of grid, line by line.
func (s *Styler) Style(grid string) string {
	if !s.enabled {
		return grid
	}

	lines := strings.Split(grid, "\n")
	for i, line := range lines {
		var b strings.Builder
		for _, r := range line {
			b.WriteString(s.styleFor(r).Render(string(r)))
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (s *Styler) styleFor(r rune) lipgloss.Style {
	switch r {
	case GlyphVisited:
		return s.visited
	case GlyphOrigin:
		return s.origin
	case GlyphEmpty:
		return s.empty
	default:
		return s.knot
	}
}

// Frame wraps a grid in a titled rounded border.
func (s *Styler) Frame(title, grid string) string {
	if !s.enabled {
		return title + "\n" + grid
	}
	header := lipgloss.NewStyle().Bold(true).Render(title)
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(grid)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

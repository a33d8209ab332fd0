package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared with the summary box; matches the fatih/color message colors.
var (
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
)

// SummaryStyles holds the lipgloss styles of the end-of-run box.
type SummaryStyles struct {
	Box   lipgloss.Style
	Title lipgloss.Style
	Line  lipgloss.Style
}

// NewSummaryStyles returns the box styles for a passing or failing run.
func NewSummaryStyles(ok bool) SummaryStyles {
	accent := ColorSuccess
	if !ok {
		accent = ColorError
	}

	border := lipgloss.RoundedBorder()
	if !UseUnicode {
		border = lipgloss.NormalBorder()
	}

	s := SummaryStyles{
		Box: lipgloss.NewStyle().
			Border(border).
			BorderForeground(accent).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Line: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}

	if !UseColors {
		s.Box = s.Box.UnsetBorderForeground()
		s.Title = lipgloss.NewStyle().Bold(true)
		s.Line = lipgloss.NewStyle()
	}

	return s
}

// RenderSummary draws the final run summary as a bordered box.
func RenderSummary(title string, lines []string, ok bool) string {
	s := NewSummaryStyles(ok)

	body := s.Title.Render(title)
	if len(lines) > 0 {
		rendered := make([]string, len(lines))
		for i, l := range lines {
			rendered[i] = s.Line.Render(l)
		}
		body += "\n" + strings.Join(rendered, "\n")
	}

	return s.Box.Render(body)
}

// PrintSummary prints RenderSummary's output.
func PrintSummary(title string, lines []string, ok bool) {
	fmt.Println(RenderSummary(title, lines, ok))
}

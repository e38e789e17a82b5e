package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/dclfront/internal/app"
)

var (
	errorColor   = lipgloss.Color("#CC3333")
	warningColor = lipgloss.Color("#FF8800")
	goodColor    = lipgloss.Color("#228B22")

	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(goodColor).Bold(true)
)

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func formatSummary(s *app.CheckSummary) string {
	docs := plural(s.Documents, "document")
	switch {
	case s.Errors > 0:
		return errorStyle.Render(fmt.Sprintf("✗ %s, %s in %s", plural(s.Errors, "error"), plural(s.Warnings, "warning"), docs))
	case s.Warnings > 0:
		return warningStyle.Render(fmt.Sprintf("! %s in %s", plural(s.Warnings, "warning"), docs))
	default:
		return goodStyle.Render(fmt.Sprintf("✓ %s checked, no problems found", docs))
	}
}

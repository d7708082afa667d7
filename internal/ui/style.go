package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the accents used in command output. Colors are dropped
// automatically when the writer is not a terminal.
type Styles struct {
	Bold    lipgloss.Style
	Skipped lipgloss.Style
	Failed  lipgloss.Style
	Updated lipgloss.Style
}

// NewStyles returns styles rendered for out.
func NewStyles(out io.Writer) Styles {
	r := lipgloss.NewRenderer(out)
	return Styles{
		Bold:    r.NewStyle().Bold(true),
		Skipped: r.NewStyle().Foreground(lipgloss.Color("3")),
		Failed:  r.NewStyle().Foreground(lipgloss.Color("1")),
		Updated: r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

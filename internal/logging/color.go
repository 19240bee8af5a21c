package logging

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorMuted = lipgloss.Color("240")
	colorError = lipgloss.Color("196")
)

// ColorEnabled reports whether f is a terminal that should get colored
// prefixes. NO_COLOR and CI turn color off.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// NewTerminalLogger writes to f, coloring the VERBOSE and ERROR prefixes
// when f is an interactive terminal.
func NewTerminalLogger(f *os.File, verbose bool) *ConsoleLogger {
	l := NewConsoleLoggerTo(f, verbose)
	if !ColorEnabled(f) {
		return l
	}
	r := lipgloss.NewRenderer(f)
	l.verbosePrefix = r.NewStyle().Foreground(colorMuted).Render("[VERBOSE]") + " "
	l.errorPrefix = r.NewStyle().Foreground(colorError).Bold(true).Render("[ERROR]") + " "
	return l
}

package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	ColorRed    = lipgloss.Color("9")
	ColorYellow = lipgloss.Color("11")
	ColorGreen  = lipgloss.Color("10")
	ColorCyan   = lipgloss.Color("14")
	ColorGray   = lipgloss.Color("8")
)

// palette renders with ANSI colors regardless of the output it is written to
var palette = func() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}()

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text string, color lipgloss.Color, useColor bool) string {
	if !useColor || text == "" {
		return text
	}
	return palette.NewStyle().Foreground(color).Render(text)
}

// ShouldUseColor determines if color output should be used.
// Respects --no-color flag and NO_COLOR environment variable
func ShouldUseColor(w io.Writer, noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

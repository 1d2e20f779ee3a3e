package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "usage", "check", "grammar"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var cliErr *CLIError
	var hlErr *clherrors.HighlightError
	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &hlErr):
		formatHighlightError(w, hlErr, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatHighlightError prints the error chain and its context, sorted by key
func formatHighlightError(w io.Writer, err *clherrors.HighlightError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	for _, key := range slices.Sorted(maps.Keys(err.Context)) {
		_, _ = fmt.Fprintf(w, "  %s\n", Colorize(fmt.Sprintf("%s: %v", key, err.Context[key]), ColorGray, useColor))
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}

// Package ui provides terminal output helpers for ormf
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var (
	// Colors
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()

	// Styled
	Success = color.New(color.FgGreen, color.Bold).SprintFunc()
	Warning = color.New(color.FgYellow, color.Bold).SprintFunc()
	Error   = color.New(color.FgRed, color.Bold).SprintFunc()
	Info    = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetColor turns styled output on or off. Colors are only ever enabled
// when stderr is a terminal and NO_COLOR is unset.
func SetColor(enabled bool) {
	if !enabled || os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stderr) {
		color.NoColor = true
		return
	}
	color.NoColor = false
}

// ColorEnabled reports the current color state
func ColorEnabled() bool {
	return !color.NoColor
}

// PrintError writes "Error: <message>" to w
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", Error("Error:"), err)
}

// PrintSuccess displays a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", Success("✓"), message)
}

// PrintWarning displays a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", Warning("⚠"), message)
}

// PrintInfo displays an info message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", Info("ℹ"), message)
}

// Item is one entry of a list. Detail is optional.
type Item struct {
	Name   string
	Detail string
}

// PrintList writes a titled list, marking the item named active
func PrintList(w io.Writer, title string, items []Item, active string) {
	fmt.Fprintln(w, Bold(title))
	for _, item := range items {
		marker := "  "
		if item.Name == active {
			marker = Green("▶ ")
		}
		if item.Detail == "" {
			fmt.Fprintf(w, "%s%s\n", marker, item.Name)
			continue
		}
		fmt.Fprintf(w, "%s%-20s %s\n", marker, item.Name, Dim(Truncate(item.Detail, 60)))
	}
}

// PrintField writes an aligned "label: value" line, skipping empty values
func PrintField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%-16s %s\n", label+":", value)
}

// Truncate shortens s to maxLen runes with an ellipsis
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

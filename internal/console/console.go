// Package console renders diagnostics for the CLI: IDE-parseable
// file:line:col prefixes, a caret under the offending column, and styling
// that switches off when stdout is not a terminal.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/gvx/kyss"
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))
)

// isTTY checks if stdout is a terminal.
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// applyStyle conditionally applies styling based on TTY status.
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to a path relative to the
// current working directory, falling back to the input.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}

// FormatSyntaxError renders a parse failure with its source line and a
// caret under the offending column.
func FormatSyntaxError(path string, e *kyss.SyntaxError) string {
	var out strings.Builder

	location := fmt.Sprintf("%s:%d:%d:", ToRelativePath(path), e.Line, e.Col)
	out.WriteString(applyStyle(filePathStyle, location))
	out.WriteString(" ")
	out.WriteString(applyStyle(errorStyle, "error:"))
	out.WriteString(" ")
	out.WriteString(e.Msg)
	out.WriteString("\n")

	if e.Src != "" {
		num := strconv.Itoa(e.Line)
		out.WriteString(applyStyle(lineNumberStyle, num))
		out.WriteString(" | ")
		line := e.Src
		if e.Col > 0 && e.Col <= len(line) {
			before := line[:e.Col-1]
			errorChar := string(line[e.Col-1])
			after := line[e.Col:]
			out.WriteString(applyStyle(contextLineStyle, before))
			out.WriteString(applyStyle(highlightStyle, errorChar))
			out.WriteString(applyStyle(contextLineStyle, after))
		} else {
			out.WriteString(applyStyle(contextLineStyle, line))
		}
		out.WriteString("\n")
		if e.Col > 0 {
			padding := strings.Repeat(" ", len(num)+3+e.Col-1)
			out.WriteString(padding)
			out.WriteString(applyStyle(errorStyle, "^"))
			out.WriteString("\n")
		}
	}

	return out.String()
}

// FormatIssues renders schema issues one per line, each with its document
// position and JSON-pointer path.
func FormatIssues(path string, iss kyss.Issues) string {
	var out strings.Builder
	for _, it := range iss {
		location := ToRelativePath(path) + ":"
		if it.Line > 0 {
			location = fmt.Sprintf("%s:%d:", ToRelativePath(path), it.Line)
		}
		out.WriteString(applyStyle(filePathStyle, location))
		out.WriteString(" ")
		out.WriteString(applyStyle(errorStyle, "error:"))
		out.WriteString(" ")
		if it.Path != "" {
			out.WriteString(it.Path)
			out.WriteString(": ")
		}
		out.WriteString(it.Message)
		out.WriteString("\n")
		if it.Hint != "" {
			out.WriteString(applyStyle(hintStyle, "hint: "))
			out.WriteString(it.Hint)
			out.WriteString("\n")
		}
	}
	return out.String()
}

// FormatError renders any parse or match failure, picking the richest
// rendering the error supports.
func FormatError(path string, err error) string {
	if se, ok := kyss.AsSyntaxError(err); ok {
		return FormatSyntaxError(path, se)
	}
	if iss, ok := kyss.AsIssues(err); ok {
		return FormatIssues(path, iss)
	}
	return applyStyle(errorStyle, "error:") + " " + err.Error() + "\n"
}

// FormatSuccessMessage formats a success message with styling.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatErrorMessage formats a simple error message (for stderr output).
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// Package ui formats CLI output.
package ui

import (
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB800"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6C757D")).
			Padding(0, 1)
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	mutedColor   = color.New(color.Faint)
)

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintln(w, "✓ "+fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...any) {
	errorColor.Fprintln(w, "✗ "+fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...any) {
	warningColor.Fprintln(w, "⚠ "+fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprintln(w, "ℹ "+fmt.Sprintf(format, args...))
}

// PrintComment prints a line as an SQL comment.
func PrintComment(w io.Writer, format string, args ...any) {
	mutedColor.Fprintln(w, "-- "+fmt.Sprintf(format, args...))
}

// PrintTable prints rows under headers.
func PrintTable(w io.Writer, headers []string, rows [][]string) error {
	data := pterm.TableData{headers}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// PrintBox prints content in a bordered box under a title.
func PrintBox(w io.Writer, title, content string) {
	fmt.Fprintln(w, boxStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content),
	))
}

// PrintMarkdown renders markdown for the terminal.
func PrintMarkdown(w io.Writer, content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(content)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// Confirm asks a yes/no question. It returns true without asking when
// assumeYes is set.
func Confirm(message string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	ok := false
	prompt := &survey.Confirm{Message: message, Default: false}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Out is where all human-readable output goes.
var Out io.Writer = os.Stdout

var (
	primaryColor   = lipgloss.Color("#7C3AED") // purple
	secondaryColor = lipgloss.Color("#10B981") // green
	mutedColor     = lipgloss.Color("#6B7280") // gray
	dangerColor    = lipgloss.Color("#EF4444") // red
	warnColor      = lipgloss.Color("#F59E0B") // yellow

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	okStyle      = lipgloss.NewStyle().Foreground(secondaryColor)
	warnStyle    = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle   = lipgloss.NewStyle().Foreground(dangerColor)
	updateStyle  = lipgloss.NewStyle().Bold(true).Foreground(warnColor)
	currentStyle = lipgloss.NewStyle().Foreground(secondaryColor)
)

func ShowHeader(title string) {
	rule := mutedStyle.Render(strings.Repeat("─", len(title)+2))
	fmt.Fprintf(Out, " %s\n", rule)
	fmt.Fprintf(Out, " %s\n", titleStyle.Render(title))
	fmt.Fprintf(Out, " %s\n", rule)
}

func ShowSuccess(format string, args ...interface{}) {
	fmt.Fprintf(Out, " %s %s\n", okStyle.Render("✓"), fmt.Sprintf(format, args...))
}

func ShowError(msg string, err error) {
	mark := errorStyle.Render("✗")
	if err != nil {
		fmt.Fprintf(Out, " %s %s: %v\n", mark, msg, err)
	} else {
		fmt.Fprintf(Out, " %s %s\n", mark, msg)
	}
}

func ShowWarning(format string, args ...interface{}) {
	fmt.Fprintf(Out, " %s %s\n", warnStyle.Render("!"), fmt.Sprintf(format, args...))
}

func ShowInfo(format string, args ...interface{}) {
	fmt.Fprintf(Out, " %s %s\n", mutedStyle.Render("ℹ"), fmt.Sprintf(format, args...))
}

// ShowField prints an aligned "label: value" line.
func ShowField(label, value string) {
	if value == "" {
		value = mutedStyle.Render("(none)")
	}
	fmt.Fprintf(Out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label+":")), value)
}

// ShowAppStatus prints one row of an update check.
func ShowAppStatus(title, installed, latest string, available bool) {
	state := currentStyle.Render("up to date")
	if available {
		state = updateStyle.Render("update available")
	}
	if latest == "" {
		latest = mutedStyle.Render("unknown")
	}
	fmt.Fprintf(Out, "  %-24s %-12s → %-12s %s\n", title, installed, latest, state)
}

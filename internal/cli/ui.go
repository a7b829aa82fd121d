package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/RaiVaibhav/IGitt/pkg/hosting"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // open, success
	colorYellow = lipgloss.Color("220") // pending, warnings
	colorRed    = lipgloss.Color("167") // failures
	colorPurple = lipgloss.Color("141") // merged
	colorBlue   = lipgloss.Color("75")  // links
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for issue numbers and counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleFailure = lipgloss.NewStyle().Foreground(colorRed)
	StyleMerged  = lipgloss.NewStyle().Foreground(colorPurple)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// statusOut receives status lines. Results go to CLI.Out, so that
// "-o json" output stays parseable.
var statusOut io.Writer = os.Stderr

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(statusOut, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printInline prints a dim message without a trailing newline.
func printInline(format string, args ...any) {
	fmt.Fprint(statusOut, StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printNewline() {
	fmt.Fprintln(statusOut)
}

// printKeyValue prints a labeled value on the status stream.
func printKeyValue(key, value string) {
	fprintKeyValue(statusOut, key, value)
}

// =============================================================================
// Result Output
// =============================================================================

func fprintKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// fprintItem prints one entry of a list.
func fprintItem(w io.Writer, value string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+styleValue.Render(value))
}

// stateStyle colors an issue or merge request state.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case hosting.StateOpen.String():
		return StyleSuccess
	case hosting.StateMerged.String():
		return StyleMerged
	}
	return StyleDim
}

// statusStyle colors a commit status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case hosting.StatusSuccess.String():
		return StyleSuccess
	case hosting.StatusPending.String(), hosting.StatusRunning.String():
		return StyleWarning
	case hosting.StatusError.String(), hosting.StatusFailed.String():
		return StyleFailure
	}
	return StyleDim
}

// formatRelativeTime renders recent times relative to now and older ones
// as a date.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

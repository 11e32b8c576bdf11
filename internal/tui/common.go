package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewStaff
	viewWeekly
	viewFinal
)

var viewNames = []string{"Dashboard", "Projects", "Staff", "Weekly", "Final"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	paths []string
}

// reportSavedMsg tells the app to refresh views that summarise reports.
type reportSavedMsg struct {
	id string
}

// --- Helpers ---

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return errorStatus(err) }
}

// errorStatus renders err for the status line, naming its kind.
func errorStatus(err error) statusMsg {
	prefix := "Error"
	switch {
	case errors.Is(err, apperr.ErrValidation):
		prefix = "Invalid"
	case errors.Is(err, apperr.ErrPermission):
		prefix = "Not allowed"
	case errors.Is(err, apperr.ErrNotFound):
		prefix = "Not found"
	case errors.Is(err, apperr.ErrAlreadyExists):
		prefix = "Duplicate"
	}
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

// progressBar draws pct (0-100) as a fixed-width bar.
func progressBar(pct float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(width, filled))
	return successStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func projectStatusStyle(s store.ProjectStatus) lipgloss.Style {
	switch s {
	case store.ProjectCompleted:
		return successStyle
	case store.ProjectCancelled:
		return errorStyle
	case store.ProjectPaused:
		return warningStyle
	case store.ProjectInProgress:
		return highlightStyle
	}
	return mutedStyle
}

func weeklyStatusStyle(label string) lipgloss.Style {
	switch label {
	case "Completed", "On Track":
		return successStyle
	case "Behind Schedule":
		return errorStyle
	}
	return mutedStyle
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// cursorRow renders one selectable list line.
func cursorRow(selected bool, text string) string {
	if selected {
		return selectedItemStyle.Render("> " + text)
	}
	return normalItemStyle.Render("  " + text)
}

// clampCursor keeps a cursor within a list of n items.
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	return max(0, cursor)
}

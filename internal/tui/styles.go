package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive so the UI stays readable on light terminals.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#3D5AFE", Dark: "#82AAFF"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "#C2185B", Dark: "#F78C6C"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#676E95"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#C3E88D"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#EF6C00", Dark: "#FFCB6B"}
	colorError     = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5370"}
	colorFg        = lipgloss.AdaptiveColor{Light: "#263238", Dark: "#EEFFFF"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "#CFD8DC", Dark: "#3B4252"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#00838F", Dark: "#89DDFF"}
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	panelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary).Padding(1, 2)

	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	subtitleStyle   = lipgloss.NewStyle().Italic(true).Foreground(colorMuted)
	metricStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle      = lipgloss.NewStyle().Foreground(colorMuted).Width(18)
	headerCellStyle = lipgloss.NewStyle().Foreground(colorMuted).Underline(true)

	accentStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	headerStyle      = lipgloss.NewStyle().Padding(0, 1)
	footerStyle      = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	statusErrorStyle = errorStyle.Bold(true)

	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorFg)
)

package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pmdesk/internal/export"
	"github.com/sadopc/pmdesk/internal/report"
	"github.com/sadopc/pmdesk/internal/store"
)

// Export formats offered by the picker.
const (
	exportCSV = iota
	exportJSON
)

// App is the root Bubble Tea model.
type App struct {
	store     store.Store
	svc       *report.Service
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	projects  projectsModel
	staff     staffModel
	weekly    weeklyModel
	final     finalModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s store.Store, svc *report.Service, exportDir string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		svc:        svc,
		exportDir:  exportDir,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s),
		projects:   newProjectsModel(s),
		staff:      newStaffModel(s),
		weekly:     newWeeklyModel(s, svc),
		final:      newFinalModel(s, svc),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.dashboard.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.staff.setSize(a.width, contentHeight)
		a.weekly.setSize(a.width, contentHeight)
		a.final.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = exportCSV
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewProjects)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewStaff)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewWeekly)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewFinal)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + strings.Join(msg.paths, ", ")
		a.statusError = false
		a.exportPicking = false
		return a, nil

	case reportSavedMsg:
		return a, a.dashboard.loadData()

	// Data loads go to their owner regardless of which tab is showing.
	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	case projectsDataMsg, tasksDataMsg:
		var cmd tea.Cmd
		a.projects, cmd = a.projects.update(msg)
		return a, cmd
	case staffDataMsg:
		var cmd tea.Cmd
		a.staff, cmd = a.staff.update(msg)
		return a, cmd
	case weeklyDataMsg:
		var cmd tea.Cmd
		a.weekly, cmd = a.weekly.update(msg)
		return a, cmd
	case finalDataMsg:
		var cmd tea.Cmd
		a.final, cmd = a.final.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewStaff:
		a.staff, cmd = a.staff.update(msg)
	case viewWeekly:
		a.weekly, cmd = a.weekly.update(msg)
	case viewFinal:
		a.final, cmd = a.final.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewProjects:
		return a.projects.formActive
	case viewStaff:
		return a.staff.formActive
	case viewWeekly:
		return a.weekly.inForm()
	case viewFinal:
		return a.final.inForm()
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewProjects:
		return a.projects.refresh()
	case viewStaff:
		return a.staff.refresh()
	case viewWeekly:
		return a.weekly.refresh()
	case viewFinal:
		return a.final.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewProjects:
		content = a.projects.view()
	case viewStaff:
		content = a.staff.view()
	case viewWeekly:
		content = a.weekly.view()
	case viewFinal:
		content = a.final.view()
	}

	// Calculate available height for content
	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pmdesk")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	right := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = statusErrorStyle
		}
		right = style.Render(" " + a.status)
	}

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	formats := []string{
		"CSV  (" + export.WeeklyCSVFile + ", " + export.FinalCSVFile + ")",
		"JSON (one combined file)",
	}
	rows := []string{titleStyle.Render("Export Reports"), mutedStyle.Render("to " + a.exportDir), ""}
	for i, f := range formats {
		rows = append(rows, cursorRow(i == a.exportCursor, f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > exportCSV {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < exportJSON {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		paths, err := exportReports(a.store, a.exportDir, format, time.Now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{paths: paths}
	}
}

// exportReports writes every weekly and final report to dir.
func exportReports(s store.Store, dir string, format int, now time.Time) ([]string, error) {
	weekly, err := s.ListWeeklyReports("")
	if err != nil {
		return nil, err
	}
	final, err := s.ListFinalReports("")
	if err != nil {
		return nil, err
	}
	plist, err := s.ListProjects()
	if err != nil {
		return nil, err
	}
	projects := make(map[string]*store.Project, len(plist))
	for i := range plist {
		projects[plist[i].ID] = &plist[i]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	if format == exportCSV {
		return export.ToCSV(weekly, final, projects, dir)
	}
	path := filepath.Join(dir, fmt.Sprintf("pmdesk-export-%s.json", now.Format(store.DateLayout)))
	if err := export.ToJSON(weekly, final, projects, path); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

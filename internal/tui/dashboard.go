package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pmdesk/internal/report"
	"github.com/sadopc/pmdesk/internal/store"
)

// projectSummary is one dashboard line.
type projectSummary struct {
	project    store.Project
	pmName     string
	tasks      report.WeeklyStats
	lastWeekly *store.WeeklyReport
	nextStart  *time.Time // nil once the timeline is used up
	hasFinal   bool
}

// weeklyDue reports whether a weekly report is owed as of today.
func (s projectSummary) weeklyDue(today time.Time) bool {
	if s.project.Status.Terminal() || s.nextStart == nil {
		return false
	}
	return !s.nextStart.After(store.Day(today))
}

// finalDue reports whether the project is closed but has no final report.
func (s projectSummary) finalDue() bool {
	return s.project.Status.Terminal() && !s.hasFinal
}

type dashboardModel struct {
	store  store.Store
	width  int
	height int
	now    func() time.Time

	summaries []projectSummary
	cursor    int
}

func newDashboardModel(s store.Store) dashboardModel {
	return dashboardModel{store: s, now: time.Now}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	summaries []projectSummary
	err       error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		summaries, err := buildSummaries(d.store, d.now())
		return dashboardDataMsg{summaries: summaries, err: err}
	}
}

func buildSummaries(s store.Store, now time.Time) ([]projectSummary, error) {
	projects, err := s.ListProjects()
	if err != nil {
		return nil, err
	}
	staff, err := s.ListStaff()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(staff))
	for _, st := range staff {
		names[st.ID] = st.Name
	}
	weekly, err := s.ListWeeklyReports("")
	if err != nil {
		return nil, err
	}
	finals, err := s.ListFinalReports("")
	if err != nil {
		return nil, err
	}
	closed := make(map[string]bool, len(finals))
	for _, f := range finals {
		closed[f.ProjectID] = true
	}

	out := make([]projectSummary, 0, len(projects))
	for _, p := range projects {
		tasks, err := s.ListTasks(p.ID)
		if err != nil {
			return nil, err
		}
		sum := projectSummary{
			project:  p,
			pmName:   names[p.PMID],
			tasks:    report.ComputeWeeklyStats(tasks, now),
			hasFinal: closed[p.ID],
		}
		for i := range weekly {
			w := &weekly[i]
			if w.ProjectID == p.ID && (sum.lastWeekly == nil || w.PeriodEnd.After(sum.lastWeekly.PeriodEnd)) {
				sum.lastWeekly = w
			}
		}
		if next, err := report.NextPeriod(p, weekly); err == nil {
			start := next.Start
			sum.nextStart = &start
		}
		out = append(out, sum)
	}
	return out, nil
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.err != nil {
			return d, errorCmd(msg.err)
		}
		d.summaries = msg.summaries
		d.cursor = clampCursor(d.cursor, len(d.summaries))
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.summaries)-1 {
				d.cursor++
			}
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTotalsPanel(contentWidth),
		d.renderProjectsPanel(contentWidth),
		d.renderAttentionPanel(contentWidth),
	)
}

func (d dashboardModel) renderTotalsPanel(w int) string {
	counts := make(map[store.ProjectStatus]int)
	for _, s := range d.summaries {
		counts[s.project.Status]++
	}
	var parts []string
	for _, st := range store.ProjectStatuses {
		parts = append(parts, fmt.Sprintf("%s %s",
			metricStyle.Render(fmt.Sprint(counts[st])),
			projectStatusStyle(st).Render(string(st))))
	}
	header := titleStyle.Render(fmt.Sprintf("Portfolio  %d projects", len(d.summaries)))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", strings.Join(parts, "   ")))
}

func (d dashboardModel) renderProjectsPanel(w int) string {
	title := titleStyle.Render("Projects")
	if len(d.summaries) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("No projects yet. Press 2 to go to Projects and create one.")))
	}

	rows := []string{title, headerCellStyle.Render(fmt.Sprintf("  %-10s %-22s %-12s %-14s %7s  %s",
		"ID", "Name", "Status", "PM", "Tasks", "Progress"))}
	for i, s := range d.summaries {
		line := fmt.Sprintf("%-10s %-22s %s %-14s %3d/%-3d  %s %6.2f%%",
			s.project.ID,
			truncate(s.project.Name, 22),
			projectStatusStyle(s.project.Status).Width(12).Render(string(s.project.Status)),
			truncate(s.pmName, 14),
			s.tasks.Completed, s.tasks.Total,
			progressBar(s.tasks.Progress, 12),
			s.tasks.Progress,
		)
		rows = append(rows, cursorRow(i == d.cursor, line))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderAttentionPanel(w int) string {
	title := titleStyle.Render("Needs Attention")
	today := d.now()

	var rows []string
	for _, s := range d.summaries {
		switch {
		case s.finalDue():
			rows = append(rows, warningStyle.Render("  ● ")+
				fmt.Sprintf("%s is %s; final report %s not written yet",
					s.project.ID, s.project.Status, report.FinalReportID(s.project.ID)))
		case s.weeklyDue(today):
			rows = append(rows, accentStyle.Render("  ● ")+
				fmt.Sprintf("%s weekly report due from %s", s.project.ID, store.DisplayDate(s.nextStart)))
		}
	}
	if len(rows) == 0 {
		rows = []string{mutedStyle.Render("Nothing outstanding")}
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{title}, rows...)...))
}

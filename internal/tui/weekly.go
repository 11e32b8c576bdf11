package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/report"
	"github.com/sadopc/pmdesk/internal/store"
)

// reportStage is where a report view is in its create/search/delete flow.
type reportStage int

const (
	stageList reportStage = iota
	stageDetail
	stagePickProject
	stageDetails
	stageConfirmSave
	stageConfirmDelete
	stageSearch
)

type weeklyDraft struct {
	projectID string
	authorID  string
	reportID  string
	start     string
	end       string
	confirm   bool
	keyword   string
}

type weeklyModel struct {
	store  store.Store
	svc    *report.Service
	width  int
	height int

	reports []store.WeeklyReport
	cursor  int
	keyword string

	stage   reportStage
	form    *huh.Form
	draft   *weeklyDraft
	plan    *report.Plan
	pending *store.WeeklyReport

	chart barchart.Model
}

func newWeeklyModel(s store.Store, svc *report.Service) weeklyModel {
	return weeklyModel{
		store: s,
		svc:   svc,
		draft: &weeklyDraft{},
		chart: barchart.New(60, 10),
	}
}

func (m *weeklyModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.buildChart()
}

type weeklyDataMsg struct {
	reports []store.WeeklyReport
	err     error
}

func (m weeklyModel) refresh() tea.Cmd {
	keyword := m.keyword
	return func() tea.Msg {
		reports, err := m.svc.SearchWeekly(keyword)
		return weeklyDataMsg{reports: reports, err: err}
	}
}

func (m weeklyModel) selected() (store.WeeklyReport, bool) {
	if m.cursor < len(m.reports) {
		return m.reports[m.cursor], true
	}
	return store.WeeklyReport{}, false
}

// inForm reports whether keystrokes belong to a form.
func (m weeklyModel) inForm() bool {
	return m.form != nil
}

func (m weeklyModel) update(msg tea.Msg) (weeklyModel, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case weeklyDataMsg:
		if msg.err != nil {
			return m, errorCmd(msg.err)
		}
		m.reports = msg.reports
		m.cursor = clampCursor(m.cursor, len(m.reports))
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		if m.stage == stageDetail {
			if key.Matches(msg, keys.Back) {
				m.stage = stageList
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.buildChart()
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.reports)-1 {
				m.cursor++
				m.buildChart()
			}
		case key.Matches(msg, keys.Enter):
			if len(m.reports) > 0 {
				m.stage = stageDetail
			}
		case key.Matches(msg, keys.Back):
			if m.keyword != "" {
				m.keyword = ""
				return m, m.refresh()
			}
		case key.Matches(msg, keys.New):
			return m.showProjectPicker()
		case key.Matches(msg, keys.Search):
			return m.showSearch()
		case key.Matches(msg, keys.Delete):
			if r, ok := m.selected(); ok {
				return m.showConfirm(stageConfirmDelete, "Delete weekly report "+r.ID+"?", "Delete", "Keep")
			}
		}
	}
	return m, nil
}

// --- Create flow ---

func (m weeklyModel) showProjectPicker() (weeklyModel, tea.Cmd) {
	projects, err := m.store.ListProjects()
	if err != nil {
		return m, errorCmd(err)
	}
	var opts []huh.Option[string]
	for _, p := range projects {
		if !p.Status.Terminal() {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s", p.ID, p.Name), p.ID))
		}
	}
	if len(opts) == 0 {
		return m, statusCmd("No open projects to report on")
	}

	*m.draft = weeklyDraft{projectID: opts[0].Value}
	m.stage = stagePickProject
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(opts...).Value(&m.draft.projectID),
		),
	).WithShowHelp(true)
	return m, m.form.Init()
}

func (m weeklyModel) showDetails() (weeklyModel, tea.Cmd) {
	plan, err := m.svc.WeeklyPlan(m.draft.projectID)
	if err != nil {
		m.stage = stageList
		return m, errorCmd(err)
	}
	m.plan = plan

	d := m.draft
	d.authorID = plan.Project.PMID
	d.reportID = plan.SuggestedID
	d.start = plan.Period.Start.Format(store.DisplayDateLayout)
	d.end = d.start
	if !plan.Period.First {
		d.end = plan.Period.End.Format(store.DisplayDateLayout)
	}

	fields := []huh.Field{
		huh.NewInput().Title("Author (staff ID)").Value(&d.authorID).Validate(required("author")),
		huh.NewInput().Title("Period start (dd/mm/yyyy)").Value(&d.start).Validate(validDate(false)),
	}
	if plan.Period.First {
		fields = append(fields, huh.NewInput().
			Title(fmt.Sprintf("Period end (at most %d days)", report.MaxPeriodDays)).
			Value(&d.end).Validate(validDate(false)))
	} else {
		fields = append(fields, huh.NewNote().
			Title("Period end").
			Description(d.end+" (follows from the previous report)"))
	}
	pid := d.projectID
	fields = append(fields, huh.NewInput().Title("Report ID").Value(&d.reportID).
		Validate(func(s string) error { return report.ValidateWeeklyID(pid, s) }))

	m.stage = stageDetails
	m.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	return m, m.form.Init()
}

func (m weeklyModel) prepare() (weeklyModel, tea.Cmd) {
	d := m.draft
	start, err := store.ParseDate(d.start)
	if err != nil {
		m.stage = stageList
		return m, errorCmd(apperr.Validation("%v", err))
	}
	req := report.WeeklyRequest{
		ProjectID: d.projectID,
		AuthorID:  d.authorID,
		ReportID:  strings.TrimSpace(d.reportID),
		Start:     start,
	}
	if m.plan.Period.First {
		if req.End, err = store.ParseDate(d.end); err != nil {
			m.stage = stageList
			return m, errorCmd(apperr.Validation("%v", err))
		}
	}

	r, err := m.svc.PrepareWeekly(req)
	if err != nil {
		m.stage = stageList
		return m, errorCmd(err)
	}
	m.pending = r
	return m.showConfirm(stageConfirmSave, "Save this report?", "Save", "Discard")
}

// --- Search ---

func (m weeklyModel) showSearch() (weeklyModel, tea.Cmd) {
	m.draft.keyword = m.keyword
	m.stage = stageSearch
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search report or project ID").Value(&m.draft.keyword),
		),
	)
	return m, m.form.Init()
}

// --- Forms ---

func (m weeklyModel) showConfirm(stage reportStage, title, yes, no string) (weeklyModel, tea.Cmd) {
	m.draft.confirm = false
	m.stage = stage
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Affirmative(yes).Negative(no).Value(&m.draft.confirm),
		),
	)
	return m, m.form.Init()
}

func (m weeklyModel) updateForm(msg tea.Msg) (weeklyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State != huh.StateCompleted {
		return m, cmd
	}
	return m.advance()
}

func (m weeklyModel) closeForm() weeklyModel {
	m.form = nil
	m.stage = stageList
	m.plan = nil
	m.pending = nil
	return m
}

// advance moves the flow on once the current form completes.
func (m weeklyModel) advance() (weeklyModel, tea.Cmd) {
	stage := m.stage
	m.form = nil

	switch stage {
	case stagePickProject:
		return m.showDetails()
	case stageDetails:
		return m.prepare()
	case stageConfirmSave:
		r := m.pending
		m = m.closeForm()
		if !m.draft.confirm || r == nil {
			return m, statusCmd("Report discarded")
		}
		if err := m.svc.SaveWeekly(*r); err != nil {
			return m, errorCmd(err)
		}
		return m, tea.Batch(m.refresh(),
			statusCmd(fmt.Sprintf("Saved %s: %.2f%% %s", r.ID, r.Progress, r.Status)),
			func() tea.Msg { return reportSavedMsg{id: r.ID} })
	case stageConfirmDelete:
		m = m.closeForm()
		r, ok := m.selected()
		if !m.draft.confirm || !ok {
			return m, nil
		}
		if err := m.svc.DeleteWeekly(r.ID); err != nil {
			return m, errorCmd(err)
		}
		return m, tea.Batch(m.refresh(), statusCmd("Deleted "+r.ID))
	case stageSearch:
		m = m.closeForm()
		m.keyword = strings.TrimSpace(m.draft.keyword)
		m.cursor = 0
		return m, m.refresh()
	}
	return m.closeForm(), nil
}

// --- Chart ---

// buildChart plots the progress of every weekly report of the selected
// report's project.
func (m *weeklyModel) buildChart() {
	chartWidth := max(20, m.width-8)
	chartHeight := 8
	if m.height > 30 {
		chartHeight = 12
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	sel, ok := m.selected()
	if !ok {
		return
	}
	var bars []barchart.BarData
	for _, r := range m.reports {
		if r.ProjectID != sel.ProjectID {
			continue
		}
		style := weeklyStatusStyle(r.Status)
		if r.ID == sel.ID {
			style = highlightStyle
		}
		label := r.ID
		if i := strings.LastIndex(r.ID, "_"); i >= 0 {
			label = r.ID[i+1:]
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: r.ID, Value: r.Progress, Style: style}},
		})
	}
	if len(bars) == 0 {
		return
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

// --- Rendering ---

func (m weeklyModel) view() string {
	w := m.width - 4

	if m.form != nil {
		parts := []string{titleStyle.Render("Weekly Report"), ""}
		if m.plan != nil && m.stage == stageDetails {
			parts = append(parts, mutedStyle.Render(fmt.Sprintf("%s %s", m.plan.Project.ID, m.plan.Project.Name)), "")
		}
		if m.pending != nil {
			parts = append(parts, renderWeeklyReport(*m.pending), "")
		}
		parts = append(parts, m.form.View())
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	if m.stage == stageDetail {
		r, _ := m.selected()
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Weekly Report "+r.ID), "",
			renderWeeklyReport(r), "",
			mutedStyle.Render("  esc: back")))
	}

	title := titleStyle.Render("Weekly Reports")
	if m.keyword != "" {
		title += subtitleStyle.Render(fmt.Sprintf("  matching %q (esc clears)", m.keyword))
	}
	if len(m.reports) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No weekly reports. Press n to write one.")))
	}

	rows := []string{title, "", headerCellStyle.Render(fmt.Sprintf("  %-18s %-10s %-6s %-10s %-10s %9s  %s",
		"ID", "Project", "Author", "Start", "End", "Progress", "Status"))}
	for i, r := range m.reports {
		line := fmt.Sprintf("%-18s %-10s %-6s %-10s %-10s %8.2f%%  %s",
			r.ID, r.ProjectID, r.AuthorID,
			store.DisplayDate(&r.PeriodStart), store.DisplayDate(&r.PeriodEnd),
			r.Progress, weeklyStatusStyle(r.Status).Render(r.Status))
		rows = append(rows, cursorRow(i == m.cursor, line))
	}

	sel, _ := m.selected()
	rows = append(rows, "", subtitleStyle.Render("Progress of "+sel.ProjectID), m.chart.View())
	rows = append(rows, "", mutedStyle.Render("  n: new  enter: details  /: search  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func renderWeeklyReport(r store.WeeklyReport) string {
	line := func(label, value string) string {
		return labelStyle.Render(label) + value
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		line("Report ID", r.ID),
		line("Project", r.ProjectID),
		line("Author", r.AuthorID),
		line("Period", fmt.Sprintf("%s to %s", store.DisplayDate(&r.PeriodStart), store.DisplayDate(&r.PeriodEnd))),
		line("Tasks", fmt.Sprintf("%d total, %d completed, %d overdue", r.TotalTasks, r.CompletedTasks, r.OverdueTasks)),
		line("Progress", fmt.Sprintf("%s %.2f%%", progressBar(r.Progress, 20), r.Progress)),
		line("Status", weeklyStatusStyle(r.Status).Render(r.Status)),
	)
}

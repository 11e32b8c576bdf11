package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pmdesk/internal/report"
	"github.com/sadopc/pmdesk/internal/store"
)

type finalDraft struct {
	projectID string
	authorID  string
	reportID  string
	confirm   bool
	keyword   string
}

type finalModel struct {
	store  store.Store
	svc    *report.Service
	width  int
	height int

	reports []store.FinalReport
	cursor  int
	keyword string

	stage   reportStage
	form    *huh.Form
	draft   *finalDraft
	pending *store.FinalReport
}

func newFinalModel(s store.Store, svc *report.Service) finalModel {
	return finalModel{store: s, svc: svc, draft: &finalDraft{}}
}

func (m *finalModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type finalDataMsg struct {
	reports []store.FinalReport
	err     error
}

func (m finalModel) refresh() tea.Cmd {
	keyword := m.keyword
	return func() tea.Msg {
		reports, err := m.svc.SearchFinal(keyword)
		return finalDataMsg{reports: reports, err: err}
	}
}

func (m finalModel) selected() (store.FinalReport, bool) {
	if m.cursor < len(m.reports) {
		return m.reports[m.cursor], true
	}
	return store.FinalReport{}, false
}

func (m finalModel) inForm() bool {
	return m.form != nil
}

func (m finalModel) update(msg tea.Msg) (finalModel, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case finalDataMsg:
		if msg.err != nil {
			return m, errorCmd(msg.err)
		}
		m.reports = msg.reports
		m.cursor = clampCursor(m.cursor, len(m.reports))
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
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.reports)-1 {
				m.cursor++
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
				return m.showConfirm(stageConfirmDelete, "Delete final report "+r.ID+"?", "Delete", "Keep")
			}
		}
	}
	return m, nil
}

// showProjectPicker offers the closed projects that have no final report.
func (m finalModel) showProjectPicker() (finalModel, tea.Cmd) {
	projects, err := m.store.ListProjects()
	if err != nil {
		return m, errorCmd(err)
	}
	finals, err := m.store.ListFinalReports("")
	if err != nil {
		return m, errorCmd(err)
	}
	done := make(map[string]bool, len(finals))
	for _, f := range finals {
		done[f.ProjectID] = true
	}

	var opts []huh.Option[string]
	for _, p := range projects {
		if p.Status.Terminal() && !done[p.ID] {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s (%s)", p.ID, p.Name, p.Status), p.ID))
		}
	}
	if len(opts) == 0 {
		return m, statusCmd("No Completed or Cancelled project is waiting for a final report")
	}

	*m.draft = finalDraft{projectID: opts[0].Value}
	m.stage = stagePickProject
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Project").Options(opts...).Value(&m.draft.projectID),
		),
	).WithShowHelp(true)
	return m, m.form.Init()
}

func (m finalModel) showDetails() (finalModel, tea.Cmd) {
	p, err := m.store.GetProject(m.draft.projectID)
	if err != nil {
		m.stage = stageList
		return m, errorCmd(err)
	}
	d := m.draft
	d.authorID = p.PMID
	d.reportID = report.FinalReportID(p.ID)

	m.stage = stageDetails
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Author (staff ID)").Value(&d.authorID).Validate(required("author")),
			huh.NewInput().Title("Report ID").Value(&d.reportID).
				Validate(func(s string) error { return report.ValidateFinalID(p.ID, s) }),
		),
	).WithShowHelp(true).WithShowErrors(true)
	return m, m.form.Init()
}

func (m finalModel) prepare() (finalModel, tea.Cmd) {
	r, err := m.svc.PrepareFinal(report.FinalRequest{
		ProjectID: m.draft.projectID,
		AuthorID:  m.draft.authorID,
		ReportID:  strings.TrimSpace(m.draft.reportID),
	})
	if err != nil {
		m.stage = stageList
		return m, errorCmd(err)
	}
	m.pending = r
	return m.showConfirm(stageConfirmSave, "Save this final report?", "Save", "Discard")
}

func (m finalModel) showSearch() (finalModel, tea.Cmd) {
	m.draft.keyword = m.keyword
	m.stage = stageSearch
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search report or project ID").Value(&m.draft.keyword),
		),
	)
	return m, m.form.Init()
}

func (m finalModel) showConfirm(stage reportStage, title, yes, no string) (finalModel, tea.Cmd) {
	m.draft.confirm = false
	m.stage = stage
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(title).Affirmative(yes).Negative(no).Value(&m.draft.confirm),
		),
	)
	return m, m.form.Init()
}

func (m finalModel) updateForm(msg tea.Msg) (finalModel, tea.Cmd) {
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

func (m finalModel) closeForm() finalModel {
	m.form = nil
	m.stage = stageList
	m.pending = nil
	return m
}

func (m finalModel) advance() (finalModel, tea.Cmd) {
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
		if err := m.svc.SaveFinal(*r); err != nil {
			return m, errorCmd(err)
		}
		return m, tea.Batch(m.refresh(),
			statusCmd(fmt.Sprintf("Saved %s: %.2f%% overall", r.ID, r.OverallProgress)),
			func() tea.Msg { return reportSavedMsg{id: r.ID} })
	case stageConfirmDelete:
		m = m.closeForm()
		r, ok := m.selected()
		if !m.draft.confirm || !ok {
			return m, nil
		}
		if err := m.svc.DeleteFinal(r.ID); err != nil {
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

func (m finalModel) view() string {
	w := m.width - 4

	if m.form != nil {
		parts := []string{titleStyle.Render("Final Report"), ""}
		if m.pending != nil {
			parts = append(parts, renderFinalReport(*m.pending), "")
		}
		parts = append(parts, m.form.View())
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	if m.stage == stageDetail {
		r, _ := m.selected()
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Final Report "+r.ID), "",
			renderFinalReport(r), "",
			mutedStyle.Render("  esc: back")))
	}

	title := titleStyle.Render("Final Reports")
	if m.keyword != "" {
		title += subtitleStyle.Render(fmt.Sprintf("  matching %q (esc clears)", m.keyword))
	}
	if len(m.reports) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No final reports. Press n to close out a project.")))
	}

	rows := []string{title, "", headerCellStyle.Render(fmt.Sprintf("  %-14s %-10s %-22s %-10s %9s %6s  %s",
		"ID", "Project", "Name", "Ended", "Progress", "Late", "Status"))}
	for i, r := range m.reports {
		line := fmt.Sprintf("%-14s %-10s %-22s %-10s %8.2f%% %6d  %s",
			r.ID, r.ProjectID, truncate(r.ProjectName, 22),
			store.DisplayDate(r.ActualEndDate), r.OverallProgress, r.OverdueTasks,
			projectStatusStyle(r.ProjectStatus).Render(string(r.ProjectStatus)))
		rows = append(rows, cursorRow(i == m.cursor, line))
	}
	rows = append(rows, "", mutedStyle.Render("  n: new  enter: details  /: search  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func renderFinalReport(r store.FinalReport) string {
	line := func(label, value string) string {
		return labelStyle.Render(label) + value
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		line("Report ID", r.ID),
		line("Project", fmt.Sprintf("%s %s", r.ProjectID, r.ProjectName)),
		line("Customer", r.Customer),
		line("Author", r.AuthorID),
		line("Ran", fmt.Sprintf("%s to %s (%d days)",
			store.DisplayDate(r.ProjectStartDate), store.DisplayDate(r.ActualEndDate), r.DurationDays)),
		line("Tasks", fmt.Sprintf("%d total, %d completed, %d cancelled", r.TotalTasks, r.CompletedTasks, r.CancelledTasks)),
		line("Delivery", fmt.Sprintf("%d on time, %d late", r.OntimeTasks, r.OverdueTasks)),
		line("Progress", fmt.Sprintf("%s %.2f%%", progressBar(r.OverallProgress, 20), r.OverallProgress)),
		line("Status", projectStatusStyle(r.ProjectStatus).Render(string(r.ProjectStatus))),
	)
}

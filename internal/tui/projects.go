package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

// projectDraft holds form input. It lives behind a pointer so huh keeps
// writing to the same values after the model is copied.
type projectDraft struct {
	id, name, customer, description string
	start, expectedEnd, actualEnd    string
	budget                           string
	status                           string
	pmID                             string
}

type taskDraft struct {
	id, name, assignee, deadline, status string
}

type projectsModel struct {
	store  store.Store
	width  int
	height int
	now    func() time.Time

	projects     []store.Project
	staff        []store.Staff
	tasks        []store.Task
	cursor       int
	taskCursor   int
	viewingTasks bool // true = viewing tasks of selected project

	formActive bool
	form       *huh.Form
	formType   string // "project", "status", "task"

	project *projectDraft
	task    *taskDraft
}

func newProjectsModel(s store.Store) projectsModel {
	return projectsModel{
		store:   s,
		now:     time.Now,
		project: &projectDraft{},
		task:    &taskDraft{},
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []store.Project
	staff    []store.Staff
	err      error
}

type tasksDataMsg struct {
	tasks []store.Task
	err   error
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, err := p.store.ListProjects()
		if err != nil {
			return projectsDataMsg{err: err}
		}
		staff, err := p.store.ListStaff()
		return projectsDataMsg{projects: projects, staff: staff, err: err}
	}
}

func (p projectsModel) refreshTasks() tea.Cmd {
	if p.cursor >= len(p.projects) {
		return nil
	}
	pid := p.projects[p.cursor].ID
	return func() tea.Msg {
		tasks, err := p.store.ListTasks(pid)
		return tasksDataMsg{tasks: tasks, err: err}
	}
}

func (p projectsModel) selected() (store.Project, bool) {
	if p.cursor < len(p.projects) {
		return p.projects[p.cursor], true
	}
	return store.Project{}, false
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		if msg.err != nil {
			return p, errorCmd(msg.err)
		}
		p.projects = msg.projects
		p.staff = msg.staff
		p.cursor = clampCursor(p.cursor, len(p.projects))
		return p, nil

	case tasksDataMsg:
		if msg.err != nil {
			return p, errorCmd(msg.err)
		}
		p.tasks = msg.tasks
		p.taskCursor = clampCursor(p.taskCursor, len(p.tasks))
		return p, nil

	case tea.KeyMsg:
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
			return p, p.refreshTasks()
		}
	case key.Matches(msg, keys.New):
		return p.showNewProjectForm()
	case key.Matches(msg, keys.Status):
		if len(p.projects) > 0 {
			return p.showStatusForm()
		}
	case key.Matches(msg, keys.Delete):
		if proj, ok := p.selected(); ok {
			if err := p.store.DeleteProject(proj.ID); err != nil {
				return p, errorCmd(err)
			}
			return p, tea.Batch(p.refresh(), statusCmd("Deleted project "+proj.ID+" and its tasks"))
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return p.showNewTaskForm()
	case key.Matches(msg, keys.Complete):
		if len(p.tasks) > 0 {
			return p, p.completeTask(p.tasks[p.taskCursor])
		}
	case key.Matches(msg, keys.Delete):
		if len(p.tasks) > 0 {
			task := p.tasks[p.taskCursor]
			if err := p.store.DeleteTask(task.ID); err != nil {
				return p, errorCmd(err)
			}
			return p, p.refreshTasks()
		}
	}
	return p, nil
}

// completeTask marks t completed today.
func (p projectsModel) completeTask(t store.Task) tea.Cmd {
	if t.Status == store.TaskCompleted {
		return statusCmd("Task " + t.ID + " is already completed")
	}
	today := store.Day(p.now())
	t.Status = store.TaskCompleted
	t.CompletedDate = &today
	if err := p.store.SaveTask(t); err != nil {
		return errorCmd(err)
	}
	return tea.Batch(p.refreshTasks(), statusCmd("Completed task "+t.ID))
}

// --- Forms ---

func validDate(optional bool) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			if optional {
				return nil
			}
			return fmt.Errorf("date is required")
		}
		_, err := store.ParseDate(s)
		return err
	}
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func (p projectsModel) pmOptions() []huh.Option[string] {
	var opts []huh.Option[string]
	for _, s := range p.staff {
		if s.IsProjectManager() {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s", s.ID, s.Name), s.ID))
		}
	}
	return opts
}

func projectStatusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(store.ProjectStatuses))
	for i, st := range store.ProjectStatuses {
		opts[i] = huh.NewOption(string(st), string(st))
	}
	return opts
}

func (p projectsModel) showNewProjectForm() (projectsModel, tea.Cmd) {
	pms := p.pmOptions()
	if len(pms) == 0 {
		return p, statusCmd("Add a staff member with the Project Manager title first (tab 3)")
	}
	*p.project = projectDraft{
		start:  store.Day(p.now()).Format(store.DisplayDateLayout),
		status: string(store.ProjectNotStarted),
		pmID:   pms[0].Value,
	}
	p.formType = "project"

	d := p.project
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project ID").Placeholder("P25_00001").Value(&d.id).
				Validate(func(s string) error {
					if !store.ValidProjectID(strings.TrimSpace(s)) {
						return fmt.Errorf("format is P<yy>_<nnnnn>")
					}
					return nil
				}),
			huh.NewInput().Title("Name").Value(&d.name).Validate(func(s string) error {
				if len([]rune(strings.TrimSpace(s))) < 2 {
					return fmt.Errorf("at least 2 characters")
				}
				return nil
			}),
			huh.NewInput().Title("Customer").Value(&d.customer).Validate(required("customer")),
			huh.NewText().Title("Description").Value(&d.description).Lines(2),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start date (dd/mm/yyyy)").Value(&d.start).Validate(validDate(false)),
			huh.NewInput().Title("Expected end (dd/mm/yyyy)").Value(&d.expectedEnd).Validate(validDate(false)),
			huh.NewInput().Title("Budget").Value(&d.budget).Validate(func(s string) error {
				v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil || v <= 0 {
					return fmt.Errorf("budget must be a positive number")
				}
				return nil
			}),
			huh.NewSelect[string]().Title("Status").Options(projectStatusOptions()...).Value(&d.status),
			huh.NewSelect[string]().Title("Project manager").Options(pms...).Value(&d.pmID),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showStatusForm() (projectsModel, tea.Cmd) {
	proj, _ := p.selected()
	*p.project = projectDraft{
		id:        proj.ID,
		status:    string(proj.Status),
		actualEnd: "",
	}
	if proj.ActualEndDate != nil {
		p.project.actualEnd = proj.ActualEndDate.Format(store.DisplayDateLayout)
	}
	p.formType = "status"

	d := p.project
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Status of "+proj.ID).Options(projectStatusOptions()...).Value(&d.status),
			huh.NewInput().Title("Actual end date (dd/mm/yyyy, blank for none)").Value(&d.actualEnd).Validate(validDate(true)),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showNewTaskForm() (projectsModel, tea.Cmd) {
	*p.task = taskDraft{status: string(store.TaskTodo)}
	p.formType = "task"

	statusOpts := make([]huh.Option[string], len(store.TaskStatuses))
	for i, st := range store.TaskStatuses {
		statusOpts[i] = huh.NewOption(string(st), string(st))
	}

	d := p.task
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task ID").Value(&d.id).Validate(required("task id")),
			huh.NewInput().Title("Task Name").Value(&d.name).Validate(required("name")),
			huh.NewInput().Title("Assignee ID (blank for unassigned)").Value(&d.assignee),
			huh.NewInput().Title("Deadline (dd/mm/yyyy, optional)").Value(&d.deadline).Validate(validDate(true)),
			huh.NewSelect[string]().Title("Status").Options(statusOpts...).Value(&d.status),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "project":
			return p, p.saveNewProject()
		case "status":
			return p, p.saveStatus()
		case "task":
			return p, p.saveNewTask()
		}
	}

	return p, cmd
}

func (p projectsModel) saveNewProject() tea.Cmd {
	d := p.project
	id := strings.TrimSpace(d.id)
	if _, err := p.store.GetProject(id); err == nil {
		return errorCmd(apperr.AlreadyExists("project", id))
	}
	start, err := store.ParseDate(d.start)
	if err != nil {
		return errorCmd(apperr.Validation("%v", err))
	}
	end, err := store.ParseDate(d.expectedEnd)
	if err != nil {
		return errorCmd(apperr.Validation("%v", err))
	}
	budget, _ := strconv.ParseFloat(strings.TrimSpace(d.budget), 64)

	proj := store.Project{
		ID:              id,
		Name:            strings.TrimSpace(d.name),
		Customer:        strings.TrimSpace(d.customer),
		Description:     strings.TrimSpace(d.description),
		StartDate:       start,
		ExpectedEndDate: end,
		Budget:          budget,
		Status:          store.ProjectStatus(d.status),
		PMID:            d.pmID,
	}
	if err := proj.Validate(p.now()); err != nil {
		return errorCmd(err)
	}
	if err := p.store.SaveProject(proj); err != nil {
		return errorCmd(err)
	}
	return tea.Batch(p.refresh(), statusCmd("Created project "+proj.ID))
}

func (p projectsModel) saveStatus() tea.Cmd {
	d := p.project
	proj, err := p.store.GetProject(d.id)
	if err != nil {
		return errorCmd(err)
	}
	actual, err := store.ParseOptionalDate(d.actualEnd)
	if err != nil {
		return errorCmd(apperr.Validation("%v", err))
	}
	proj.Status = store.ProjectStatus(d.status)
	proj.ActualEndDate = actual
	if err := proj.Validate(p.now()); err != nil {
		return errorCmd(err)
	}
	if err := p.store.SaveProject(*proj); err != nil {
		return errorCmd(err)
	}
	return tea.Batch(p.refresh(), statusCmd(fmt.Sprintf("%s is now %s", proj.ID, proj.Status)))
}

func (p projectsModel) saveNewTask() tea.Cmd {
	proj, ok := p.selected()
	if !ok {
		return nil
	}
	d := p.task
	deadline, err := store.ParseOptionalDate(d.deadline)
	if err != nil {
		return errorCmd(apperr.Validation("%v", err))
	}
	t := store.Task{
		ID:         strings.TrimSpace(d.id),
		ProjectID:  proj.ID,
		Name:       strings.TrimSpace(d.name),
		AssigneeID: strings.TrimSpace(d.assignee),
		Deadline:   deadline,
		Status:     store.TaskStatus(d.status),
	}
	if t.AssigneeID == "" {
		t.AssigneeID = store.Unassigned
	}
	if t.Status == store.TaskCompleted {
		today := store.Day(p.now())
		t.CompletedDate = &today
	}
	if _, err := p.store.GetTask(t.ID); err == nil {
		return errorCmd(apperr.AlreadyExists("task", t.ID))
	}
	if err := t.Validate(); err != nil {
		return errorCmd(err)
	}
	if err := p.store.SaveTask(t); err != nil {
		return errorCmd(err)
	}
	return tea.Batch(p.refreshTasks(), statusCmd("Added task "+t.ID))
}

// --- Rendering ---

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		if p.formType == "status" {
			title = titleStyle.Render("Project Status")
		} else if p.formType == "task" {
			title = titleStyle.Render("New Task")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := headerCellStyle.Render(fmt.Sprintf("  %-10s %-22s %-16s %-12s %-10s %-10s %-6s",
		"ID", "Name", "Customer", "Status", "Start", "Expected", "PM"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		line := fmt.Sprintf("%-10s %-22s %-16s %s %-10s %-10s %-6s",
			proj.ID,
			truncate(proj.Name, 22),
			truncate(proj.Customer, 16),
			projectStatusStyle(proj.Status).Width(12).Render(string(proj.Status)),
			store.DisplayDate(&proj.StartDate),
			store.DisplayDate(&proj.ExpectedEndDate),
			proj.PMID,
		)
		rows = append(rows, cursorRow(i == p.cursor, line))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  s: status  d: delete  enter: tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	proj, _ := p.selected()
	title := titleStyle.Render(fmt.Sprintf("%s %s  Tasks", proj.ID, proj.Name))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, headerCellStyle.Render(fmt.Sprintf("  %-8s %-26s %-12s %-12s %-10s %-10s",
		"ID", "Name", "Assignee", "Status", "Deadline", "Completed")))

	for i, task := range p.tasks {
		line := fmt.Sprintf("%-8s %-26s %-12s %-12s %-10s %-10s",
			task.ID,
			truncate(task.Name, 26),
			truncate(task.AssigneeID, 12),
			task.Status,
			store.DisplayDate(task.Deadline),
			store.DisplayDate(task.CompletedDate),
		)
		rows = append(rows, cursorRow(i == p.taskCursor, line))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  c: complete  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

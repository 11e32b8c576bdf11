package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

type staffDraft struct {
	id, name, role, title string
}

type staffModel struct {
	store  store.Store
	width  int
	height int

	staff  []store.Staff
	cursor int

	formActive bool
	form       *huh.Form
	draft      *staffDraft
}

func newStaffModel(s store.Store) staffModel {
	return staffModel{store: s, draft: &staffDraft{}}
}

func (m *staffModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type staffDataMsg struct {
	staff []store.Staff
	err   error
}

func (m staffModel) refresh() tea.Cmd {
	return func() tea.Msg {
		staff, err := m.store.ListStaff()
		return staffDataMsg{staff: staff, err: err}
	}
}

func (m staffModel) update(msg tea.Msg) (staffModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case staffDataMsg:
		if msg.err != nil {
			return m, errorCmd(msg.err)
		}
		m.staff = msg.staff
		m.cursor = clampCursor(m.cursor, len(m.staff))

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.staff)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm()
		case key.Matches(msg, keys.Delete):
			if len(m.staff) > 0 {
				s := m.staff[m.cursor]
				if err := m.store.DeleteStaff(s.ID); err != nil {
					return m, errorCmd(err)
				}
				return m, tea.Batch(m.refresh(), statusCmd("Removed "+s.ID))
			}
		}
	}
	return m, nil
}

func (m staffModel) showForm() (staffModel, tea.Cmd) {
	*m.draft = staffDraft{}
	d := m.draft
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Staff ID").Placeholder("S001").Value(&d.id).Validate(required("staff id")),
			huh.NewInput().Title("Name").Value(&d.name).Validate(required("name")),
			huh.NewInput().Title("Role").Placeholder("Engineer").Value(&d.role),
			huh.NewSelect[string]().Title("Management title").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption(store.TitleProjectManager, store.TitleProjectManager),
				).
				Value(&d.title),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m staffModel) updateForm(msg tea.Msg) (staffModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.save()
	}
	return m, cmd
}

func (m staffModel) save() tea.Cmd {
	s := store.Staff{
		ID:              strings.TrimSpace(m.draft.id),
		Name:            strings.TrimSpace(m.draft.name),
		Role:            strings.TrimSpace(m.draft.role),
		ManagementTitle: m.draft.title,
	}
	if err := s.Validate(); err != nil {
		return errorCmd(err)
	}
	if _, err := m.store.GetStaff(s.ID); err == nil {
		return errorCmd(apperr.AlreadyExists("staff", s.ID))
	}
	if err := m.store.SaveStaff(s); err != nil {
		return errorCmd(err)
	}
	return tea.Batch(m.refresh(), statusCmd("Added "+s.Name))
}

func (m staffModel) view() string {
	w := m.width - 4
	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("New Staff Member"), "", m.form.View()))
	}

	title := titleStyle.Render("Staff")
	if len(m.staff) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Nobody here yet. Press n to add someone.")))
	}

	rows := []string{title, "", headerCellStyle.Render(fmt.Sprintf("  %-8s %-24s %-18s %s",
		"ID", "Name", "Role", "Title"))}
	for i, s := range m.staff {
		t := s.ManagementTitle
		if t == "" {
			t = "-"
		}
		line := fmt.Sprintf("%-8s %-24s %-18s %s", s.ID, truncate(s.Name, 24), truncate(s.Role, 18), t)
		rows = append(rows, cursorRow(i == m.cursor, line))
	}
	rows = append(rows, "", mutedStyle.Render("  n: new  d: remove"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

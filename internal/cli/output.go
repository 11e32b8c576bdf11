package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sadopc/pmdesk/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	keyStyle    = lipgloss.NewStyle().Bold(true).Width(18)
)

// printTable writes rows under headers as a bordered table.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// field is one line of a record detail view.
type field struct {
	name  string
	value string
}

func printFields(w io.Writer, fields []field) error {
	for _, f := range fields {
		if _, err := fmt.Fprintln(w, keyStyle.Render(f.name)+f.value); err != nil {
			return err
		}
	}
	return nil
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func projectRows(projects []store.Project) [][]string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ID, p.Name, p.Customer, string(p.Status),
			store.DisplayDate(&p.StartDate), store.DisplayDate(&p.ExpectedEndDate),
			store.DisplayDate(p.ActualEndDate),
			strconv.FormatFloat(p.Budget, 'f', 2, 64), p.PMID,
		})
	}
	return rows
}

func staffRows(staff []store.Staff) [][]string {
	rows := make([][]string, 0, len(staff))
	for _, s := range staff {
		title := s.ManagementTitle
		if title == "" {
			title = "-"
		}
		rows = append(rows, []string{s.ID, s.Name, s.Role, title})
	}
	return rows
}

func taskRows(tasks []store.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID, t.ProjectID, t.Name, t.AssigneeID, string(t.Status),
			store.DisplayDate(t.Deadline), store.DisplayDate(t.CompletedDate),
		})
	}
	return rows
}

func weeklyRows(reports []store.WeeklyReport) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.ID, r.ProjectID, r.AuthorID,
			store.DisplayDate(&r.PeriodStart), store.DisplayDate(&r.PeriodEnd),
			fmt.Sprintf("%d/%d", r.CompletedTasks, r.TotalTasks),
			strconv.Itoa(r.OverdueTasks), percent(r.Progress), r.Status,
		})
	}
	return rows
}

func finalRows(reports []store.FinalReport) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			r.ID, r.ProjectID, r.ProjectName, r.AuthorID,
			store.DisplayDate(r.ActualEndDate),
			fmt.Sprintf("%d/%d", r.CompletedTasks, r.TotalTasks),
			strconv.Itoa(r.OverdueTasks), percent(r.OverallProgress), string(r.ProjectStatus),
		})
	}
	return rows
}

var (
	projectHeaders = []string{"ID", "Name", "Customer", "Status", "Start", "Expected End", "Actual End", "Budget", "PM"}
	staffHeaders   = []string{"ID", "Name", "Role", "Title"}
	taskHeaders    = []string{"ID", "Project", "Name", "Assignee", "Status", "Deadline", "Completed"}
	weeklyHeaders  = []string{"ID", "Project", "Author", "Start", "End", "Done", "Overdue", "Progress", "Status"}
	finalHeaders   = []string{"ID", "Project", "Name", "Author", "Ended", "Done", "Late", "Progress", "Status"}
)

func weeklyFields(r store.WeeklyReport) []field {
	return []field{
		{"Report ID", r.ID},
		{"Project", r.ProjectID},
		{"Author", r.AuthorID},
		{"Period", store.DisplayDate(&r.PeriodStart) + " - " + store.DisplayDate(&r.PeriodEnd)},
		{"Total tasks", strconv.Itoa(r.TotalTasks)},
		{"Completed", strconv.Itoa(r.CompletedTasks)},
		{"Overdue", strconv.Itoa(r.OverdueTasks)},
		{"Progress", percent(r.Progress)},
		{"Status", r.Status},
		{"Created", r.CreatedAt.Format(store.TimestampLayout)},
	}
}

func finalFields(r store.FinalReport) []field {
	return []field{
		{"Report ID", r.ID},
		{"Project", r.ProjectID + " " + r.ProjectName},
		{"Customer", r.Customer},
		{"Author", r.AuthorID},
		{"Started", store.DisplayDate(r.ProjectStartDate)},
		{"Ended", store.DisplayDate(r.ActualEndDate)},
		{"Duration", fmt.Sprintf("%d days", r.DurationDays)},
		{"Total tasks", strconv.Itoa(r.TotalTasks)},
		{"Completed", strconv.Itoa(r.CompletedTasks)},
		{"On time", strconv.Itoa(r.OntimeTasks)},
		{"Late", strconv.Itoa(r.OverdueTasks)},
		{"Cancelled", strconv.Itoa(r.CancelledTasks)},
		{"Progress", percent(r.OverallProgress)},
		{"Project status", string(r.ProjectStatus)},
		{"Created", r.CreatedAt.Format(store.TimestampLayout)},
	}
}

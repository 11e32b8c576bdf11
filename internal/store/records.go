package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Column sets of the persisted tables. Rows are decoded by column name.
var (
	ProjectHeader = []string{
		"project_id", "project_name", "customer", "description", "start_date",
		"expected_end_date", "actual_end_date", "budget", "status_project", "pm_id",
	}
	StaffHeader = []string{"staff_id", "full_name", "role", "management_title"}
	TaskHeader  = []string{
		"task_id", "project_id", "task_name", "assignee_id", "deadline", "completed_date", "status_task",
	}
	WeeklyReportHeader = []string{
		"report_id", "project_id", "period_start", "period_end", "total_tasks",
		"completed_tasks", "overdue_tasks", "progress", "status", "author_id", "created_date",
	}
	FinalReportHeader = []string{
		"project_id", "report_id", "author_id", "created_date",
		"project_name", "customer", "project_start_date", "actual_end_date",
		"duration_days", "total_tasks", "completed_tasks", "ontime_tasks",
		"overdue_tasks", "cancelled_tasks", "overall_progress", "project_status",
	}
)

// Row is one decoded record keyed by column name.
type Row map[string]string

func (r Row) get(k string) string {
	return strings.TrimSpace(r[k])
}

// rowDecoder collects the first field error so decoders read straight through.
type rowDecoder struct {
	row Row
	err error
}

func (d *rowDecoder) str(k string) string { return d.row.get(k) }

func (d *rowDecoder) date(k string) (t timeValue) {
	v := d.row.get(k)
	if v == "" || d.err != nil {
		return
	}
	parsed, err := ParseDate(v)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", k, err)
		return
	}
	return timeValue{t: parsed, ok: true}
}

func (d *rowDecoder) timestamp(k string) (t timeValue) {
	if d.err != nil {
		return
	}
	parsed, err := parseTimestamp(d.row.get(k))
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", k, err)
		return
	}
	return timeValue{t: parsed, ok: !parsed.IsZero()}
}

func (d *rowDecoder) integer(k string) int {
	v := d.row.get(k)
	if v == "" || d.err != nil {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", k, err)
	}
	return n
}

func (d *rowDecoder) number(k string) float64 {
	v := d.row.get(k)
	if v == "" || d.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		d.err = fmt.Errorf("column %s: %w", k, err)
	}
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- Project ---

func (p Project) Record() []string {
	return []string{
		p.ID, p.Name, p.Customer, p.Description,
		FormatDate(p.StartDate), FormatDate(p.ExpectedEndDate), FormatOptionalDate(p.ActualEndDate),
		formatFloat(p.Budget), string(p.Status), p.PMID,
	}
}

func ProjectFromRecord(r Row) (Project, error) {
	d := &rowDecoder{row: r}
	p := Project{
		ID:              d.str("project_id"),
		Name:            d.str("project_name"),
		Customer:        d.str("customer"),
		Description:     d.str("description"),
		StartDate:       d.date("start_date").value(),
		ExpectedEndDate: d.date("expected_end_date").value(),
		ActualEndDate:   d.date("actual_end_date").ptr(),
		Budget:          d.number("budget"),
		Status:          ProjectStatus(d.str("status_project")),
		PMID:            d.str("pm_id"),
	}
	if d.err != nil {
		return Project{}, fmt.Errorf("decode project %q: %w", p.ID, d.err)
	}
	return p, nil
}

// --- Staff ---

func (s Staff) Record() []string {
	return []string{s.ID, s.Name, s.Role, s.ManagementTitle}
}

func StaffFromRecord(r Row) (Staff, error) {
	return Staff{
		ID:              r.get("staff_id"),
		Name:            r.get("full_name"),
		Role:            r.get("role"),
		ManagementTitle: r.get("management_title"),
	}, nil
}

// --- Task ---

func (t Task) Record() []string {
	assignee := t.AssigneeID
	if assignee == "" {
		assignee = Unassigned
	}
	return []string{
		t.ID, t.ProjectID, t.Name, assignee,
		FormatOptionalDate(t.Deadline), FormatOptionalDate(t.CompletedDate), string(t.Status),
	}
}

func TaskFromRecord(r Row) (Task, error) {
	d := &rowDecoder{row: r}
	t := Task{
		ID:            d.str("task_id"),
		ProjectID:     d.str("project_id"),
		Name:          d.str("task_name"),
		AssigneeID:    d.str("assignee_id"),
		Deadline:      d.date("deadline").ptr(),
		CompletedDate: d.date("completed_date").ptr(),
		Status:        TaskStatus(d.str("status_task")),
	}
	if t.AssigneeID == "" {
		t.AssigneeID = Unassigned
	}
	if d.err != nil {
		return Task{}, fmt.Errorf("decode task %q: %w", t.ID, d.err)
	}
	return t, nil
}

// --- WeeklyReport ---

func (w WeeklyReport) Record() []string {
	return []string{
		w.ID, w.ProjectID, FormatDate(w.PeriodStart), FormatDate(w.PeriodEnd),
		strconv.Itoa(w.TotalTasks), strconv.Itoa(w.CompletedTasks), strconv.Itoa(w.OverdueTasks),
		formatFloat(w.Progress), w.Status, w.AuthorID, formatTimestamp(w.CreatedAt),
	}
}

func WeeklyReportFromRecord(r Row) (WeeklyReport, error) {
	d := &rowDecoder{row: r}
	w := WeeklyReport{
		ID:             d.str("report_id"),
		ProjectID:      d.str("project_id"),
		PeriodStart:    d.date("period_start").value(),
		PeriodEnd:      d.date("period_end").value(),
		TotalTasks:     d.integer("total_tasks"),
		CompletedTasks: d.integer("completed_tasks"),
		OverdueTasks:   d.integer("overdue_tasks"),
		Progress:       d.number("progress"),
		Status:         d.str("status"),
		AuthorID:       d.str("author_id"),
		CreatedAt:      d.timestamp("created_date").value(),
	}
	if d.err != nil {
		return WeeklyReport{}, fmt.Errorf("decode weekly report %q: %w", w.ID, d.err)
	}
	return w, nil
}

// --- FinalReport ---

func (f FinalReport) Record() []string {
	return []string{
		f.ProjectID, f.ID, f.AuthorID, formatTimestamp(f.CreatedAt),
		f.ProjectName, f.Customer, FormatOptionalDate(f.ProjectStartDate), FormatOptionalDate(f.ActualEndDate),
		strconv.Itoa(f.DurationDays), strconv.Itoa(f.TotalTasks), strconv.Itoa(f.CompletedTasks),
		strconv.Itoa(f.OntimeTasks), strconv.Itoa(f.OverdueTasks), strconv.Itoa(f.CancelledTasks),
		formatFloat(f.OverallProgress), string(f.ProjectStatus),
	}
}

func FinalReportFromRecord(r Row) (FinalReport, error) {
	d := &rowDecoder{row: r}
	f := FinalReport{
		ProjectID:        d.str("project_id"),
		ID:               d.str("report_id"),
		AuthorID:         d.str("author_id"),
		CreatedAt:        d.timestamp("created_date").value(),
		ProjectName:      d.str("project_name"),
		Customer:         d.str("customer"),
		ProjectStartDate: d.date("project_start_date").ptr(),
		ActualEndDate:    d.date("actual_end_date").ptr(),
		DurationDays:     d.integer("duration_days"),
		TotalTasks:       d.integer("total_tasks"),
		CompletedTasks:   d.integer("completed_tasks"),
		OntimeTasks:      d.integer("ontime_tasks"),
		OverdueTasks:     d.integer("overdue_tasks"),
		CancelledTasks:   d.integer("cancelled_tasks"),
		OverallProgress:  d.number("overall_progress"),
		ProjectStatus:    ProjectStatus(d.str("project_status")),
	}
	if d.err != nil {
		return FinalReport{}, fmt.Errorf("decode final report %q: %w", f.ID, d.err)
	}
	return f, nil
}

// RowFrom zips a header with a record.
func RowFrom(header, record []string) Row {
	r := make(Row, len(header))
	for i, h := range header {
		if i < len(record) {
			r[h] = record[i]
		}
	}
	return r
}

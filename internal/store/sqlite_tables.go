package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sadopc/pmdesk/internal/apperr"
)

// table describes one SQLite table whose columns equal a record header.
type table struct {
	name     string
	resource string
	key      string
	header   []string
	nullable map[string]bool
}

var (
	projectsTable = table{
		name: "projects", resource: "project", key: "project_id", header: ProjectHeader,
		nullable: map[string]bool{"actual_end_date": true},
	}
	staffTable = table{
		name: "staff", resource: "staff", key: "staff_id", header: StaffHeader,
	}
	tasksTable = table{
		name: "tasks", resource: "task", key: "task_id", header: TaskHeader,
		nullable: map[string]bool{"deadline": true, "completed_date": true},
	}
	weeklyTable = table{
		name: "weekly_reports", resource: "weekly report", key: "report_id", header: WeeklyReportHeader,
	}
	finalTable = table{
		name: "final_reports", resource: "final report", key: "report_id", header: FinalReportHeader,
		nullable: map[string]bool{"project_start_date": true, "actual_end_date": true},
	}
)

func (t table) selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.header, ", "), t.name)
}

func (t table) insertSQL(upsert bool) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.header)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.header, ", "), marks)
	if !upsert {
		return q
	}
	var sets []string
	for _, c := range t.header {
		if c != t.key {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	return q + fmt.Sprintf(" ON CONFLICT(%s) DO UPDATE SET %s", t.key, strings.Join(sets, ", "))
}

func (t table) args(record []string) []any {
	args := make([]any, len(record))
	for i, v := range record {
		if t.nullable[t.header[i]] {
			args[i] = nullDate(v)
		} else {
			args[i] = v
		}
	}
	return args
}

func (s *SQLiteStore) queryRows(t table, where string, orderBy string, args ...any) ([]Row, error) {
	query := t.selectSQL()
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		vals := make([]sql.NullString, len(t.header))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make([]string, len(vals))
		for i, v := range vals {
			record[i] = v.String
		}
		out = append(out, RowFrom(t.header, record))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) getRow(t table, id string) (Row, error) {
	rows, err := s.queryRows(t, t.key+" = ?", "", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound(t, id)
	}
	return rows[0], nil
}

func (s *SQLiteStore) upsert(t table, record []string) error {
	if _, err := s.db.Exec(t.insertSQL(true), t.args(record)...); err != nil {
		return fmt.Errorf("save %s: %w", t.resource, err)
	}
	return nil
}

func (s *SQLiteStore) insert(t table, id string, record []string) error {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM "+t.name+" WHERE "+t.key+" = ?", id).Scan(&n); err != nil {
		return fmt.Errorf("check %s: %w", t.resource, err)
	}
	if n > 0 {
		return apperr.AlreadyExists(t.resource, id)
	}
	if _, err := s.db.Exec(t.insertSQL(false), t.args(record)...); err != nil {
		return fmt.Errorf("insert %s: %w", t.resource, err)
	}
	return nil
}

func (s *SQLiteStore) delete(t table, id string) error {
	res, err := s.db.Exec("DELETE FROM "+t.name+" WHERE "+t.key+" = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.resource, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(t, id)
	}
	return nil
}

func notFound(t table, id string) error {
	return apperr.NotFound(t.resource, id)
}

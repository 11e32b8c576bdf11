package store

import "fmt"

func decodeRows[T any](rows []Row, decode func(Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *SQLiteStore) ListProjects() ([]Project, error) {
	rows, err := s.queryRows(projectsTable, "", "project_id")
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, ProjectFromRecord)
}

func (s *SQLiteStore) GetProject(id string) (*Project, error) {
	row, err := s.getRow(projectsTable, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	p, err := ProjectFromRecord(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) SaveProject(p Project) error {
	return s.upsert(projectsTable, p.Record())
}

// DeleteProject removes the project together with its tasks.
func (s *SQLiteStore) DeleteProject(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete project: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM projects WHERE project_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete project: %w", notFound(projectsTable, id))
	}
	return tx.Commit()
}

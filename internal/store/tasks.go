package store

import "fmt"

func (s *SQLiteStore) ListTasks(projectID string) ([]Task, error) {
	var (
		rows []Row
		err  error
	)
	if projectID == "" {
		rows, err = s.queryRows(tasksTable, "", "task_id")
	} else {
		rows, err = s.queryRows(tasksTable, "project_id = ?", "task_id", projectID)
	}
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, TaskFromRecord)
}

func (s *SQLiteStore) GetTask(id string) (*Task, error) {
	row, err := s.getRow(tasksTable, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	t, err := TaskFromRecord(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) SaveTask(t Task) error {
	return s.upsert(tasksTable, t.Record())
}

func (s *SQLiteStore) DeleteTask(id string) error {
	return s.delete(tasksTable, id)
}

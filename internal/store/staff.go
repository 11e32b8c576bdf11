package store

import "fmt"

func (s *SQLiteStore) ListStaff() ([]Staff, error) {
	rows, err := s.queryRows(staffTable, "", "staff_id")
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, StaffFromRecord)
}

func (s *SQLiteStore) GetStaff(id string) (*Staff, error) {
	row, err := s.getRow(staffTable, id)
	if err != nil {
		return nil, fmt.Errorf("get staff: %w", err)
	}
	st, _ := StaffFromRecord(row)
	return &st, nil
}

func (s *SQLiteStore) SaveStaff(st Staff) error {
	return s.upsert(staffTable, st.Record())
}

func (s *SQLiteStore) DeleteStaff(id string) error {
	return s.delete(staffTable, id)
}

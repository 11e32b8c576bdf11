package store

import "fmt"

func (s *SQLiteStore) ListWeeklyReports(projectID string) ([]WeeklyReport, error) {
	var (
		rows []Row
		err  error
	)
	if projectID == "" {
		rows, err = s.queryRows(weeklyTable, "", "project_id, period_end")
	} else {
		rows, err = s.queryRows(weeklyTable, "project_id = ?", "period_end", projectID)
	}
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, WeeklyReportFromRecord)
}

func (s *SQLiteStore) GetWeeklyReport(id string) (*WeeklyReport, error) {
	row, err := s.getRow(weeklyTable, id)
	if err != nil {
		return nil, fmt.Errorf("get weekly report: %w", err)
	}
	w, err := WeeklyReportFromRecord(row)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *SQLiteStore) InsertWeeklyReport(r WeeklyReport) error {
	return s.insert(weeklyTable, r.ID, r.Record())
}

func (s *SQLiteStore) DeleteWeeklyReport(id string) error {
	return s.delete(weeklyTable, id)
}

func (s *SQLiteStore) ListFinalReports(projectID string) ([]FinalReport, error) {
	var (
		rows []Row
		err  error
	)
	if projectID == "" {
		rows, err = s.queryRows(finalTable, "", "report_id")
	} else {
		rows, err = s.queryRows(finalTable, "project_id = ?", "report_id", projectID)
	}
	if err != nil {
		return nil, err
	}
	return decodeRows(rows, FinalReportFromRecord)
}

func (s *SQLiteStore) GetFinalReport(id string) (*FinalReport, error) {
	row, err := s.getRow(finalTable, id)
	if err != nil {
		return nil, fmt.Errorf("get final report: %w", err)
	}
	f, err := FinalReportFromRecord(row)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *SQLiteStore) InsertFinalReport(r FinalReport) error {
	return s.insert(finalTable, r.ID, r.Record())
}

func (s *SQLiteStore) DeleteFinalReport(id string) error {
	return s.delete(finalTable, id)
}

package store

import "sort"

func (s *CSVStore) ListProjects() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadAll(s, csvProjects)
}

func (s *CSVStore) GetProject(id string) (*Project, error) { return find(s, csvProjects, id) }
func (s *CSVStore) SaveProject(p Project) error            { return put(s, csvProjects, p, false) }

// DeleteProject removes the project and then its tasks.
func (s *CSVStore) DeleteProject(id string) error {
	if err := removeByID(s, csvProjects, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := remove(s, csvTasks, func(t Task) bool { return t.ProjectID == id })
	return err
}

func (s *CSVStore) ListStaff() ([]Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return loadAll(s, csvStaff)
}

func (s *CSVStore) GetStaff(id string) (*Staff, error) { return find(s, csvStaff, id) }
func (s *CSVStore) SaveStaff(st Staff) error           { return put(s, csvStaff, st, false) }
func (s *CSVStore) DeleteStaff(id string) error        { return removeByID(s, csvStaff, id) }

func (s *CSVStore) ListTasks(projectID string) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks, err := loadAll(s, csvTasks)
	if err != nil || projectID == "" {
		return tasks, err
	}
	return filter(tasks, func(t Task) bool { return t.ProjectID == projectID }), nil
}

func (s *CSVStore) GetTask(id string) (*Task, error) { return find(s, csvTasks, id) }
func (s *CSVStore) SaveTask(t Task) error            { return put(s, csvTasks, t, false) }
func (s *CSVStore) DeleteTask(id string) error       { return removeByID(s, csvTasks, id) }

// ListWeeklyReports returns reports ordered by project, then period end.
func (s *CSVStore) ListWeeklyReports(projectID string) ([]WeeklyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports, err := loadAll(s, csvWeekly)
	if err != nil {
		return nil, err
	}
	if projectID != "" {
		reports = filter(reports, func(r WeeklyReport) bool { return r.ProjectID == projectID })
	}
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].ProjectID != reports[j].ProjectID {
			return reports[i].ProjectID < reports[j].ProjectID
		}
		return reports[i].PeriodEnd.Before(reports[j].PeriodEnd)
	})
	return reports, nil
}

func (s *CSVStore) GetWeeklyReport(id string) (*WeeklyReport, error) { return find(s, csvWeekly, id) }
func (s *CSVStore) InsertWeeklyReport(r WeeklyReport) error          { return put(s, csvWeekly, r, true) }
func (s *CSVStore) DeleteWeeklyReport(id string) error               { return removeByID(s, csvWeekly, id) }

func (s *CSVStore) ListFinalReports(projectID string) ([]FinalReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reports, err := loadAll(s, csvFinal)
	if err != nil || projectID == "" {
		return reports, err
	}
	return filter(reports, func(r FinalReport) bool { return r.ProjectID == projectID }), nil
}

func (s *CSVStore) GetFinalReport(id string) (*FinalReport, error) { return find(s, csvFinal, id) }
func (s *CSVStore) InsertFinalReport(r FinalReport) error          { return put(s, csvFinal, r, true) }
func (s *CSVStore) DeleteFinalReport(id string) error              { return removeByID(s, csvFinal, id) }

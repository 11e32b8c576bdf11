package report

import (
	"fmt"
	"strings"

	"github.com/sadopc/pmdesk/internal/store"
)

// ListWeekly returns weekly reports, all of them when projectID is empty.
func (s *Service) ListWeekly(projectID string) ([]store.WeeklyReport, error) {
	return s.weekly.ListWeeklyReports(strings.TrimSpace(projectID))
}

func (s *Service) ListFinal() ([]store.FinalReport, error) {
	return s.final.ListFinalReports("")
}

func (s *Service) GetWeekly(id string) (*store.WeeklyReport, error) {
	return s.weekly.GetWeeklyReport(strings.TrimSpace(id))
}

func (s *Service) GetFinal(id string) (*store.FinalReport, error) {
	return s.final.GetFinalReport(strings.TrimSpace(id))
}

// matches is a case-insensitive substring test on report and project ids.
// An empty keyword matches everything.
func matches(keyword, reportID, projectID string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(reportID), keyword) ||
		strings.Contains(strings.ToLower(projectID), keyword)
}

func (s *Service) SearchWeekly(keyword string) ([]store.WeeklyReport, error) {
	all, err := s.weekly.ListWeeklyReports("")
	if err != nil {
		return nil, fmt.Errorf("search weekly reports: %w", err)
	}
	var out []store.WeeklyReport
	for _, r := range all {
		if matches(keyword, r.ID, r.ProjectID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) SearchFinal(keyword string) ([]store.FinalReport, error) {
	all, err := s.final.ListFinalReports("")
	if err != nil {
		return nil, fmt.Errorf("search final reports: %w", err)
	}
	var out []store.FinalReport
	for _, r := range all {
		if matches(keyword, r.ID, r.ProjectID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) DeleteWeekly(id string) error {
	id = strings.TrimSpace(id)
	if err := s.weekly.DeleteWeeklyReport(id); err != nil {
		return err
	}
	s.log.Info().Str("report_id", id).Msg("weekly report deleted")
	return nil
}

func (s *Service) DeleteFinal(id string) error {
	id = strings.TrimSpace(id)
	if err := s.final.DeleteFinalReport(id); err != nil {
		return err
	}
	s.log.Info().Str("report_id", id).Msg("final report deleted")
	return nil
}

package report

import (
	"fmt"
	"strings"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

// FinalRequest names the project and author of a final report. A blank
// ReportID defaults to the project's canonical final report id.
type FinalRequest struct {
	ProjectID string
	AuthorID  string
	ReportID  string
}

// PrepareFinal checks a project is ready to be closed out and builds its
// unsaved lifetime snapshot.
func (s *Service) PrepareFinal(req FinalRequest) (*store.FinalReport, error) {
	r, err := s.prepareFinal(req)
	if err != nil {
		s.log.Warn().Err(err).
			Str("project_id", req.ProjectID).
			Str("author_id", req.AuthorID).
			Str("report_id", req.ReportID).
			Msg("final report rejected")
		return nil, err
	}
	return r, nil
}

func (s *Service) prepareFinal(req FinalRequest) (*store.FinalReport, error) {
	p, err := s.project(req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !p.Status.Terminal() {
		return nil, apperr.Validation("project %s is %s; a final report needs it Completed or Cancelled", p.ID, p.Status)
	}
	if p.PMID == "" {
		return nil, apperr.Validation("project %s has no assigned project manager", p.ID)
	}

	authorID := strings.TrimSpace(req.AuthorID)
	if authorID != p.PMID {
		return nil, apperr.Permission("only the project manager %s may author the final report of %s", p.PMID, p.ID)
	}
	author, err := s.staff.GetStaff(authorID)
	if apperr.IsNotFound(err) {
		return nil, apperr.Permission("author %s has no staff record", authorID)
	}
	if err != nil {
		return nil, err
	}
	if !author.IsProjectManager() {
		return nil, apperr.Permission("%s does not hold the %s title", author.ID, store.TitleProjectManager)
	}

	if p.ActualEndDate == nil {
		return nil, apperr.Validation("project has no actual completion date")
	}
	now := s.timestamp()
	end := store.Day(*p.ActualEndDate)
	if store.Day(now).Before(end) {
		return nil, apperr.Validation("report date %s is before the project's actual end %s",
			now.Format(store.DisplayDateLayout), store.DisplayDate(&end))
	}

	if err := s.finalAbsent(p.ID); err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.ReportID)
	if id == "" {
		id = FinalReportID(p.ID)
	}
	if err := ValidateFinalID(p.ID, id); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasks(p.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	stats := ComputeFinalStats(tasks)

	r := &store.FinalReport{
		ID:              id,
		ProjectID:       p.ID,
		AuthorID:        author.ID,
		CreatedAt:       now,
		ProjectName:     p.Name,
		Customer:        p.Customer,
		ActualEndDate:   &end,
		TotalTasks:      stats.Total,
		CompletedTasks:  stats.Completed,
		OntimeTasks:     stats.Ontime,
		OverdueTasks:    stats.Overdue,
		CancelledTasks:  stats.Cancelled,
		OverallProgress: stats.Progress,
		ProjectStatus:   p.Status,
	}
	if !p.StartDate.IsZero() {
		start := store.Day(p.StartDate)
		r.ProjectStartDate = &start
		r.DurationDays = int(end.Sub(start).Hours() / 24)
	}
	return r, nil
}

// finalAbsent fails when the project already has a final report under any id.
func (s *Service) finalAbsent(projectID string) error {
	existing, err := s.final.ListFinalReports(projectID)
	if err != nil {
		return fmt.Errorf("list final reports: %w", err)
	}
	if len(existing) > 0 {
		return apperr.AlreadyExists("final report", existing[0].ID)
	}
	return nil
}

func (s *Service) SaveFinal(r store.FinalReport) error {
	if err := s.finalAbsent(r.ProjectID); err != nil {
		return err
	}
	if err := s.final.InsertFinalReport(r); err != nil {
		s.log.Error().Err(err).Str("report_id", r.ID).Msg("save final report")
		return fmt.Errorf("save final report: %w", err)
	}
	s.log.Info().
		Str("report_id", r.ID).
		Str("project_id", r.ProjectID).
		Str("author_id", r.AuthorID).
		Int("total_tasks", r.TotalTasks).
		Float64("progress", r.OverallProgress).
		Msg("final report saved")
	return nil
}

func (s *Service) CreateFinal(req FinalRequest) (*store.FinalReport, error) {
	r, err := s.PrepareFinal(req)
	if err != nil {
		return nil, err
	}
	if err := s.SaveFinal(*r); err != nil {
		return nil, err
	}
	return r, nil
}

package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

// WeeklyRequest is what a person supplies when authoring a weekly report.
// End is ignored after the first week, and a blank ReportID takes the next
// id in the project's sequence.
type WeeklyRequest struct {
	ProjectID string
	AuthorID  string
	ReportID  string
	Start     time.Time
	End       time.Time
}

// Plan tells an interactive caller what the next weekly report of a project
// has to look like before it asks for anything.
type Plan struct {
	Project     store.Project
	Period      Period
	SuggestedID string
}

func (s *Service) WeeklyPlan(projectID string) (*Plan, error) {
	p, err := s.project(projectID)
	if err != nil {
		return nil, err
	}
	prior, err := s.weekly.ListWeeklyReports(p.ID)
	if err != nil {
		return nil, fmt.Errorf("list weekly reports: %w", err)
	}
	period, err := NextPeriod(*p, prior)
	if err != nil {
		return nil, err
	}
	id, err := NextWeeklyID(p.ID, prior)
	if err != nil {
		return nil, err
	}
	return &Plan{Project: *p, Period: period, SuggestedID: id}, nil
}

// ValidateWeeklyAuthor checks that authorID is a Project Manager and the
// one assigned to p.
func (s *Service) ValidateWeeklyAuthor(p store.Project, authorID string) (*store.Staff, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, apperr.Validation("author id is required")
	}
	author, err := s.staff.GetStaff(authorID)
	if err != nil {
		return nil, err
	}
	if !author.IsProjectManager() {
		return nil, apperr.Permission("only a %s may author reports", store.TitleProjectManager)
	}
	if author.ID != p.PMID {
		return nil, apperr.Permission("%s is not the project manager of %s", author.ID, p.ID)
	}
	return author, nil
}

// PrepareWeekly builds an unsaved weekly report. Nothing is written.
func (s *Service) PrepareWeekly(req WeeklyRequest) (*store.WeeklyReport, error) {
	r, err := s.prepareWeekly(req)
	if err != nil {
		s.log.Warn().Err(err).
			Str("project_id", req.ProjectID).
			Str("author_id", req.AuthorID).
			Str("report_id", req.ReportID).
			Msg("weekly report rejected")
		return nil, err
	}
	return r, nil
}

func (s *Service) prepareWeekly(req WeeklyRequest) (*store.WeeklyReport, error) {
	p, err := s.project(req.ProjectID)
	if err != nil {
		return nil, err
	}
	author, err := s.ValidateWeeklyAuthor(*p, req.AuthorID)
	if err != nil {
		return nil, err
	}

	prior, err := s.weekly.ListWeeklyReports(p.ID)
	if err != nil {
		return nil, fmt.Errorf("list weekly reports: %w", err)
	}
	period, err := ResolvePeriod(*p, prior, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	tasks, err := s.tasks.ListTasks(p.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	stats := ComputeWeeklyStats(tasks, now)

	id := strings.TrimSpace(req.ReportID)
	if id == "" {
		if id, err = NextWeeklyID(p.ID, prior); err != nil {
			return nil, err
		}
	}
	if err := ValidateWeeklyID(p.ID, id); err != nil {
		return nil, err
	}
	if err := s.weeklyIDFree(id); err != nil {
		return nil, err
	}

	return &store.WeeklyReport{
		ID:             id,
		ProjectID:      p.ID,
		AuthorID:       author.ID,
		PeriodStart:    period.Start,
		PeriodEnd:      period.End,
		TotalTasks:     stats.Total,
		CompletedTasks: stats.Completed,
		OverdueTasks:   stats.Overdue,
		Progress:       stats.Progress,
		Status:         stats.Status,
		CreatedAt:      now,
	}, nil
}

func (s *Service) weeklyIDFree(id string) error {
	_, err := s.weekly.GetWeeklyReport(id)
	switch {
	case err == nil:
		return apperr.AlreadyExists("weekly report", id)
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check weekly report id: %w", err)
	}
}

// SaveWeekly persists a prepared report.
func (s *Service) SaveWeekly(r store.WeeklyReport) error {
	if err := s.weekly.InsertWeeklyReport(r); err != nil {
		s.log.Error().Err(err).Str("report_id", r.ID).Msg("save weekly report")
		return fmt.Errorf("save weekly report: %w", err)
	}
	s.log.Info().
		Str("report_id", r.ID).
		Str("project_id", r.ProjectID).
		Str("author_id", r.AuthorID).
		Str("period_start", store.FormatDate(r.PeriodStart)).
		Str("period_end", store.FormatDate(r.PeriodEnd)).
		Float64("progress", r.Progress).
		Msg("weekly report saved")
	return nil
}

// CreateWeekly prepares and saves in one go.
func (s *Service) CreateWeekly(req WeeklyRequest) (*store.WeeklyReport, error) {
	r, err := s.PrepareWeekly(req)
	if err != nil {
		return nil, err
	}
	if err := s.SaveWeekly(*r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) project(id string) (*store.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("project id is required")
	}
	return s.projects.GetProject(id)
}

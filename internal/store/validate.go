package store

import (
	"regexp"
	"strings"
	"time"

	"github.com/sadopc/pmdesk/internal/apperr"
)

var projectIDPattern = regexp.MustCompile(`^P\d{2}_\d{5}$`)

// ValidProjectID reports whether id has the form P<yy>_<nnnnn>.
func ValidProjectID(id string) bool {
	return projectIDPattern.MatchString(id)
}

// Validate checks the project's field rules as of today.
func (p Project) Validate(today time.Time) error {
	switch {
	case !ValidProjectID(p.ID):
		return apperr.Validation("invalid project id %q (example: P25_00001)", p.ID)
	case len(strings.TrimSpace(p.Name)) < 2:
		return apperr.Validation("project name must be at least 2 characters")
	case strings.TrimSpace(p.Customer) == "":
		return apperr.Validation("customer is required")
	case p.StartDate.IsZero():
		return apperr.Validation("start date is required")
	case p.ExpectedEndDate.IsZero():
		return apperr.Validation("expected end date is required")
	case Day(p.ExpectedEndDate).Before(Day(p.StartDate)):
		return apperr.Validation("expected end date must be on or after the start date")
	case p.ActualEndDate != nil && Day(*p.ActualEndDate).Before(Day(p.StartDate)):
		return apperr.Validation("actual end date must be on or after the start date")
	case p.Budget <= 0:
		return apperr.Validation("budget must be greater than 0")
	case !p.Status.Valid():
		return apperr.Validation("unknown project status %q", p.Status)
	case strings.TrimSpace(p.PMID) == "":
		return apperr.Validation("project manager is required")
	}

	if p.Status == ProjectCompleted {
		d := Day(today)
		if d.Before(Day(p.ExpectedEndDate)) {
			return apperr.Validation("project cannot be Completed before its expected end date %s",
				p.ExpectedEndDate.Format(DisplayDateLayout))
		}
		if p.ActualEndDate != nil && Day(*p.ActualEndDate).After(d) {
			return apperr.Validation("actual end date cannot be in the future for a Completed project")
		}
	}
	return nil
}

func (s Staff) Validate() error {
	switch {
	case strings.TrimSpace(s.ID) == "":
		return apperr.Validation("staff id is required")
	case len(strings.TrimSpace(s.Name)) < 2:
		return apperr.Validation("staff name must be at least 2 characters")
	}
	return nil
}

func (t Task) Validate() error {
	switch {
	case strings.TrimSpace(t.ID) == "":
		return apperr.Validation("task id is required")
	case strings.TrimSpace(t.ProjectID) == "":
		return apperr.Validation("task must belong to a project")
	case strings.TrimSpace(t.Name) == "":
		return apperr.Validation("task name is required")
	case !t.Status.Valid():
		return apperr.Validation("unknown task status %q", t.Status)
	case t.Status == TaskCompleted && t.CompletedDate == nil:
		return apperr.Validation("completed task needs a completion date")
	}
	return nil
}

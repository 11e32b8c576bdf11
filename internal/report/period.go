package report

import (
	"time"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

// MaxPeriodDays bounds a reporting period: end - start must stay below it.
const MaxPeriodDays = 7

// Period is the date range one weekly report covers.
type Period struct {
	Start time.Time
	End   time.Time
	// First is set when the project has no weekly report yet. Only then
	// does the caller choose the end date.
	First bool
}

// NextPeriod works out where the next weekly report of p must start. For
// later weeks End is filled in as well, since it is not negotiable.
func NextPeriod(p store.Project, prior []store.WeeklyReport) (Period, error) {
	var (
		last  time.Time
		found bool
	)
	for _, r := range prior {
		if r.ProjectID != p.ID {
			continue
		}
		if !found || r.PeriodEnd.After(last) {
			last = r.PeriodEnd
			found = true
		}
	}

	if !found {
		return Period{Start: store.Day(p.StartDate), First: true}, nil
	}

	start := store.Day(last).AddDate(0, 0, 1)
	projectEnd := store.Day(p.ExpectedEndDate)
	if start.After(projectEnd) {
		return Period{}, apperr.Validation("project %s has no reporting weeks left: last period ended %s, expected end is %s",
			p.ID, store.DisplayDate(&last), store.DisplayDate(&projectEnd))
	}
	end := start.AddDate(0, 0, MaxPeriodDays-1)
	if end.After(projectEnd) {
		end = projectEnd
	}
	return Period{Start: start, End: end}, nil
}

// ResolvePeriod checks a requested period against the project's timeline
// and its prior reports. end is only consulted for the first week.
func ResolvePeriod(p store.Project, prior []store.WeeklyReport, start, end time.Time) (Period, error) {
	next, err := NextPeriod(p, prior)
	if err != nil {
		return Period{}, err
	}

	start = store.Day(start)
	if !start.Equal(next.Start) {
		return Period{}, apperr.Validation("period must start on %s, got %s",
			store.DisplayDate(&next.Start), store.DisplayDate(&start))
	}
	if !next.First {
		return next, nil
	}

	if end.IsZero() {
		return Period{}, apperr.Validation("end date is required for the first week")
	}
	end = store.Day(end)
	projectEnd := store.Day(p.ExpectedEndDate)
	switch {
	case end.Before(start):
		return Period{}, apperr.Validation("end date %s is before start date %s",
			store.DisplayDate(&end), store.DisplayDate(&start))
	case end.After(projectEnd):
		return Period{}, apperr.Validation("end date %s is after the project's expected end %s",
			store.DisplayDate(&end), store.DisplayDate(&projectEnd))
	case end.Sub(start) >= MaxPeriodDays*24*time.Hour:
		return Period{}, apperr.Validation("a reporting period must be shorter than %d days", MaxPeriodDays)
	}
	return Period{Start: start, End: end, First: true}, nil
}

package report

import (
	"math"
	"time"

	"github.com/sadopc/pmdesk/internal/store"
)

// Weekly status labels.
const (
	StatusNoTasks        = "No Tasks"
	StatusCompleted      = "Completed"
	StatusBehindSchedule = "Behind Schedule"
	StatusOnTrack        = "On Track"
)

type WeeklyStats struct {
	Total     int
	Completed int
	Overdue   int
	Progress  float64
	Status    string
}

type FinalStats struct {
	Total     int
	Completed int
	Ontime    int
	Overdue   int
	Cancelled int
	Progress  float64
}

// Progress is completed/total as a percentage rounded to two decimals.
func Progress(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*10000) / 100
}

// completedLate reports whether t has both dates and finished after its deadline.
func completedLate(t store.Task) bool {
	if t.Deadline == nil || t.CompletedDate == nil {
		return false
	}
	return store.Day(*t.CompletedDate).After(store.Day(*t.Deadline))
}

// IsOverdue reports whether t counts as overdue on asOf: it finished late,
// or it is still open and its deadline has passed.
func IsOverdue(t store.Task, asOf time.Time) bool {
	if t.Deadline == nil {
		return false
	}
	if completedLate(t) {
		return true
	}
	if t.Status == store.TaskCompleted || t.Status == store.TaskCancelled {
		return false
	}
	return store.Day(*t.Deadline).Before(store.Day(asOf))
}

// ComputeWeeklyStats summarises the current state of tasks. It never
// looks at the reporting period.
func ComputeWeeklyStats(tasks []store.Task, asOf time.Time) WeeklyStats {
	var st WeeklyStats
	for _, t := range tasks {
		st.Total++
		if t.Status == store.TaskCompleted {
			st.Completed++
		}
		if IsOverdue(t, asOf) {
			st.Overdue++
		}
	}
	st.Progress = Progress(st.Completed, st.Total)

	switch {
	case st.Total == 0:
		st.Status = StatusNoTasks
	case st.Completed == st.Total:
		st.Status = StatusCompleted
	case st.Overdue > 0:
		st.Status = StatusBehindSchedule
	default:
		st.Status = StatusOnTrack
	}
	return st
}

// ComputeFinalStats aggregates a project's tasks over its whole lifetime.
func ComputeFinalStats(tasks []store.Task) FinalStats {
	var st FinalStats
	for _, t := range tasks {
		st.Total++
		switch t.Status {
		case store.TaskCompleted:
			st.Completed++
		case store.TaskCancelled:
			st.Cancelled++
		}
		if completedLate(t) {
			st.Overdue++
		}
	}
	st.Ontime = max(0, st.Completed-st.Overdue)
	st.Progress = Progress(st.Completed, st.Total)
	return st
}

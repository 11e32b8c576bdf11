package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

func TestWeeklyChainingScenario(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.CreateWeekly(WeeklyRequest{
		ProjectID: "P25_00001",
		AuthorID:  "S001",
		ReportID:  "WRP25_00001_W01",
		Start:     mustDate(t, "01/01/2025"),
		End:       mustDate(t, "05/01/2025"),
	})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2025-01-05"), first.PeriodEnd)

	_, err = f.svc.PrepareWeekly(WeeklyRequest{
		ProjectID: "P25_00001",
		AuthorID:  "S001",
		ReportID:  "WRP25_00001_W02",
		Start:     mustDate(t, "05/01/2025"),
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "06/01/2025")

	second, err := f.svc.PrepareWeekly(WeeklyRequest{
		ProjectID: "P25_00001",
		AuthorID:  "S001",
		ReportID:  "WRP25_00001_W02",
		Start:     mustDate(t, "06/01/2025"),
	})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2025-01-12"), second.PeriodEnd)
}

func TestPrepareWeeklyWritesNothing(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PrepareWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: "WRP25_00001_W01",
		Start: mustDate(t, "2025-01-01"), End: mustDate(t, "2025-01-03"),
	})
	require.NoError(t, err)

	list, err := f.svc.ListWeekly("")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPrepareWeeklySnapshot(t *testing.T) {
	f := newFixture(t)
	f.addTask(t, store.Task{ID: "T1", Name: "design", Status: store.TaskCompleted,
		Deadline: datePtr(t, "2025-01-03"), CompletedDate: datePtr(t, "2025-01-03")})
	f.addTask(t, store.Task{ID: "T2", Name: "build", Status: store.TaskInProgress,
		Deadline: datePtr(t, "2025-01-04")})
	f.addTask(t, store.Task{ID: "T3", Name: "ship", Status: store.TaskTodo,
		Deadline: datePtr(t, "2025-01-30")})

	r, err := f.svc.PrepareWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: "WRP25_00001_W01",
		Start: mustDate(t, "2025-01-01"), End: mustDate(t, "2025-01-05"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, r.TotalTasks)
	assert.Equal(t, 1, r.CompletedTasks)
	assert.Equal(t, 1, r.OverdueTasks)
	assert.Equal(t, 33.33, r.Progress)
	assert.Equal(t, StatusBehindSchedule, r.Status)
	assert.Equal(t, f.now, r.CreatedAt)
	assert.Equal(t, "S001", r.AuthorID)
}

func TestPrepareWeeklyRejections(t *testing.T) {
	f := newFixture(t)
	base := WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: "WRP25_00001_W01",
		Start: mustDate(t, "2025-01-01"), End: mustDate(t, "2025-01-05"),
	}

	tests := []struct {
		name   string
		mutate func(r *WeeklyRequest)
		kind   error
	}{
		{"unknown project", func(r *WeeklyRequest) { r.ProjectID = "P25_99999" }, apperr.ErrNotFound},
		{"blank author", func(r *WeeklyRequest) { r.AuthorID = "" }, apperr.ErrValidation},
		{"unknown author", func(r *WeeklyRequest) { r.AuthorID = "S404" }, apperr.ErrNotFound},
		{"author without title", func(r *WeeklyRequest) { r.AuthorID = "S002" }, apperr.ErrPermission},
		{"pm of another project", func(r *WeeklyRequest) { r.AuthorID = "S003" }, apperr.ErrPermission},
		{"bad id grammar", func(r *WeeklyRequest) { r.ReportID = "WR_W01" }, apperr.ErrValidation},
		{"three digit sequence", func(r *WeeklyRequest) { r.ReportID = "WRP25_00001_W001" }, apperr.ErrValidation},
		{"period too long", func(r *WeeklyRequest) { r.End = mustDate(t, "2025-01-08") }, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := f.svc.PrepareWeekly(req)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestPrepareWeeklyDuplicateID(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: "WRP25_00001_W01",
		Start: mustDate(t, "2025-01-01"), End: mustDate(t, "2025-01-05"),
	})
	require.NoError(t, err)

	_, err = f.svc.PrepareWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: "WRP25_00001_W01",
		Start: mustDate(t, "2025-01-06"),
	})
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestWeeklyPlan(t *testing.T) {
	f := newFixture(t)

	plan, err := f.svc.WeeklyPlan("P25_00001")
	require.NoError(t, err)
	assert.True(t, plan.Period.First)
	assert.Equal(t, mustDate(t, "2025-01-01"), plan.Period.Start)
	assert.Equal(t, "WRP25_00001_W01", plan.SuggestedID)

	_, err = f.svc.CreateWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: plan.SuggestedID,
		Start: plan.Period.Start, End: mustDate(t, "2025-01-05"),
	})
	require.NoError(t, err)

	plan, err = f.svc.WeeklyPlan("P25_00001")
	require.NoError(t, err)
	assert.False(t, plan.Period.First)
	assert.Equal(t, mustDate(t, "2025-01-06"), plan.Period.Start)
	assert.Equal(t, mustDate(t, "2025-01-12"), plan.Period.End)
	assert.Equal(t, "WRP25_00001_W02", plan.SuggestedID)
}

func TestPrepareWeeklyDefaultsID(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.CreateWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001",
		Start: mustDate(t, "2025-01-01"), End: mustDate(t, "2025-01-05"),
	})
	require.NoError(t, err)
	assert.Equal(t, "WRP25_00001_W01", first.ID)

	second, err := f.svc.PrepareWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: "  ",
		Start: mustDate(t, "2025-01-06"),
	})
	require.NoError(t, err)
	assert.Equal(t, "WRP25_00001_W02", second.ID)
}

func TestNextWeeklyID(t *testing.T) {
	id, err := NextWeeklyID("P25_00001", nil)
	require.NoError(t, err)
	assert.Equal(t, "WRP25_00001_W01", id)

	existing := []store.WeeklyReport{
		{ID: "WRP25_00001_W03"},
		{ID: "WRP25_00002_W40"},
		{ID: "legacy"},
	}
	id, err = NextWeeklyID("P25_00001", existing)
	require.NoError(t, err)
	assert.Equal(t, "WRP25_00001_W04", id)

	_, err = NextWeeklyID("P25_00001", []store.WeeklyReport{{ID: "WRP25_00001_W99"}})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "no weekly sequence numbers left")
}

func TestValidateIDs(t *testing.T) {
	assert.NoError(t, ValidateWeeklyID("P25_00001", "WRP25_00001_W07"))
	assert.Error(t, ValidateWeeklyID("P25_00001", "WRP25_00002_W07"))
	assert.Error(t, ValidateWeeklyID("P25_00001", "WRP25_00001_W7"))
	assert.Error(t, ValidateWeeklyID("P25_00001", ""))

	assert.NoError(t, ValidateFinalID("P25_00001", "FRP25_00001"))
	assert.Error(t, ValidateFinalID("P25_00001", "FRP25_00001X"))
	assert.Equal(t, "FRP25_00001", FinalReportID("P25_00001"))
}

func TestSearchAndDeleteWeekly(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateWeekly(WeeklyRequest{
		ProjectID: "P25_00001", AuthorID: "S001", ReportID: "WRP25_00001_W01",
		Start: mustDate(t, "2025-01-01"), End: mustDate(t, "2025-01-05"),
	})
	require.NoError(t, err)

	found, err := f.svc.SearchWeekly("p25_00001")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = f.svc.SearchWeekly("W09")
	require.NoError(t, err)
	assert.Empty(t, found)

	got, err := f.svc.GetWeekly("WRP25_00001_W01")
	require.NoError(t, err)
	assert.Equal(t, "P25_00001", got.ProjectID)

	require.NoError(t, f.svc.DeleteWeekly("WRP25_00001_W01"))
	assert.ErrorIs(t, f.svc.DeleteWeekly("WRP25_00001_W01"), apperr.ErrNotFound)
}

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sadopc/pmdesk/internal/store"
)

type fixture struct {
	store *store.CSVStore
	svc   *Service
	now   time.Time
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := store.ParseDate(s)
	require.NoError(t, err)
	return d
}

// noon is midday local time on the given date, for the service clock.
func noon(t *testing.T, s string) time.Time {
	d := mustDate(t, s)
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
}

func datePtr(t *testing.T, s string) *time.Time {
	d := mustDate(t, s)
	return &d
}

// newFixture seeds project P25_00001 (01/01/2025 to 01/02/2025, PM S001),
// a second PM S003 and an engineer S002.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.NewCSV(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, st.SaveProject(store.Project{
		ID:              "P25_00001",
		Name:            "Billing Revamp",
		Customer:        "Acme",
		StartDate:       mustDate(t, "01/01/2025"),
		ExpectedEndDate: mustDate(t, "01/02/2025"),
		Budget:          1000,
		Status:          store.ProjectInProgress,
		PMID:            "S001",
	}))
	require.NoError(t, st.SaveStaff(store.Staff{ID: "S001", Name: "Lan", Role: "Lead", ManagementTitle: store.TitleProjectManager}))
	require.NoError(t, st.SaveStaff(store.Staff{ID: "S002", Name: "Minh", Role: "Engineer"}))
	require.NoError(t, st.SaveStaff(store.Staff{ID: "S003", Name: "Hoa", Role: "Lead", ManagementTitle: store.TitleProjectManager}))

	f := &fixture{store: st, now: time.Date(2025, 1, 6, 10, 0, 0, 0, time.Local)}
	f.svc = New(st, WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) project(t *testing.T) store.Project {
	t.Helper()
	p, err := f.store.GetProject("P25_00001")
	require.NoError(t, err)
	return *p
}

func (f *fixture) update(t *testing.T, mutate func(p *store.Project)) {
	t.Helper()
	p := f.project(t)
	mutate(&p)
	require.NoError(t, f.store.SaveProject(p))
}

func (f *fixture) addTask(t *testing.T, task store.Task) {
	t.Helper()
	if task.ProjectID == "" {
		task.ProjectID = "P25_00001"
	}
	require.NoError(t, f.store.SaveTask(task))
}

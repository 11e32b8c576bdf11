package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pmdesk/internal/apperr"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestCSV(t *testing.T) *CSVStore {
	t.Helper()
	s, err := NewCSV(t.TempDir())
	if err != nil {
		t.Fatalf("new csv store: %v", err)
	}
	return s
}

// eachBackend runs fn against a fresh CSV store and a fresh SQLite store.
func eachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("csv", func(t *testing.T) { fn(t, newTestCSV(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestStore(t)) })
}

func date(s string) time.Time {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func sampleProject() Project {
	return Project{
		ID:              "P25_00001",
		Name:            "Billing Revamp",
		Customer:        "Acme, Inc.",
		Description:     `rewrite "legacy" billing`,
		StartDate:       date("2025-01-01"),
		ExpectedEndDate: date("2025-02-01"),
		Budget:          125000.5,
		Status:          ProjectInProgress,
		PMID:            "S001",
	}
}

// ============================================================
// Initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/pmdesk.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen; migrations must not run twice.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestDefaultDataDir(t *testing.T) {
	path, err := DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, "pmdesk") {
		t.Fatalf("unexpected data dir %q", path)
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendCSV, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*CSVStore); !ok {
		t.Fatalf("csv backend returned %T", s)
	}

	s, err = Open(BackendSQLite, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Fatalf("sqlite backend returned %T", s)
	}
	if _, err := os.Stat(filepath.Join(dir, "pmdesk.db")); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	if _, err := Open("mongo", dir); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

// ============================================================
// Projects
// ============================================================

func TestSaveAndGetProject(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		p := sampleProject()
		if err := s.SaveProject(p); err != nil {
			t.Fatal(err)
		}

		got, err := s.GetProject(p.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != p.Name || got.Customer != p.Customer || got.Description != p.Description {
			t.Fatalf("unexpected project: %+v", got)
		}
		if !got.StartDate.Equal(p.StartDate) || !got.ExpectedEndDate.Equal(p.ExpectedEndDate) {
			t.Fatalf("dates mangled: %v %v", got.StartDate, got.ExpectedEndDate)
		}
		if got.ActualEndDate != nil {
			t.Fatal("actual end date should stay nil")
		}
		if got.Budget != p.Budget || got.Status != p.Status || got.PMID != "S001" {
			t.Fatalf("unexpected project: %+v", got)
		}
	})
}

func TestSaveProjectUpserts(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		p := sampleProject()
		s.SaveProject(p)

		p.Status = ProjectCompleted
		p.ActualEndDate = datePtr("2025-02-01")
		if err := s.SaveProject(p); err != nil {
			t.Fatal(err)
		}

		projects, _ := s.ListProjects()
		if len(projects) != 1 {
			t.Fatalf("expected 1 project after upsert, got %d", len(projects))
		}
		if projects[0].Status != ProjectCompleted || projects[0].ActualEndDate == nil {
			t.Fatalf("update not applied: %+v", projects[0])
		}
	})
}

func TestGetProjectNotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		_, err := s.GetProject("P25_99999")
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		p := sampleProject()
		other := sampleProject()
		other.ID = "P25_00002"
		s.SaveProject(p)
		s.SaveProject(other)
		s.SaveTask(Task{ID: "T1", ProjectID: p.ID, Name: "a", Status: TaskTodo})
		s.SaveTask(Task{ID: "T2", ProjectID: other.ID, Name: "b", Status: TaskTodo})

		if err := s.DeleteProject(p.ID); err != nil {
			t.Fatal(err)
		}
		tasks, _ := s.ListTasks("")
		if len(tasks) != 1 || tasks[0].ID != "T2" {
			t.Fatalf("expected only T2 to survive, got %+v", tasks)
		}
		if err := s.DeleteProject(p.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("second delete should be not found, got %v", err)
		}
	})
}

// ============================================================
// Staff and tasks
// ============================================================

func TestStaffRoundTrip(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		s.SaveStaff(Staff{ID: "S001", Name: "Lan Nguyen", Role: "Engineer", ManagementTitle: TitleProjectManager})
		s.SaveStaff(Staff{ID: "S002", Name: "Minh Tran", Role: "Engineer"})

		pm, err := s.GetStaff("S001")
		if err != nil {
			t.Fatal(err)
		}
		if !pm.IsProjectManager() {
			t.Fatal("S001 should be a project manager")
		}
		dev, _ := s.GetStaff("S002")
		if dev.IsProjectManager() || dev.ManagementTitle != "" {
			t.Fatalf("S002 should have no title, got %q", dev.ManagementTitle)
		}

		if err := s.DeleteStaff("S002"); err != nil {
			t.Fatal(err)
		}
		all, _ := s.ListStaff()
		if len(all) != 1 {
			t.Fatalf("expected 1 staff, got %d", len(all))
		}
	})
}

func TestListTasksByProject(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		p := sampleProject()
		other := sampleProject()
		other.ID = "P25_00002"
		s.SaveProject(p)
		s.SaveProject(other)

		s.SaveTask(Task{ID: "T1", ProjectID: p.ID, Name: "design", Deadline: datePtr("2025-01-10"),
			CompletedDate: datePtr("2025-01-12"), Status: TaskCompleted, AssigneeID: "S002"})
		s.SaveTask(Task{ID: "T2", ProjectID: p.ID, Name: "build", Status: TaskTodo})
		s.SaveTask(Task{ID: "T3", ProjectID: other.ID, Name: "other", Status: TaskTodo})

		tasks, err := s.ListTasks(p.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
		all, _ := s.ListTasks("")
		if len(all) != 3 {
			t.Fatalf("expected 3 tasks in total, got %d", len(all))
		}

		t2, _ := s.GetTask("T2")
		if t2.AssigneeID != Unassigned {
			t.Fatalf("blank assignee should read back as %q, got %q", Unassigned, t2.AssigneeID)
		}
		if t2.Deadline != nil || t2.CompletedDate != nil {
			t.Fatal("nullable dates should stay nil")
		}
		t1, _ := s.GetTask("T1")
		if t1.CompletedDate == nil || !t1.CompletedDate.Equal(date("2025-01-12")) {
			t.Fatalf("completed date mangled: %v", t1.CompletedDate)
		}
	})
}

// ============================================================
// Reports
// ============================================================

// alignTime fails unless got is the same instant as want, then replaces it
// with want so whole records can be compared with reflect.DeepEqual.
func alignTime(t *testing.T, field string, want time.Time, got *time.Time) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s = %v, want %v", field, *got, want)
	}
	*got = want
}

func alignTimePtr(t *testing.T, field string, want *time.Time, got **time.Time) {
	t.Helper()
	if (want == nil) != (*got == nil) {
		t.Fatalf("%s = %v, want %v", field, *got, want)
	}
	if want == nil {
		return
	}
	alignTime(t, field, *want, *got)
	*got = want
}

func sampleWeekly(id, start, end string) WeeklyReport {
	return WeeklyReport{
		ID:             id,
		ProjectID:      "P25_00001",
		AuthorID:       "S001",
		PeriodStart:    date(start),
		PeriodEnd:      date(end),
		TotalTasks:     3,
		CompletedTasks: 2,
		OverdueTasks:   1,
		Progress:       66.67,
		Status:         "Behind Schedule",
		CreatedAt:      time.Date(2025, 1, 6, 9, 30, 0, 0, time.Local),
	}
}

func TestWeeklyReportsInsertListDelete(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		w2 := sampleWeekly("WRP25_00001_W02", "2025-01-06", "2025-01-12")
		w1 := sampleWeekly("WRP25_00001_W01", "2025-01-01", "2025-01-05")
		if err := s.InsertWeeklyReport(w2); err != nil {
			t.Fatal(err)
		}
		if err := s.InsertWeeklyReport(w1); err != nil {
			t.Fatal(err)
		}

		err := s.InsertWeeklyReport(w1)
		if !errors.Is(err, apperr.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists on duplicate id, got %v", err)
		}

		list, err := s.ListWeeklyReports("P25_00001")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[0].ID != w1.ID {
			t.Fatalf("expected reports ordered by period end, got %+v", list)
		}

		got, err := s.GetWeeklyReport(w1.ID)
		if err != nil {
			t.Fatal(err)
		}
		alignTime(t, "CreatedAt", w1.CreatedAt, &got.CreatedAt)
		alignTime(t, "PeriodStart", w1.PeriodStart, &got.PeriodStart)
		alignTime(t, "PeriodEnd", w1.PeriodEnd, &got.PeriodEnd)
		if !reflect.DeepEqual(*got, w1) {
			t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", *got, w1)
		}

		if err := s.DeleteWeeklyReport(w1.ID); err != nil {
			t.Fatal(err)
		}
		if err := s.DeleteWeeklyReport(w1.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if list, _ := s.ListWeeklyReports(""); len(list) != 1 {
			t.Fatalf("expected 1 report left, got %d", len(list))
		}
	})
}

func TestFinalReportsInsertListDelete(t *testing.T) {
	eachBackend(t, func(t *testing.T, s Store) {
		f := FinalReport{
			ID:               "FRP25_00001",
			ProjectID:        "P25_00001",
			AuthorID:         "S001",
			CreatedAt:        time.Date(2025, 2, 3, 10, 0, 0, 0, time.Local),
			ProjectName:      "Billing Revamp",
			Customer:         "Acme, Inc.",
			ProjectStartDate: datePtr("2025-01-01"),
			ActualEndDate:    datePtr("2025-02-01"),
			DurationDays:     31,
			TotalTasks:       10,
			CompletedTasks:   7,
			OntimeTasks:      5,
			OverdueTasks:     2,
			CancelledTasks:   1,
			OverallProgress:  70,
			ProjectStatus:    ProjectCompleted,
		}
		if err := s.InsertFinalReport(f); err != nil {
			t.Fatal(err)
		}
		if err := s.InsertFinalReport(f); !errors.Is(err, apperr.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}

		got, err := s.GetFinalReport(f.ID)
		if err != nil {
			t.Fatal(err)
		}
		alignTime(t, "CreatedAt", f.CreatedAt, &got.CreatedAt)
		alignTimePtr(t, "ProjectStartDate", f.ProjectStartDate, &got.ProjectStartDate)
		alignTimePtr(t, "ActualEndDate", f.ActualEndDate, &got.ActualEndDate)
		if !reflect.DeepEqual(*got, f) {
			t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", *got, f)
		}

		byProject, _ := s.ListFinalReports("P25_00001")
		if len(byProject) != 1 {
			t.Fatalf("expected 1 final report, got %d", len(byProject))
		}
		none, _ := s.ListFinalReports("P25_00002")
		if len(none) != 0 {
			t.Fatalf("expected no reports for other project, got %d", len(none))
		}

		if err := s.DeleteFinalReport(f.ID); err != nil {
			t.Fatal(err)
		}
	})
}

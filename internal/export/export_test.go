package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/pmdesk/internal/store"
)

func day(s string) time.Time {
	d, _ := store.ParseDate(s)
	return d
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func sampleData() ([]store.WeeklyReport, []store.FinalReport, map[string]*store.Project) {
	created := time.Date(2025, 1, 6, 9, 0, 0, 0, time.Local)

	weekly := []store.WeeklyReport{
		{
			ID:             "WRP25_00001_W01",
			ProjectID:      "P25_00001",
			AuthorID:       "S001",
			PeriodStart:    day("2025-01-01"),
			PeriodEnd:      day("2025-01-05"),
			TotalTasks:     3,
			CompletedTasks: 1,
			OverdueTasks:   1,
			Progress:       33.33,
			Status:         "Behind Schedule",
			CreatedAt:      created,
		},
		{
			ID:          "WRP25_00009_W01",
			ProjectID:   "P25_00009", // deleted since
			AuthorID:    "S004",
			PeriodStart: day("2025-01-01"),
			PeriodEnd:   day("2025-01-07"),
			Status:      "No Tasks",
			CreatedAt:   created,
		},
	}

	final := []store.FinalReport{
		{
			ID:               "FRP25_00002",
			ProjectID:        "P25_00002",
			AuthorID:         "S002",
			CreatedAt:        created,
			ProjectName:      "Old Name",
			Customer:         `Globex, "Intl"`,
			ProjectStartDate: dayPtr("2024-11-01"),
			ActualEndDate:    dayPtr("2024-12-31"),
			DurationDays:     60,
			TotalTasks:       10,
			CompletedTasks:   7,
			OntimeTasks:      5,
			OverdueTasks:     2,
			CancelledTasks:   1,
			OverallProgress:  70,
			ProjectStatus:    store.ProjectCompleted,
		},
	}

	projects := map[string]*store.Project{
		"P25_00001": {ID: "P25_00001", Name: "Billing Revamp"},
		"P25_00002": {ID: "P25_00002", Name: "Data Lake"},
	}
	return weekly, final, projects
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	weekly, final, projects := sampleData()
	dir := t.TempDir()

	paths, err := ToCSV(weekly, final, projects, dir)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %v", paths)
	}

	records := readCSV(t, filepath.Join(dir, WeeklyCSVFile))
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}
	for i, h := range weeklyHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	row := records[1]
	if row[2] != "Billing Revamp" {
		t.Fatalf("Project = %q, want Billing Revamp", row[2])
	}
	if row[3] != "01/01/2025" || row[4] != "05/01/2025" {
		t.Fatalf("period = %q..%q", row[3], row[4])
	}
	if row[8] != "33.33" {
		t.Fatalf("Progress = %q, want 33.33", row[8])
	}
	if row[11] != "2025-01-06 09:00:00" {
		t.Fatalf("Created = %q", row[11])
	}
	if records[2][2] != "Unknown" {
		t.Fatalf("expected 'Unknown' for missing project, got %q", records[2][2])
	}

	records = readCSV(t, filepath.Join(dir, FinalCSVFile))
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	row = records[1]
	if row[2] != "Data Lake" {
		t.Fatalf("live project name should win, got %q", row[2])
	}
	if row[3] != `Globex, "Intl"` {
		t.Fatalf("Customer = %q", row[3])
	}
	if row[9] != "5" || row[12] != "70.00" {
		t.Fatalf("On Time = %q, Progress = %q", row[9], row[12])
	}
}

func TestToCSVEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := ToCSV(nil, nil, nil, dir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{WeeklyCSVFile, FinalCSVFile} {
		if records := readCSV(t, filepath.Join(dir, name)); len(records) != 1 {
			t.Fatalf("%s: expected header only, got %d rows", name, len(records))
		}
	}
}

func TestToCSVSnapshotNameFallback(t *testing.T) {
	_, final, _ := sampleData()
	dir := t.TempDir()
	if _, err := ToCSV(nil, final, map[string]*store.Project{}, dir); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, filepath.Join(dir, FinalCSVFile))
	if records[1][2] != "Old Name" {
		t.Fatalf("expected snapshot name, got %q", records[1][2])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if _, err := ToCSV(nil, nil, nil, "/nonexistent/dir"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	weekly, final, projects := sampleData()
	path := filepath.Join(t.TempDir(), "reports.json")

	if err := ToJSON(weekly, final, projects, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if got.WeeklyCount != 2 || got.FinalCount != 1 {
		t.Fatalf("counts = %d/%d", got.WeeklyCount, got.FinalCount)
	}
	if _, err := time.Parse(time.RFC3339, got.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %q", got.ExportedAt)
	}
	w := got.WeeklyReport[0]
	if w.Project != "Billing Revamp" || w.PeriodStart != "2025-01-01" || w.Progress != 33.33 {
		t.Fatalf("unexpected weekly entry: %+v", w)
	}
	if got.WeeklyReport[1].Project != "Unknown" {
		t.Fatalf("expected Unknown, got %q", got.WeeklyReport[1].Project)
	}
	f := got.FinalReport[0]
	if f.OntimeTasks != 5 || f.ActualEndDate != "2024-12-31" || f.ProjectStatus != "Completed" {
		t.Fatalf("unexpected final entry: %+v", f)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, nil, nil, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if reports, ok := got["weekly_reports"].([]any); !ok || len(reports) != 0 {
		t.Fatalf("weekly_reports should be an empty array, got %v", got["weekly_reports"])
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, nil, nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

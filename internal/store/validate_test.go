package store

import (
	"testing"

	"github.com/sadopc/pmdesk/internal/apperr"
)

func TestValidProjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"P25_00001", true},
		{"P99_12345", true},
		{"P2_00001", false},
		{"P25-00001", false},
		{"p25_00001", false},
		{"P25_000012", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidProjectID(tt.id); got != tt.want {
			t.Errorf("ValidProjectID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestProjectValidate(t *testing.T) {
	today := date("2025-03-01")

	tests := []struct {
		name    string
		mutate  func(p *Project)
		wantErr bool
	}{
		{"valid", func(p *Project) {}, false},
		{"bad id", func(p *Project) { p.ID = "X1" }, true},
		{"short name", func(p *Project) { p.Name = "A" }, true},
		{"no customer", func(p *Project) { p.Customer = " " }, true},
		{"expected end before start", func(p *Project) { p.ExpectedEndDate = date("2024-12-31") }, true},
		{"actual end before start", func(p *Project) { p.ActualEndDate = datePtr("2024-12-31") }, true},
		{"zero budget", func(p *Project) { p.Budget = 0 }, true},
		{"unknown status", func(p *Project) { p.Status = "Done" }, true},
		{"no pm", func(p *Project) { p.PMID = "" }, true},
		{"completed after expected end", func(p *Project) {
			p.Status = ProjectCompleted
			p.ActualEndDate = datePtr("2025-02-01")
		}, false},
		{"completed before expected end", func(p *Project) {
			p.Status = ProjectCompleted
			p.ExpectedEndDate = date("2025-04-01")
		}, true},
		{"completed with future actual end", func(p *Project) {
			p.Status = ProjectCompleted
			p.ActualEndDate = datePtr("2025-03-02")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProject()
			tt.mutate(&p)
			err := p.Validate(today)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.IsValidation(err) {
				t.Fatalf("expected a validation error, got %T", err)
			}
		})
	}
}

func TestTaskValidate(t *testing.T) {
	task := Task{ID: "T1", ProjectID: "P25_00001", Name: "build", Status: TaskCompleted}
	if err := task.Validate(); err == nil {
		t.Fatal("completed task without completion date should fail")
	}
	task.CompletedDate = datePtr("2025-01-03")
	if err := task.Validate(); err != nil {
		t.Fatal(err)
	}
	task.Status = "Finished"
	if err := task.Validate(); err == nil {
		t.Fatal("unknown status should fail")
	}
}

func TestStaffValidate(t *testing.T) {
	if err := (Staff{ID: "S001", Name: "Lan"}).Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (Staff{Name: "Lan"}).Validate(); err == nil {
		t.Fatal("missing id should fail")
	}
}

func TestParseDateLayouts(t *testing.T) {
	a, err := ParseDate("2025-01-05")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseDate("05/01/2025")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatalf("layouts disagree: %v vs %v", a, b)
	}
	if _, err := ParseDate("5 Jan 2025"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
	if d, _ := ParseOptionalDate("  "); d != nil {
		t.Fatal("blank should be nil")
	}
}

package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sadopc/pmdesk/internal/store"
)

// File names written by ToCSV.
const (
	WeeklyCSVFile = "weekly_reports-export.csv"
	FinalCSVFile  = "final_reports-export.csv"
)

var (
	weeklyHeader = []string{"Report ID", "Project ID", "Project", "Period Start", "Period End",
		"Total Tasks", "Completed", "Overdue", "Progress (%)", "Status", "Author", "Created"}
	finalHeader = []string{"Report ID", "Project ID", "Project", "Customer", "Start", "Actual End",
		"Duration (days)", "Total Tasks", "Completed", "On Time", "Overdue", "Cancelled",
		"Progress (%)", "Project Status", "Author", "Created"}
)

// ToCSV writes one spreadsheet-friendly file per report kind into dir and
// returns their paths.
func ToCSV(weekly []store.WeeklyReport, final []store.FinalReport, projects map[string]*store.Project, dir string) ([]string, error) {
	weeklyPath := filepath.Join(dir, WeeklyCSVFile)
	rows := make([][]string, 0, len(weekly))
	for _, r := range weekly {
		rows = append(rows, []string{
			r.ID,
			r.ProjectID,
			projectName(projects, r.ProjectID, ""),
			store.DisplayDate(&r.PeriodStart),
			store.DisplayDate(&r.PeriodEnd),
			strconv.Itoa(r.TotalTasks),
			strconv.Itoa(r.CompletedTasks),
			strconv.Itoa(r.OverdueTasks),
			formatPercent(r.Progress),
			r.Status,
			r.AuthorID,
			formatCreated(r.CreatedAt),
		})
	}
	if err := writeCSV(weeklyPath, weeklyHeader, rows); err != nil {
		return nil, err
	}

	finalPath := filepath.Join(dir, FinalCSVFile)
	rows = make([][]string, 0, len(final))
	for _, r := range final {
		rows = append(rows, []string{
			r.ID,
			r.ProjectID,
			projectName(projects, r.ProjectID, r.ProjectName),
			r.Customer,
			store.DisplayDate(r.ProjectStartDate),
			store.DisplayDate(r.ActualEndDate),
			strconv.Itoa(r.DurationDays),
			strconv.Itoa(r.TotalTasks),
			strconv.Itoa(r.CompletedTasks),
			strconv.Itoa(r.OntimeTasks),
			strconv.Itoa(r.OverdueTasks),
			strconv.Itoa(r.CancelledTasks),
			formatPercent(r.OverallProgress),
			string(r.ProjectStatus),
			r.AuthorID,
			formatCreated(r.CreatedAt),
		})
	}
	if err := writeCSV(finalPath, finalHeader, rows); err != nil {
		return nil, err
	}

	return []string{weeklyPath, finalPath}, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// projectName prefers the live project, then the snapshot, then "Unknown".
func projectName(projects map[string]*store.Project, id, snapshot string) string {
	if p, ok := projects[id]; ok && p != nil {
		return p.Name
	}
	if snapshot != "" {
		return snapshot
	}
	return "Unknown"
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

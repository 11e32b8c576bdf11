package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pmdesk/internal/store"
)

type jsonExport struct {
	ExportedAt   string       `json:"exported_at"`
	WeeklyCount  int          `json:"weekly_count"`
	FinalCount   int          `json:"final_count"`
	WeeklyReport []jsonWeekly `json:"weekly_reports"`
	FinalReport  []jsonFinal  `json:"final_reports"`
}

type jsonWeekly struct {
	ID             string  `json:"report_id"`
	ProjectID      string  `json:"project_id"`
	Project        string  `json:"project"`
	PeriodStart    string  `json:"period_start"`
	PeriodEnd      string  `json:"period_end"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	OverdueTasks   int     `json:"overdue_tasks"`
	Progress       float64 `json:"progress"`
	Status         string  `json:"status"`
	AuthorID       string  `json:"author_id"`
	CreatedAt      string  `json:"created_date"`
}

type jsonFinal struct {
	ID               string  `json:"report_id"`
	ProjectID        string  `json:"project_id"`
	Project          string  `json:"project"`
	Customer         string  `json:"customer"`
	ProjectStartDate string  `json:"project_start_date,omitempty"`
	ActualEndDate    string  `json:"actual_end_date,omitempty"`
	DurationDays     int     `json:"duration_days"`
	TotalTasks       int     `json:"total_tasks"`
	CompletedTasks   int     `json:"completed_tasks"`
	OntimeTasks      int     `json:"ontime_tasks"`
	OverdueTasks     int     `json:"overdue_tasks"`
	CancelledTasks   int     `json:"cancelled_tasks"`
	OverallProgress  float64 `json:"overall_progress"`
	ProjectStatus    string  `json:"project_status"`
	AuthorID         string  `json:"author_id"`
	CreatedAt        string  `json:"created_date"`
}

// ToJSON writes both report kinds into one pretty-printed document.
func ToJSON(weekly []store.WeeklyReport, final []store.FinalReport, projects map[string]*store.Project, path string) error {
	export := jsonExport{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		WeeklyCount:  len(weekly),
		FinalCount:   len(final),
		WeeklyReport: []jsonWeekly{},
		FinalReport:  []jsonFinal{},
	}

	for _, r := range weekly {
		export.WeeklyReport = append(export.WeeklyReport, jsonWeekly{
			ID:             r.ID,
			ProjectID:      r.ProjectID,
			Project:        projectName(projects, r.ProjectID, ""),
			PeriodStart:    store.FormatDate(r.PeriodStart),
			PeriodEnd:      store.FormatDate(r.PeriodEnd),
			TotalTasks:     r.TotalTasks,
			CompletedTasks: r.CompletedTasks,
			OverdueTasks:   r.OverdueTasks,
			Progress:       r.Progress,
			Status:         r.Status,
			AuthorID:       r.AuthorID,
			CreatedAt:      formatCreated(r.CreatedAt),
		})
	}
	for _, r := range final {
		export.FinalReport = append(export.FinalReport, jsonFinal{
			ID:               r.ID,
			ProjectID:        r.ProjectID,
			Project:          projectName(projects, r.ProjectID, r.ProjectName),
			Customer:         r.Customer,
			ProjectStartDate: store.FormatOptionalDate(r.ProjectStartDate),
			ActualEndDate:    store.FormatOptionalDate(r.ActualEndDate),
			DurationDays:     r.DurationDays,
			TotalTasks:       r.TotalTasks,
			CompletedTasks:   r.CompletedTasks,
			OntimeTasks:      r.OntimeTasks,
			OverdueTasks:     r.OverdueTasks,
			CancelledTasks:   r.CancelledTasks,
			OverallProgress:  r.OverallProgress,
			ProjectStatus:    string(r.ProjectStatus),
			AuthorID:         r.AuthorID,
			CreatedAt:        formatCreated(r.CreatedAt),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(store.TimestampLayout)
}

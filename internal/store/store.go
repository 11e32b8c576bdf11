package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Store is the persistence surface shared by the CSV and SQLite backends.
// Get* return an error matching apperr.ErrNotFound for unknown ids; Insert*
// reject an existing id with apperr.ErrAlreadyExists.
type Store interface {
	ListProjects() ([]Project, error)
	GetProject(id string) (*Project, error)
	SaveProject(p Project) error
	DeleteProject(id string) error

	ListStaff() ([]Staff, error)
	GetStaff(id string) (*Staff, error)
	SaveStaff(s Staff) error
	DeleteStaff(id string) error

	// ListTasks returns the tasks of projectID, or every task when it is empty.
	ListTasks(projectID string) ([]Task, error)
	GetTask(id string) (*Task, error)
	SaveTask(t Task) error
	DeleteTask(id string) error

	ListWeeklyReports(projectID string) ([]WeeklyReport, error)
	GetWeeklyReport(id string) (*WeeklyReport, error)
	InsertWeeklyReport(r WeeklyReport) error
	DeleteWeeklyReport(id string) error

	ListFinalReports(projectID string) ([]FinalReport, error)
	GetFinalReport(id string) (*FinalReport, error)
	InsertFinalReport(r FinalReport) error
	DeleteFinalReport(id string) error

	Close() error
}

// Open returns the backend named by backend, rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendCSV, "":
		return NewCSV(dataDir)
	case BackendSQLite:
		return New(filepath.Join(dataDir, "pmdesk.db"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultDataDir returns ~/.config/pmdesk
func DefaultDataDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "pmdesk"), nil
}

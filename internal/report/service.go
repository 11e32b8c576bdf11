// Package report decides when weekly and final project reports may be
// created, assembles their snapshots and persists them.
package report

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/pmdesk/internal/store"
)

type Projects interface {
	GetProject(id string) (*store.Project, error)
}

type StaffDirectory interface {
	GetStaff(id string) (*store.Staff, error)
}

type Tasks interface {
	ListTasks(projectID string) ([]store.Task, error)
}

type WeeklyReports interface {
	ListWeeklyReports(projectID string) ([]store.WeeklyReport, error)
	GetWeeklyReport(id string) (*store.WeeklyReport, error)
	InsertWeeklyReport(r store.WeeklyReport) error
	DeleteWeeklyReport(id string) error
}

type FinalReports interface {
	ListFinalReports(projectID string) ([]store.FinalReport, error)
	GetFinalReport(id string) (*store.FinalReport, error)
	InsertFinalReport(r store.FinalReport) error
	DeleteFinalReport(id string) error
}

// Repository is everything the service reads and writes. store.Store
// satisfies it.
type Repository interface {
	Projects
	StaffDirectory
	Tasks
	WeeklyReports
	FinalReports
}

// Service runs the report creation pipeline:
// select project, validate author, compute period or snapshot,
// validate identifier, then save on confirmation.
type Service struct {
	projects Projects
	staff    StaffDirectory
	tasks    Tasks
	weekly   WeeklyReports
	final    FinalReports

	log zerolog.Logger
	now func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(repo Repository, opts ...Option) *Service {
	s := &Service{
		projects: repo,
		staff:    repo,
		tasks:    repo,
		weekly:   repo,
		final:    repo,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is the created date stamped on new reports.
func (s *Service) timestamp() time.Time {
	return s.now().Truncate(time.Second)
}

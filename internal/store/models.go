package store

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "Not Started"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectPaused     ProjectStatus = "Paused"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

var ProjectStatuses = []ProjectStatus{
	ProjectNotStarted, ProjectInProgress, ProjectPaused, ProjectCompleted, ProjectCancelled,
}

// Terminal reports whether no further work is expected (Completed or Cancelled).
func (s ProjectStatus) Terminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "To Do"
	TaskInProgress TaskStatus = "In Progress"
	TaskCompleted  TaskStatus = "Completed"
	TaskCancelled  TaskStatus = "Cancelled"
)

var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskCompleted, TaskCancelled}

func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TitleProjectManager is the management title that may author reports.
const TitleProjectManager = "Project Manager"

// Unassigned is the assignee id of a task nobody owns.
const Unassigned = "Unassigned"

type Project struct {
	ID              string
	Name            string
	Customer        string
	Description     string
	StartDate       time.Time
	ExpectedEndDate time.Time
	ActualEndDate   *time.Time
	Budget          float64
	Status          ProjectStatus
	PMID            string
}

type Staff struct {
	ID              string
	Name            string
	Role            string
	ManagementTitle string // empty when the staff member holds no title
}

func (s Staff) IsProjectManager() bool {
	return s.ManagementTitle == TitleProjectManager
}

type Task struct {
	ID            string
	ProjectID     string
	Name          string
	AssigneeID    string
	Deadline      *time.Time
	CompletedDate *time.Time
	Status        TaskStatus
}

// WeeklyReport is a snapshot of task progress for one reporting period.
type WeeklyReport struct {
	ID             string
	ProjectID      string
	AuthorID       string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	TotalTasks     int
	CompletedTasks int
	OverdueTasks   int
	Progress       float64 // percent, two decimals
	Status         string
	CreatedAt      time.Time
}

// FinalReport is the lifetime snapshot of a finished project.
type FinalReport struct {
	ID               string
	ProjectID        string
	AuthorID         string
	CreatedAt        time.Time
	ProjectName      string
	Customer         string
	ProjectStartDate *time.Time
	ActualEndDate    *time.Time
	DurationDays     int
	TotalTasks       int
	CompletedTasks   int
	OntimeTasks      int
	OverdueTasks     int
	CancelledTasks   int
	OverallProgress  float64
	ProjectStatus    ProjectStatus
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/pmdesk/internal/apperr"
	"github.com/sadopc/pmdesk/internal/store"
)

// Flag names
const (
	flagID          = "id"
	flagName        = "name"
	flagCustomer    = "customer"
	flagDescription = "description"
	flagStart       = "start"
	flagEnd         = "end"
	flagActualEnd   = "actual-end"
	flagBudget      = "budget"
	flagStatus      = "status"
	flagPM          = "pm"
	flagRole        = "role"
	flagManager     = "manager"
	flagProject     = "project"
	flagAssignee    = "assignee"
	flagDeadline    = "deadline"
	flagDate        = "date"
)

func mustRequire(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as required for %s: %w", name, cmd.Name(), err))
		}
	}
}

func parseDateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, fmt.Errorf("error getting %s flag: %w", name, err)
	}
	d, err := store.ParseOptionalDate(s)
	if err != nil {
		return nil, apperr.Validation("--%s: %v", name, err)
	}
	return d, nil
}

// --- project ---

func newProjectCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			id, _ := f.GetString(flagID)
			if _, err := rt.store.GetProject(id); err == nil {
				return apperr.AlreadyExists("project", id)
			}
			start, err := parseDateFlag(cmd, flagStart)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(cmd, flagEnd)
			if err != nil {
				return err
			}
			actual, err := parseDateFlag(cmd, flagActualEnd)
			if err != nil {
				return err
			}
			p := store.Project{ID: id, ActualEndDate: actual}
			p.Name, _ = f.GetString(flagName)
			p.Customer, _ = f.GetString(flagCustomer)
			p.Description, _ = f.GetString(flagDescription)
			p.Budget, _ = f.GetFloat64(flagBudget)
			p.PMID, _ = f.GetString(flagPM)
			status, _ := f.GetString(flagStatus)
			p.Status = store.ProjectStatus(status)
			if start != nil {
				p.StartDate = *start
			}
			if end != nil {
				p.ExpectedEndDate = *end
			}

			if err := validateProject(rt, p); err != nil {
				return err
			}
			if err := rt.store.SaveProject(p); err != nil {
				return fmt.Errorf("error saving project: %w", err)
			}
			rt.log.Info().Str("project_id", p.ID).Msg("project added")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Project %s added.\n", p.ID)
			return err
		},
	}
	add.Flags().String(flagID, "", "Project ID, e.g. P25_00001")
	add.Flags().String(flagName, "", "Project name")
	add.Flags().String(flagCustomer, "", "Customer")
	add.Flags().String(flagDescription, "", "Description")
	add.Flags().String(flagStart, "", "Start date (dd/mm/yyyy)")
	add.Flags().String(flagEnd, "", "Expected end date (dd/mm/yyyy)")
	add.Flags().String(flagActualEnd, "", "Actual end date (dd/mm/yyyy)")
	add.Flags().Float64(flagBudget, 0, "Budget")
	add.Flags().String(flagStatus, string(store.ProjectNotStarted), "Status")
	add.Flags().String(flagPM, "", "Project manager staff ID")
	mustRequire(add, flagID, flagName, flagCustomer, flagStart, flagEnd, flagBudget, flagPM)

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := rt.store.ListProjects()
			if err != nil {
				return fmt.Errorf("error listing projects: %w", err)
			}
			return printTable(cmd.OutOrStdout(), projectHeaders, projectRows(projects))
		},
	}

	status := &cobra.Command{
		Use:   "status <project-id>",
		Short: "Change a project's status and actual end date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.store.GetProject(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(flagStatus) {
				s, _ := cmd.Flags().GetString(flagStatus)
				p.Status = store.ProjectStatus(s)
			}
			if cmd.Flags().Changed(flagActualEnd) {
				if p.ActualEndDate, err = parseDateFlag(cmd, flagActualEnd); err != nil {
					return err
				}
			}
			if err := validateProject(rt, *p); err != nil {
				return err
			}
			if err := rt.store.SaveProject(*p); err != nil {
				return fmt.Errorf("error saving project: %w", err)
			}
			rt.log.Info().Str("project_id", p.ID).Str("status", string(p.Status)).Msg("project updated")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Project %s is %s.\n", p.ID, p.Status)
			return err
		},
	}
	status.Flags().String(flagStatus, "", "New status")
	status.Flags().String(flagActualEnd, "", "Actual end date (dd/mm/yyyy, empty to clear)")

	del := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.store.DeleteProject(args[0]); err != nil {
				return err
			}
			rt.log.Info().Str("project_id", args[0]).Msg("project deleted")
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Project %s deleted.\n", args[0])
			return err
		},
	}

	cmd.AddCommand(add, list, status, del)
	return cmd
}

// validateProject applies the field rules and checks the PM holds the
// Project Manager title.
func validateProject(rt *runtime, p store.Project) error {
	if err := p.Validate(rt.now()); err != nil {
		return err
	}
	pm, err := rt.store.GetStaff(p.PMID)
	if err != nil {
		return err
	}
	if !pm.IsProjectManager() {
		return apperr.Validation("%s is not a %s", pm.ID, store.TitleProjectManager)
	}
	return nil
}

// --- staff ---

func newStaffCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a staff member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			var s store.Staff
			s.ID, _ = f.GetString(flagID)
			s.Name, _ = f.GetString(flagName)
			s.Role, _ = f.GetString(flagRole)
			if manager, _ := f.GetBool(flagManager); manager {
				s.ManagementTitle = store.TitleProjectManager
			}
			if err := s.Validate(); err != nil {
				return err
			}
			if _, err := rt.store.GetStaff(s.ID); err == nil {
				return apperr.AlreadyExists("staff", s.ID)
			}
			if err := rt.store.SaveStaff(s); err != nil {
				return fmt.Errorf("error saving staff: %w", err)
			}
			rt.log.Info().Str("staff_id", s.ID).Msg("staff added")
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Staff %s added.\n", s.ID)
			return err
		},
	}
	add.Flags().String(flagID, "", "Staff ID")
	add.Flags().String(flagName, "", "Full name")
	add.Flags().String(flagRole, "", "Role")
	add.Flags().Bool(flagManager, false, "Holds the Project Manager title")
	mustRequire(add, flagID, flagName)

	list := &cobra.Command{
		Use:   "list",
		Short: "List staff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			staff, err := rt.store.ListStaff()
			if err != nil {
				return fmt.Errorf("error listing staff: %w", err)
			}
			return printTable(cmd.OutOrStdout(), staffHeaders, staffRows(staff))
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

// --- task ---

func newTaskCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage project tasks",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			var t store.Task
			t.ID, _ = f.GetString(flagID)
			t.ProjectID, _ = f.GetString(flagProject)
			t.Name, _ = f.GetString(flagName)
			t.AssigneeID, _ = f.GetString(flagAssignee)
			status, _ := f.GetString(flagStatus)
			t.Status = store.TaskStatus(status)

			var err error
			if t.Deadline, err = parseDateFlag(cmd, flagDeadline); err != nil {
				return err
			}
			if t.CompletedDate, err = parseDateFlag(cmd, flagDate); err != nil {
				return err
			}
			if t.Status == store.TaskCompleted && t.CompletedDate == nil {
				today := store.Day(rt.now())
				t.CompletedDate = &today
			}
			if t.AssigneeID == "" {
				t.AssigneeID = store.Unassigned
			}
			if err := t.Validate(); err != nil {
				return err
			}
			if _, err := rt.store.GetProject(t.ProjectID); err != nil {
				return err
			}
			if _, err := rt.store.GetTask(t.ID); err == nil {
				return apperr.AlreadyExists("task", t.ID)
			}
			if err := rt.store.SaveTask(t); err != nil {
				return fmt.Errorf("error saving task: %w", err)
			}
			rt.log.Info().Str("task_id", t.ID).Str("project_id", t.ProjectID).Msg("task added")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Task %s added to %s.\n", t.ID, t.ProjectID)
			return err
		},
	}
	add.Flags().String(flagID, "", "Task ID")
	add.Flags().String(flagProject, "", "Project ID")
	add.Flags().String(flagName, "", "Task name")
	add.Flags().String(flagAssignee, "", "Assignee staff ID (default Unassigned)")
	add.Flags().String(flagDeadline, "", "Deadline (dd/mm/yyyy)")
	add.Flags().String(flagStatus, string(store.TaskTodo), "Status")
	add.Flags().String(flagDate, "", "Completion date for a Completed task (default today)")
	mustRequire(add, flagID, flagProject, flagName)

	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pid, _ := cmd.Flags().GetString(flagProject)
			tasks, err := rt.store.ListTasks(pid)
			if err != nil {
				return fmt.Errorf("error listing tasks: %w", err)
			}
			return printTable(cmd.OutOrStdout(), taskHeaders, taskRows(tasks))
		},
	}
	list.Flags().String(flagProject, "", "Only tasks of this project")

	complete := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := rt.store.GetTask(args[0])
			if err != nil {
				return err
			}
			done, err := parseDateFlag(cmd, flagDate)
			if err != nil {
				return err
			}
			if done == nil {
				today := store.Day(rt.now())
				done = &today
			}
			t.Status = store.TaskCompleted
			t.CompletedDate = done
			if err := rt.store.SaveTask(*t); err != nil {
				return fmt.Errorf("error saving task: %w", err)
			}
			rt.log.Info().Str("task_id", t.ID).Msg("task completed")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Task %s completed on %s.\n", t.ID, store.DisplayDate(done))
			return err
		},
	}
	complete.Flags().String(flagDate, "", "Completion date (default today)")

	cmd.AddCommand(add, list, complete)
	return cmd
}

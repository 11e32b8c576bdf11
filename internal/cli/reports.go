package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/pmdesk/internal/report"
	"github.com/sadopc/pmdesk/internal/store"
)

const (
	flagAuthor = "author"
	flagReport = "report-id"
)

// --- weekly ---

func newWeeklyCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Create and browse weekly progress reports",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Write the next weekly report of a project",
		Long: `Write the next weekly report of a project.

The period must start where the previous report ended (or on the project
start date for the first report). Only the first report takes --end; later
periods run seven days, capped at the expected end date.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			var req report.WeeklyRequest
			req.ProjectID, _ = f.GetString(flagProject)
			req.AuthorID, _ = f.GetString(flagAuthor)
			req.ReportID, _ = f.GetString(flagReport)

			plan, err := rt.svc.WeeklyPlan(req.ProjectID)
			if err != nil {
				return err
			}
			start, err := parseDateFlag(cmd, flagStart)
			if err != nil {
				return err
			}
			req.Start = plan.Period.Start
			if start != nil {
				req.Start = *start
			}
			end, err := parseDateFlag(cmd, flagEnd)
			if err != nil {
				return err
			}
			if end != nil {
				req.End = *end
			}
			if req.ReportID == "" {
				req.ReportID = plan.SuggestedID
			}

			r, err := rt.svc.CreateWeekly(req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "Weekly report %s saved.\n", r.ID); err != nil {
				return err
			}
			return printFields(out, weeklyFields(*r))
		},
	}
	create.Flags().String(flagProject, "", "Project ID")
	create.Flags().String(flagAuthor, "", "Author staff ID (the project's PM)")
	create.Flags().String(flagReport, "", "Report ID (default: next in sequence)")
	create.Flags().String(flagStart, "", "Period start (default: where the last report ended)")
	create.Flags().String(flagEnd, "", "Period end, first report only (dd/mm/yyyy)")
	mustRequire(create, flagProject, flagAuthor)

	next := &cobra.Command{
		Use:   "next <project-id>",
		Short: "Show the period and ID the next weekly report will take",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := rt.svc.WeeklyPlan(args[0])
			if err != nil {
				return err
			}
			end := "chosen by the author (at most " + fmt.Sprint(report.MaxPeriodDays) + " days)"
			if !plan.Period.First {
				end = plan.Period.End.Format(store.DisplayDateLayout)
			}
			return printFields(cmd.OutOrStdout(), []field{
				{"Project", plan.Project.ID + " " + plan.Project.Name},
				{"Report ID", plan.SuggestedID},
				{"Start", plan.Period.Start.Format(store.DisplayDateLayout)},
				{"End", end},
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List weekly reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pid, _ := cmd.Flags().GetString(flagProject)
			reports, err := rt.svc.ListWeekly(pid)
			if err != nil {
				return fmt.Errorf("error listing weekly reports: %w", err)
			}
			return printTable(cmd.OutOrStdout(), weeklyHeaders, weeklyRows(reports))
		},
	}
	list.Flags().String(flagProject, "", "Only reports of this project")

	show := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Show one weekly report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rt.svc.GetWeekly(args[0])
			if err != nil {
				return err
			}
			return printFields(cmd.OutOrStdout(), weeklyFields(*r))
		},
	}

	search := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Find weekly reports by report or project ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := rt.svc.SearchWeekly(keyword(args))
			if err != nil {
				return fmt.Errorf("error searching weekly reports: %w", err)
			}
			return printTable(cmd.OutOrStdout(), weeklyHeaders, weeklyRows(reports))
		},
	}

	del := &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete a weekly report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.svc.DeleteWeekly(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Weekly report %s deleted.\n", args[0])
			return err
		},
	}

	cmd.AddCommand(create, next, list, show, search, del)
	return cmd
}

// --- final ---

func newFinalCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "final",
		Short: "Create and browse final project reports",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Write the final report of a Completed or Cancelled project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			var req report.FinalRequest
			req.ProjectID, _ = f.GetString(flagProject)
			req.AuthorID, _ = f.GetString(flagAuthor)
			req.ReportID, _ = f.GetString(flagReport)

			r, err := rt.svc.CreateFinal(req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "Final report %s saved.\n", r.ID); err != nil {
				return err
			}
			return printFields(out, finalFields(*r))
		},
	}
	create.Flags().String(flagProject, "", "Project ID")
	create.Flags().String(flagAuthor, "", "Author staff ID (the project's PM)")
	create.Flags().String(flagReport, "", "Report ID (default FR<project-id>)")
	mustRequire(create, flagProject, flagAuthor)

	list := &cobra.Command{
		Use:   "list",
		Short: "List final reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := rt.svc.ListFinal()
			if err != nil {
				return fmt.Errorf("error listing final reports: %w", err)
			}
			return printTable(cmd.OutOrStdout(), finalHeaders, finalRows(reports))
		},
	}

	show := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Show one final report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rt.svc.GetFinal(args[0])
			if err != nil {
				return err
			}
			return printFields(cmd.OutOrStdout(), finalFields(*r))
		},
	}

	search := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Find final reports by report or project ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := rt.svc.SearchFinal(keyword(args))
			if err != nil {
				return fmt.Errorf("error searching final reports: %w", err)
			}
			return printTable(cmd.OutOrStdout(), finalHeaders, finalRows(reports))
		},
	}

	del := &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete a final report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.svc.DeleteFinal(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Final report %s deleted.\n", args[0])
			return err
		},
	}

	cmd.AddCommand(create, list, show, search, del)
	return cmd
}

func keyword(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}


package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/pmdesk/internal/export"
	"github.com/sadopc/pmdesk/internal/store"
)

const (
	flagFormat = "format"
	flagOut    = "out"
)

func newExportCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every weekly and final report to CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString(flagFormat)
			out, _ := cmd.Flags().GetString(flagOut)
			if out == "" {
				out = rt.cfg.ExportDir
			}

			weekly, err := rt.store.ListWeeklyReports("")
			if err != nil {
				return fmt.Errorf("error listing weekly reports: %w", err)
			}
			final, err := rt.store.ListFinalReports("")
			if err != nil {
				return fmt.Errorf("error listing final reports: %w", err)
			}
			plist, err := rt.store.ListProjects()
			if err != nil {
				return fmt.Errorf("error listing projects: %w", err)
			}
			projects := make(map[string]*store.Project, len(plist))
			for i := range plist {
				projects[plist[i].ID] = &plist[i]
			}

			var paths []string
			switch strings.ToLower(format) {
			case "csv":
				if err := os.MkdirAll(out, 0o755); err != nil {
					return fmt.Errorf("error creating %s: %w", out, err)
				}
				if paths, err = export.ToCSV(weekly, final, projects, out); err != nil {
					return fmt.Errorf("error exporting csv: %w", err)
				}
			case "json":
				path := out
				if filepath.Ext(path) != ".json" {
					if err := os.MkdirAll(out, 0o755); err != nil {
						return fmt.Errorf("error creating %s: %w", out, err)
					}
					path = filepath.Join(out, fmt.Sprintf("pmdesk-export-%s.json", rt.now().Format(store.DateLayout)))
				}
				if err := export.ToJSON(weekly, final, projects, path); err != nil {
					return fmt.Errorf("error exporting json: %w", err)
				}
				paths = []string{path}
			default:
				return fmt.Errorf("unknown export format %q (want csv or json)", format)
			}

			rt.log.Info().
				Str("format", format).
				Int("weekly", len(weekly)).
				Int("final", len(final)).
				Strs("paths", paths).
				Msg("reports exported")
			for _, p := range paths {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringP(flagFormat, "f", "csv", "Export format: csv or json")
	cmd.Flags().StringP(flagOut, "o", "", "Output directory, or a .json file path (default: export_dir from config)")
	return cmd
}

// Package cli is the pmdesk command tree. With no subcommand it opens the
// interactive UI; the subcommands script the same operations.
package cli

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sadopc/pmdesk/internal/config"
	"github.com/sadopc/pmdesk/internal/logging"
	"github.com/sadopc/pmdesk/internal/report"
	"github.com/sadopc/pmdesk/internal/store"
	"github.com/sadopc/pmdesk/internal/tui"
)

// flag names
const (
	flagConfig   = "config"
	flagDataDir  = "data-dir"
	flagBackend  = "backend"
	flagLogLevel = "log-level"
)

// runtime is what PersistentPreRunE wires up for every command.
type runtime struct {
	now func() time.Time

	cfg       *config.Config
	log       zerolog.Logger
	logCloser io.Closer
	store     store.Store
	svc       *report.Service
}

func (r *runtime) open(cmd *cobra.Command) error {
	file, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return fmt.Errorf("error getting config flag: %w", err)
	}
	cfg, err := config.Load(config.Options{File: file, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	r.cfg = cfg

	r.log, r.logCloser, err = logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}

	r.store, err = store.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("error opening %s store: %w", cfg.Backend, err)
	}
	r.log.Debug().
		Str("backend", cfg.Backend).
		Str("data_dir", cfg.DataDir).
		Str("command", cmd.CommandPath()).
		Msg("store opened")

	r.svc = report.New(r.store, report.WithLogger(r.log), report.WithClock(r.now))
	return nil
}

func (r *runtime) close() error {
	var err error
	if r.store != nil {
		err = r.store.Close()
		r.store = nil
	}
	if r.logCloser != nil {
		r.logCloser.Close()
		r.logCloser = nil
	}
	return err
}

// newRootCmd builds the full command tree. The returned runtime holds what
// the command opened and must be closed by the caller, see execute.
func newRootCmd(now func() time.Time) (*cobra.Command, *runtime) {
	rt := &runtime{now: now}

	cmd := &cobra.Command{
		Use:   "pmdesk",
		Short: "pmdesk - project reporting for the terminal",
		Long: `pmdesk keeps projects, staff and tasks in CSV files (or SQLite) and
produces weekly progress reports and final close-out reports from them.

Run without a command to open the interactive UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.open(cmd)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			app := tui.NewApp(rt.store, rt.svc, rt.cfg.ExportDir)
			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running ui: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringP(flagConfig, "c", "", "Config file (default: ./config.yaml or <user config dir>/pmdesk/config.yaml)")
	cmd.PersistentFlags().String(flagDataDir, "", "Directory holding the data files (env: PMDESK_DATA_DIR)")
	cmd.PersistentFlags().String(flagBackend, "", "Storage backend: csv or sqlite (env: PMDESK_BACKEND)")
	cmd.PersistentFlags().String(flagLogLevel, "", "Log level: debug, info, warn, error (env: PMDESK_LOG_LEVEL)")

	cmd.AddCommand(
		newProjectCmd(rt),
		newStaffCmd(rt),
		newTaskCmd(rt),
		newWeeklyCmd(rt),
		newFinalCmd(rt),
		newExportCmd(rt),
	)
	return cmd, rt
}

// execute runs cmd and closes the store and log file however it ends.
// Cobra skips post-run hooks once RunE fails.
func execute(cmd *cobra.Command, rt *runtime) (err error) {
	defer func() {
		if cerr := rt.close(); err == nil {
			err = cerr
		}
	}()
	return cmd.Execute()
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return execute(newRootCmd(time.Now))
}

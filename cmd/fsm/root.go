package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ha1tch/fsm-logic/internal/config"
	"github.com/ha1tch/fsm-logic/internal/logging"
	"github.com/ha1tch/fsm-logic/pkg/fsm"
	"github.com/ha1tch/fsm-logic/pkg/fsmfile"
)

// app carries what PersistentPreRunE prepared for the subcommands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:           "fsm",
		Short:         "Finite state machine layout and logic synthesis",
		Long:          `fsm reads state machine descriptions (YAML or JSON), relaxes their layout, and derives the truth table of their next-state and output logic.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			a.logger = logging.NewWriter(cmd.ErrOrStderr(), level)

			var path string
			var err error
			if configPath != "" {
				a.cfg, path, err = config.LoadFromPath(configPath)
			} else {
				a.cfg, path, err = config.Load()
			}
			if err != nil {
				return err
			}
			if path != "" {
				a.logger.Debug("loaded config", "path", path)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $FSMLOGIC_CONFIG, ./fsmlogic.yaml, ~/.config/fsmlogic/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newInfoCmd(a),
		newValidateCmd(a),
		newTableCmd(a),
		newLayoutCmd(a),
		newRenderCmd(a),
		newDotCmd(a),
		newCodegenCmd(a),
		newRunCmd(a),
	)
	return root
}

// load reads a description and applies the configured layout constants.
func (a *app) load(path string) (*fsmfile.Description, *fsm.FSM, error) {
	d, f, err := fsmfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	f.SetLayout(a.cfg.FSMLayout())
	a.logger.Debug("loaded machine", "path", path, "states", len(f.States()), "transitions", len(f.Transitions()))
	return d, f, nil
}

// relax runs the configured number of layout ticks.
func (a *app) relax(f *fsm.FSM, ticks int) {
	var moved float64
	for i := 0; i < ticks; i++ {
		moved = f.Relax(a.cfg.Layout.Dt, a.cfg.Layout.MoveStates, nil)
	}
	a.logger.Debug("relaxed layout", "ticks", ticks, "last_displacement", moved)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// status prints a coloured status line; colour is dropped when w is not a
// terminal.
func status(w io.Writer, ok bool, format string, args ...any) {
	out := termenv.NewOutput(w)
	mark := out.String("✓").Foreground(out.Color("2"))
	if !ok {
		mark = out.String("✗").Foreground(out.Color("1"))
	}
	fmt.Fprintf(w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

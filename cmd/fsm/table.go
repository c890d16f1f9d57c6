package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
)

func newTableCmd(a *app) *cobra.Command {
	var format, noMatch string

	cmd := &cobra.Command{
		Use:   "table <file>",
		Short: "Synthesize the truth table of the next-state and output logic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.load(args[0])
			if err != nil {
				return err
			}

			opts := a.cfg.SynthesisOptions(a.logger)
			if cmd.Flags().Changed("no-match") {
				if opts.NoMatch, err = fsm.ParseNoMatchPolicy(noMatch); err != nil {
					return err
				}
			}

			table, err := f.CreateTruthTableWith(opts)
			if err != nil {
				return err
			}
			a.logger.Debug("synthesized", "rows", table.Rows(), "columns", len(table.Vars)+len(table.Results))

			w := cmd.OutOrStdout()
			switch format {
			case "csv":
				return table.WriteCSV(w)
			case "markdown", "md":
				if !isTerminal(w) {
					_, err = fmt.Fprint(w, table.Markdown())
					return err
				}
				r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
				if err != nil {
					return err
				}
				out, err := r.Render(table.Markdown())
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(w, out)
				return err
			default:
				return fmt.Errorf("unknown format %q (want markdown or csv)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown or csv")
	cmd.Flags().StringVar(&noMatch, "no-match", "", "behaviour when no guard matches: error or stay (default from config)")
	return cmd
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file> [inputs...]",
		Short: "Step the machine through input assignments",
		Long: `Each input is an assignment such as "a=1,b=0". Without inputs on the
command line, assignments are read from stdin one per line, along with the
commands reset, status, history and quit.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			runner, err := fsm.NewRunner(f, a.cfg.SynthesisOptions(nil).NoMatch)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) > 1 {
				for _, text := range args[1:] {
					in, err := fsm.ParseInputs(text)
					if err != nil {
						return err
					}
					if _, err := runner.Step(in); err != nil {
						return err
					}
					fmt.Fprintln(w, runner.Status())
				}
				return nil
			}
			return interactive(cmd.InOrStdin(), w, runner)
		},
	}
}

func interactive(r io.Reader, w io.Writer, runner *fsm.Runner) error {
	fmt.Fprintln(w, "Commands: <inputs>, reset, status, history, quit")
	fmt.Fprintln(w, runner.Status())

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "reset":
			runner.Reset()
			fmt.Fprintln(w, runner.Status())
		case "status":
			fmt.Fprintln(w, runner.Status())
		case "history":
			printHistory(w, runner)
		default:
			in, err := fsm.ParseInputs(line)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				continue
			}
			if _, err := runner.Step(in); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				continue
			}
			fmt.Fprintln(w, runner.Status())
		}
	}
}

func printHistory(w io.Writer, r *fsm.Runner) {
	history := r.History()
	if len(history) == 0 {
		fmt.Fprintln(w, "No history yet")
		return
	}

	fmt.Fprintln(w, "History:")
	for i, step := range history {
		var in []string
		for _, name := range slices.Sorted(maps.Keys(step.Input)) {
			v := 0
			if step.Input[name] {
				v = 1
			}
			in = append(in, fmt.Sprintf("%s=%d", name, v))
		}
		fmt.Fprintf(w, "  %d: %s --%s--> %s\n", i+1, step.From, strings.Join(in, ","), step.To)
	}
}

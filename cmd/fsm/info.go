package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-logic/pkg/fsm"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show machine information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			maxNumber := 0
			for _, s := range f.States() {
				maxNumber = max(maxNumber, s.Number())
			}
			inputs := map[string]bool{}
			var names []string
			for _, t := range f.Transitions() {
				for _, v := range t.Condition().Variables() {
					if !inputs[v] {
						inputs[v] = true
						names = append(names, v)
					}
				}
			}

			if d.Name != "" {
				fmt.Fprintf(w, "Name:        %s\n", d.Name)
			}
			if d.Description != "" {
				fmt.Fprintf(w, "Description: %s\n", d.Description)
			}
			fmt.Fprintf(w, "States:      %d\n", len(f.States()))
			fmt.Fprintf(w, "Transitions: %d\n", len(f.Transitions()))
			fmt.Fprintf(w, "State bits:  %d\n", fsm.StateBits(maxNumber))
			fmt.Fprintf(w, "Inputs:      %s\n", strings.Join(names, ", "))
			fmt.Fprintln(w)
			for _, s := range f.States() {
				line := fmt.Sprintf("  %-3d %s", s.Number(), s.Name())
				if out := s.ValuesString(); out != "" {
					line += "  [" + out + "]"
				}
				fmt.Fprintln(w, line)
				for _, t := range f.TransitionsFrom(s) {
					label := t.Label()
					if label == "" {
						label = "1"
					}
					fmt.Fprintf(w, "        -> %s when %s\n", t.To().Name(), label)
				}
			}
			return nil
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a machine is well formed and fully specified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := a.load(args[0])
			if err != nil {
				status(cmd.OutOrStdout(), false, "%s: %v", args[0], err)
				return err
			}

			_, err = f.CreateTruthTableWith(a.cfg.SynthesisOptions(a.logger))
			if err != nil {
				var se *fsm.SynthesisError
				if errors.As(err, &se) && errors.Is(err, fsm.ErrNoTransition) {
					status(cmd.OutOrStdout(), false, "%s: state %s has no transition for %s", args[0], se.State, se.Input)
				} else {
					status(cmd.OutOrStdout(), false, "%s: %v", args[0], err)
				}
				return err
			}

			status(cmd.OutOrStdout(), true, "%s: valid, %d states, %d transitions",
				args[0], len(f.States()), len(f.Transitions()))
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-logic/pkg/codegen"
)

func newCodegenCmd(a *app) *cobra.Command {
	var lang, pkg, output, name string

	cmd := &cobra.Command{
		Use:   "codegen <file>",
		Short: "Generate a table-driven Go or C implementation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = d.Name
			}

			m, err := codegen.NewMachine(name, f, a.cfg.SynthesisOptions(a.logger))
			if err != nil {
				return err
			}

			var src string
			switch lang {
			case "go":
				src = codegen.GenerateGo(m, pkg)
			case "c":
				src = codegen.GenerateC(m)
			default:
				return fmt.Errorf("unknown language %q (want go or c)", lang)
			}
			return writeOutput(cmd.OutOrStdout(), output, []byte(src))
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "go", "target language: go or c")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "Go package name (default fsm)")
	cmd.Flags().StringVar(&name, "name", "", "machine name used for identifiers (default from file)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

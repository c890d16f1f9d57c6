package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-logic/pkg/fsmfile"
)

func newLayoutCmd(a *app) *cobra.Command {
	var ticks int
	var circle, layered, raster bool
	var output, format string

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Relax the layout and write the description with updated positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ticks") {
				ticks = a.cfg.Layout.Ticks
			}

			switch {
			case circle && layered:
				return fmt.Errorf("--circle and --layered are mutually exclusive")
			case circle:
				f.Circle()
			case layered:
				f.Layered()
			}
			a.relax(f, ticks)
			if raster {
				f.ToRaster()
			}

			outFormat := fsmfile.FormatFromPath(args[0])
			switch {
			case format != "":
				outFormat = fsmfile.FormatFromPath("x." + format)
			case output != "":
				outFormat = fsmfile.FormatFromPath(output)
			}

			out := fsmfile.Describe(d.Name, f)
			out.Description = d.Description
			data, err := out.Marshal(outFormat)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, data)
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 0, "number of relax ticks (default from config)")
	cmd.Flags().BoolVar(&circle, "circle", false, "arrange states on a circle first")
	cmd.Flags().BoolVar(&layered, "layered", false, "arrange states in layers from the initial state first")
	cmd.Flags().BoolVar(&raster, "raster", false, "snap states to the grid afterwards")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "output format: yaml or json (default from file name)")
	return cmd
}

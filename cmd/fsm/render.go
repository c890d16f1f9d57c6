package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsm-logic/pkg/fsmfile"
	"github.com/ha1tch/fsm-logic/pkg/render"
)

func newRenderCmd(a *app) *cobra.Command {
	var ticks int
	var output, title string

	cmd := &cobra.Command{
		Use:   "render <file> -o <out.svg|out.png>",
		Short: "Render the laid-out machine to SVG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			a.relax(f, ticks)

			opts := a.cfg.RenderOptions()
			opts.Title = title
			if opts.Title == "" {
				opts.Title = d.Name
			}

			var buf bytes.Buffer
			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".svg", "":
				err = render.RenderSVG(f, &buf, opts, nil)
			case ".png":
				err = render.RenderPNG(f, &buf, opts, nil)
			default:
				return fmt.Errorf("unsupported output format %q (want .svg or .png)", ext)
			}
			if err != nil {
				return err
			}
			a.logger.Debug("rendered", "bytes", buf.Len(), "output", output)
			return writeOutput(cmd.OutOrStdout(), output, buf.Bytes())
		},
	}

	cmd.Flags().IntVarP(&ticks, "ticks", "n", 0, "relax ticks before rendering")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; .svg or .png (default SVG on stdout)")
	cmd.Flags().StringVar(&title, "title", "", "diagram title (default machine name)")
	return cmd
}

func newDotCmd(a *app) *cobra.Command {
	var output, title string

	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Generate Graphviz DOT output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, f, err := a.load(args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = d.Name
			}
			return writeOutput(cmd.OutOrStdout(), output, []byte(fsmfile.GenerateDOT(f, title)))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "graph title (default machine name)")
	return cmd
}

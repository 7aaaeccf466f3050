package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/autolayout/pkg/layout"
	"github.com/matzehuels/autolayout/pkg/preview"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags    engineFlags
		output   string
		dotOnly  bool
		noLabels bool
		noRoutes bool
	)
	cmd := &cobra.Command{
		Use:   "preview [diagram.json|diagram.yaml]",
		Short: "Lay out a diagram and render an SVG preview",
		Long: `Lay out a diagram and render an SVG preview.

Nodes are drawn at their computed positions and routed connections as
polylines. Use --dot to write the Graphviz source instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, cached, err := c.runDiagram(ctx, layout.ModeLayout, args[0], &flags)
			if err != nil {
				return err
			}

			opts := preview.Options{Labels: !noLabels, Routes: !noRoutes}
			var data []byte
			if dotOnly {
				data = []byte(preview.ToDOT(res, opts))
			} else if data, err = preview.SVG(ctx, res, opts); err != nil {
				return err
			}

			if output == "" {
				ext := ".svg"
				if dotOnly {
					ext = ".dot"
				}
				output = trimExt(args[0]) + ext
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Preview rendered")
			printFile(output)
			printRunStats(res, cached)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.svg)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "write Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "draw nodes without labels")
	cmd.Flags().BoolVar(&noRoutes, "no-routes", false, "omit routed connections")
	return cmd
}

func trimExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, os.PathSeparator) {
		return path[:i]
	}
	return path
}

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	aio "github.com/matzehuels/autolayout/pkg/io"
	"github.com/matzehuels/autolayout/pkg/layout"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags  engineFlags
		result bool
		plain  bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [diagram|result]",
		Short: "Browse the placements of a layout",
		Long: `Browse the placements of a layout in an interactive table.

The argument is a diagram document, which is laid out first (using the
cache), or with --result a result file written by "layout --result".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				res    *layout.Result
				cached bool
				err    error
			)
			if result {
				res, err = aio.ImportResult(args[0])
				cached = true
			} else {
				res, cached, err = c.runDiagram(cmd.Context(), layout.ModeLayout, args[0], &flags)
			}
			if err != nil {
				return err
			}

			if plain {
				fmt.Fprintln(out, runSummary(res, cached))
				fmt.Fprintln(out, placementTable(placementRows(res), -1))
				for _, l := range rejectionLines(res) {
					printDetail("%s", l)
				}
				return nil
			}
			_, err = tea.NewProgram(NewResultModel(res, cached), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&result, "result", false, "the argument is a result file")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the table instead of starting the browser")
	return cmd
}

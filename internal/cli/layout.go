package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/autolayout/pkg/diagram"
	aio "github.com/matzehuels/autolayout/pkg/io"
	"github.com/matzehuels/autolayout/pkg/layout"
)

// runOutputs are the output flags of layout and pack.
type runOutputs struct {
	output string // laid-out document; "-" is stdout
	result string // full result with routes and stats
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags engineFlags
		outs  runOutputs
	)
	cmd := &cobra.Command{
		Use:   "layout [diagram.json|diagram.yaml]",
		Short: "Place every node of a diagram",
		Long: `Place every node of a diagram.

Frames are packed first, then top-level nodes are placed by a backtracking
search that honours connection anchors, keeps nodes apart and routes
connections without crossings. If the search cannot satisfy every
constraint, a layered layout is used instead.

The output is the input document with every position and size filled in.
Results are cached locally, keyed by the document and the configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEngine(cmd.Context(), layout.ModeLayout, args[0], &flags, outs)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outs.output, "output", "o", "", "output document (default: <input>.laid<ext>, - for stdout)")
	cmd.Flags().StringVar(&outs.result, "result", "", "also write the full result (routes, stats) to this file")
	return cmd
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var (
		flags engineFlags
		outs  runOutputs
	)
	cmd := &cobra.Command{
		Use:   "pack [diagram.json|diagram.yaml]",
		Short: "Size frames and place their children only",
		Long: `Size frames and place their children only.

Top-level nodes keep their declared positions. Use this after editing the
contents of a frame by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEngine(cmd.Context(), layout.ModePack, args[0], &flags, outs)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&outs.output, "output", "o", "", "output document (default: <input>.packed<ext>, - for stdout)")
	cmd.Flags().StringVar(&outs.result, "result", "", "also write the full result to this file")
	return cmd
}

// loadDiagram imports and validates a diagram document.
func loadDiagram(path string) (*diagram.Diagram, error) {
	d, err := aio.ImportDiagram(path)
	if err != nil {
		return nil, err
	}
	if err := diagram.Validate(d); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// runDiagram loads input and runs the engine on it with a spinner.
func (c *CLI) runDiagram(ctx context.Context, mode layout.Mode, input string, flags *engineFlags) (*layout.Result, bool, error) {
	d, err := loadDiagram(input)
	if err != nil {
		return nil, false, err
	}
	runner, err := c.newRunner(flags, d.Style)
	if err != nil {
		return nil, false, fmt.Errorf("initialize engine: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s...", mode))
	spinner.Start()
	res, cached, err := runner.Run(ctx, mode, d)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("%s failed", mode))
		return nil, false, err
	}
	spinner.Stop()
	prog.done(string(mode), "nodes", len(res.Order), "strategy", res.Strategy, "cached", cached)
	return res, cached, nil
}

func (c *CLI) runEngine(ctx context.Context, mode layout.Mode, input string, flags *engineFlags, outs runOutputs) error {
	res, cached, err := c.runDiagram(ctx, mode, input, flags)
	if err != nil {
		return err
	}

	output := outs.output
	if output == "" {
		output = derivedPath(input, mode)
	}
	if output == "-" {
		f, err := aio.FormatFromPath(input)
		if err != nil {
			return err
		}
		return aio.WriteDiagram(os.Stdout, res.Diagram, f)
	}
	if err := aio.ExportLaidOut(res, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	if outs.result != "" {
		if err := aio.ExportResult(res, outs.result); err != nil {
			return fmt.Errorf("write %s: %w", outs.result, err)
		}
	}

	printSuccess("%s complete", strings.ToUpper(string(mode[:1]))+string(mode[1:]))
	printFile(output)
	if outs.result != "" {
		printFile(outs.result)
	}
	printRunStats(res, cached)
	fmt.Fprintln(out)
	printNextStep("Preview", appName+" preview "+output)
	return nil
}

// derivedPath turns "arch.yaml" into "arch.laid.yaml" (or ".packed").
func derivedPath(input string, mode layout.Mode) string {
	tag := ".laid"
	if mode == layout.ModePack {
		tag = ".packed"
	}
	return trimExt(input) + tag + filepath.Ext(input)
}

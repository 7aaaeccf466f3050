// Package cli implements the autolayout command-line interface.
//
// # Commands
//
//   - layout: place every node of a diagram document
//   - pack: size frames and place children, keeping top-level positions
//   - preview: lay out and render an SVG preview
//   - inspect: browse a layout result in an interactive table
//   - serve: run the HTTP service
//   - config: write or show the engine configuration
//   - cache: manage the local result cache
//
// All commands support --verbose (-v) for debug-level logging, which
// includes every candidate the placement search rejects.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/autolayout/pkg/buildinfo"
	"github.com/matzehuels/autolayout/pkg/cache"
	"github.com/matzehuels/autolayout/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "autolayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   appName,
		Short: "autolayout places the boxes of architecture diagrams",
		Long: `autolayout computes positions for the nodes and frames of a diagram so that
every connection leaves and enters on its declared side, nothing overlaps and
routed connections do not cross.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.packCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context) error {
	return c.RootCommand().ExecuteContext(ctx)
}

// =============================================================================
// Engine Flags
// =============================================================================

// engineFlags are shared by every command that runs the engine.
type engineFlags struct {
	config  string
	style   string
	noCache bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "engine config file (TOML)")
	cmd.Flags().StringVarP(&f.style, "style", "s", "", "style preset: flowchart, architecture, roadmap (default: the document's style)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
}

// engineConfig resolves the configuration: the config file if given,
// otherwise the preset for the flag style or the document style.
func (f *engineFlags) engineConfig(docStyle string) (layout.Config, error) {
	if f.config != "" {
		cfg, err := layout.LoadConfig(f.config)
		if err != nil {
			return layout.Config{}, err
		}
		if f.style != "" {
			cfg.Style = f.style
		}
		return cfg, nil
	}
	style := f.style
	if style == "" {
		style = docStyle
	}
	cfg := layout.ForStyle(style)
	if style != "" {
		cfg.Style = style
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a cached engine runner for CLI use.
func (c *CLI) newRunner(f *engineFlags, docStyle string) (*layout.Runner, error) {
	cfg, err := f.engineConfig(docStyle)
	if err != nil {
		return nil, err
	}
	eng, err := layout.New(cfg, layout.WithLogger(c.Logger))
	if err != nil {
		return nil, err
	}
	cc, err := newCache(f.noCache)
	if err != nil {
		return nil, err
	}
	return layout.NewRunner(eng, cc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.NewCompressed(fc), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/autolayout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

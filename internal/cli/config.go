package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/autolayout/pkg/layout"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write or show the engine configuration",
	}
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	return cmd
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var (
		style string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with every setting of a style preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "autolayout.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := layout.WriteConfig(path, layout.ForStyle(style)); err != nil {
				return err
			}
			printSuccess("Config written")
			printFile(path)
			printNextStep("Use it", appName+" layout -c "+path+" diagram.json")
			return nil
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "style preset: flowchart, architecture, roadmap")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var flags engineFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.engineConfig("")
			if err != nil {
				return err
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "engine config file (TOML)")
	cmd.Flags().StringVarP(&flags.style, "style", "s", "", "style preset")
	return cmd
}

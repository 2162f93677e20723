// Config command for ormf CLI
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sonemaro/ormf/internal/config"
	"github.com/sonemaro/ormf/internal/ui"
)

// configCmd returns the config subcommand
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.ActiveProfile != "" {
				fmt.Fprintf(out, "# profile: %s\n", cfg.ActiveProfile)
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file:  %s\n", configFile())
			fmt.Fprintf(out, "Profiles dir: %s\n", config.GetConfigPaths().ProfileDir)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result := config.Validate(cfg)
			if !result.IsValid() || result.HasWarnings() {
				fmt.Fprint(out, result.String())
			}
			if result.IsValid() {
				ui.PrintSuccess(out, "Configuration is valid")
				return nil
			}
			return fmt.Errorf("configuration has errors")
		},
	})

	cmd.AddCommand(configInitCmd())

	return cmd
}

// configInitCmd writes the resolved configuration to the config file
func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the config file",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeApp(cmd, true)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if result := config.Validate(cfg); !result.IsValid() {
				fmt.Fprint(cmd.OutOrStdout(), result.String())
				return fmt.Errorf("refusing to save an invalid configuration")
			}

			path := configFile()
			if err := config.Save(cfg, path, force); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Configuration saved to %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

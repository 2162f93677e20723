// Profile command for ormf CLI
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sonemaro/ormf/internal/config"
	"github.com/sonemaro/ormf/internal/ui"
)

// profileCmd returns the profile subcommand
func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage filter profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			names, err := config.ListProfiles()
			if err != nil {
				return err
			}

			if len(names) == 0 {
				ui.PrintInfo(out, "No profiles found. Create one with 'ormf profile save <name>'")
				return nil
			}

			items := make([]ui.Item, 0, len(names))
			for _, name := range names {
				item := ui.Item{Name: name}
				if p, err := config.GetProfile(name); err == nil {
					item.Detail = p.Description
				}
				items = append(items, item)
			}
			ui.PrintList(out, "Available profiles:", items, cfg.ActiveProfile)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "Show profile details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !config.ProfileExists(name) {
				return fmt.Errorf("profile not found: %s", name)
			}

			profile, err := config.GetProfile(name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ui.PrintField(out, "Profile", profile.Name)
			ui.PrintField(out, "Description", profile.Description)
			ui.PrintField(out, "Limit", strconv.Itoa(profile.Filter.N))
			ui.PrintField(out, "Format", profile.Filter.ReturnFormat)
			ui.PrintField(out, "Keep", profile.Filter.KeepRegexes)
			ui.PrintField(out, "Remove", profile.Filter.RemoveRegexes)
			ui.PrintField(out, "Sort key", profile.Filter.SortKey)
			return nil
		},
	})

	cmd.AddCommand(profileSaveCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !config.ProfileExists(name) {
				return fmt.Errorf("profile not found: %s", name)
			}
			if err := config.DeleteProfile(name); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Profile '%s' deleted", name))
			return nil
		},
	})

	return cmd
}

// profileSaveCmd stores the current filter settings under a name
func profileSaveCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Save the current filter settings as a profile",
		Long: `Save the current filter settings as a profile. Filter flags given on
the command line are captured, e.g.

  ormf profile save google --keep-regexes 'google/.*' --n 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if result := config.Validate(cfg); !result.IsValid() {
				fmt.Fprint(cmd.OutOrStdout(), result.String())
				return fmt.Errorf("refusing to save an invalid profile")
			}

			profile := &config.Profile{
				Name:        args[0],
				Description: description,
				Filter:      cfg.Filter,
			}
			if err := config.SaveProfile(profile); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Profile '%s' saved", profile.Name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Short description shown by 'profile list'")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raddesk-health/raddesk-cli/internal/seeder"
	"github.com/raddesk-health/raddesk-cli/pkg/output"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo data into a development backend",
	Long:  "Generate random users and activity events. Never point this at production.",
}

var seedUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Create random users",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		res := seeder.SeedUsers(cmd.Context(), mgr.API(), mgr.AccessToken(), count)
		output.Success("Created %d users (%d failed)", res.Created, res.Failed)
		if res.Failed > 0 {
			return fmt.Errorf("last failure: %w", res.LastErr)
		}
		return nil
	},
}

var seedActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Record random activity events",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")

		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		res := seeder.SeedActivity(cmd.Context(), mgr.API(), mgr.AccessToken(), count)
		output.Success("Recorded %d events (%d failed)", res.Created, res.Failed)
		if res.Failed > 0 {
			return fmt.Errorf("last failure: %w", res.LastErr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedUsersCmd)
	seedCmd.AddCommand(seedActivityCmd)

	seedUsersCmd.Flags().Int("count", 10, "number of users to create")
	seedActivityCmd.Flags().Int("count", 50, "number of events to record")
}

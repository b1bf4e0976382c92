package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raddesk-health/raddesk-cli/pkg/output"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Role catalog commands",
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		roles, err := mgr.API().ListRoles(cmd.Context(), mgr.AccessToken())
		if err != nil {
			return fmt.Errorf("failed to list roles: %w", err)
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(roles)
		}

		table := output.NewTable([]string{"ID", "NAME", "USERS", "DESCRIPTION"})
		for _, r := range roles {
			table.AddRow([]string{
				strconv.FormatInt(r.ID, 10),
				r.Name,
				strconv.Itoa(r.UserCount),
				r.Description,
			})
		}
		table.Render()
		return nil
	},
}

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Permission catalog commands",
}

var permissionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		perms, err := mgr.API().ListPermissions(cmd.Context(), mgr.AccessToken())
		if err != nil {
			return fmt.Errorf("failed to list permissions: %w", err)
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(perms)
		}

		table := output.NewTable([]string{"ID", "CODENAME", "NAME"})
		for _, p := range perms {
			table.AddRow([]string{
				strconv.FormatInt(p.ID, 10),
				p.Codename,
				p.Name,
			})
		}
		table.Render()
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Active session monitoring",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active backend sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		sessions, err := mgr.API().ListSessions(cmd.Context(), mgr.AccessToken())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(sessions)
		}

		table := output.NewTable([]string{"ID", "USER", "IP", "STARTED", "ACTIVE"})
		for _, s := range sessions {
			table.AddRow([]string{
				s.ID,
				s.UserEmail,
				s.IPAddress,
				s.CreatedAt.Format("2006-01-02 15:04"),
				strconv.FormatBool(s.Active),
			})
		}
		table.Render()
		return nil
	},
}

var sessionRevokeCmd = &cobra.Command{
	Use:   "revoke [session-id...]",
	Short: "Revoke one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		failed := 0
		for _, id := range args {
			if err := mgr.API().RevokeSession(cmd.Context(), mgr.AccessToken(), id); err != nil {
				output.Error("session %s: %v", id, err)
				failed++
				continue
			}
			output.Success("Session %s revoked", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d revocations failed", failed, len(args))
		}
		return nil
	},
}

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Security alert monitoring",
}

var alertListCmd = &cobra.Command{
	Use:   "list",
	Short: "List security alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		alerts, err := mgr.API().ListAlerts(cmd.Context(), mgr.AccessToken())
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}

		if unackedOnly, _ := cmd.Flags().GetBool("unacked"); unackedOnly {
			kept := alerts[:0]
			for _, a := range alerts {
				if !a.Acknowledged {
					kept = append(kept, a)
				}
			}
			alerts = kept
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(alerts)
		}

		table := output.NewTable([]string{"ID", "SEVERITY", "MESSAGE", "TIME", "ACK"})
		for _, a := range alerts {
			table.AddRow([]string{
				a.ID,
				strings.ToUpper(a.Severity),
				a.Message,
				a.CreatedAt.Format("2006-01-02 15:04"),
				strconv.FormatBool(a.Acknowledged),
			})
		}
		table.Render()
		return nil
	},
}

var alertAckCmd = &cobra.Command{
	Use:   "ack [alert-id...]",
	Short: "Acknowledge one or more alerts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		failed := 0
		for _, id := range args {
			if err := mgr.API().AcknowledgeAlert(cmd.Context(), mgr.AccessToken(), id); err != nil {
				output.Error("alert %s: %v", id, err)
				failed++
				continue
			}
			output.Success("Alert %s acknowledged", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d acknowledgements failed", failed, len(args))
		}
		return nil
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Activity log",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent activity events",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		events, err := mgr.API().ListActivity(cmd.Context(), mgr.AccessToken())
		if err != nil {
			return fmt.Errorf("failed to list activity: %w", err)
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(events)
		}

		table := output.NewTable([]string{"TIME", "ACTOR", "ACTION", "TARGET", "IP"})
		for _, e := range events {
			table.AddRow([]string{
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Actor,
				e.Action,
				e.Target,
				e.IPAddress,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(roleCmd)
	roleCmd.AddCommand(roleListCmd)

	rootCmd.AddCommand(permissionCmd)
	permissionCmd.AddCommand(permissionListCmd)

	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionRevokeCmd)

	rootCmd.AddCommand(alertCmd)
	alertCmd.AddCommand(alertListCmd)
	alertCmd.AddCommand(alertAckCmd)
	alertListCmd.Flags().Bool("unacked", false, "only unacknowledged alerts")

	rootCmd.AddCommand(activityCmd)
	activityCmd.AddCommand(activityListCmd)
}

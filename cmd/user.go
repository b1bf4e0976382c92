package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raddesk-health/raddesk-cli/internal/client"
	"github.com/raddesk-health/raddesk-cli/internal/rbac"
	"github.com/raddesk-health/raddesk-cli/pkg/output"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
	Long:  "Manage RadDesk user accounts and their role assignments",
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Long:  "Fetch all users, then filter, sort and paginate locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		users, err := mgr.API().ListUsers(cmd.Context(), mgr.AccessToken())
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		query, _ := cmd.Flags().GetString("filter")
		role, _ := cmd.Flags().GetString("role")
		status, _ := cmd.Flags().GetString("status")
		sortKey, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		users = rbac.FilterUsers(users, rbac.UserFilter{Query: query, Role: role, Status: status})
		rbac.SortUsers(users, sortKey, desc)
		total := len(users)
		users = rbac.Paginate(users, page, pageSize)

		if outputFormat(cmd) == "json" {
			return output.JSON(users)
		}

		output.Info("Users (%d matching):", total)
		table := output.NewTable([]string{"ID", "USERNAME", "EMAIL", "STATUS", "ELEVATED", "ROLES"})
		for _, u := range users {
			status := "active"
			if !u.IsActive {
				status = "inactive"
			}
			elevated := ""
			if rbac.HasElevatedAccess(u) {
				elevated = "yes"
			}
			table.AddRow([]string{
				strconv.FormatInt(u.ID, 10),
				u.Username,
				u.Email,
				status,
				elevated,
				strings.Join(u.Roles, ","),
			})
		}
		table.Render()
		return nil
	},
}

var userGetCmd = &cobra.Command{
	Use:   "get [user-id]",
	Short: "Get user details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		user, err := mgr.API().GetUser(cmd.Context(), mgr.AccessToken(), id)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(user)
		}

		output.Info("User Details:")
		fmt.Printf("  ID:        %d\n", user.ID)
		fmt.Printf("  Username:  %s\n", user.Username)
		fmt.Printf("  Email:     %s\n", user.Email)
		fmt.Printf("  Name:      %s %s\n", user.FirstName, user.LastName)
		fmt.Printf("  Roles:     %s\n", strings.Join(user.Roles, ", "))
		fmt.Printf("  Active:    %v\n", user.IsActive)
		fmt.Printf("  Staff:     %v\n", user.IsStaff)
		fmt.Printf("  Superuser: %v\n", user.IsSuperuser)
		fmt.Printf("  Elevated:  %v\n", rbac.HasElevatedAccess(user))
		fmt.Printf("  Joined:    %s\n", user.DateJoined)
		return nil
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		roles, _ := cmd.Flags().GetStringSlice("roles")

		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		user, err := mgr.API().CreateUser(cmd.Context(), mgr.AccessToken(), client.CreateUserParams{
			Username:  username,
			Email:     email,
			Password:  password,
			FirstName: firstName,
			LastName:  lastName,
			Roles:     roles,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		output.Success("User created")
		fmt.Printf("  ID:    %d\n", user.ID)
		fmt.Printf("  Email: %s\n", user.Email)
		fmt.Printf("  Roles: %s\n", strings.Join(user.Roles, ", "))
		return nil
	},
}

var userUpdateCmd = &cobra.Command{
	Use:   "update [user-id]",
	Short: "Update a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		params := client.UpdateUserParams{}
		if cmd.Flags().Changed("email") {
			email, _ := cmd.Flags().GetString("email")
			params.Email = &email
		}
		if cmd.Flags().Changed("roles") {
			roles, _ := cmd.Flags().GetStringSlice("roles")
			params.Roles = roles
		}

		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		user, err := mgr.API().UpdateUser(cmd.Context(), mgr.AccessToken(), id, params)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		output.Success("User %d updated", user.ID)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}

		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		if err := mgr.API().DeleteUser(cmd.Context(), mgr.AccessToken(), id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		output.Success("User %d deleted", id)
		return nil
	},
}

var userEnableCmd = &cobra.Command{
	Use:   "enable [user-id...]",
	Short: "Activate one or more users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setUsersActive(cmd, args, true)
	},
}

var userDisableCmd = &cobra.Command{
	Use:   "disable [user-id...]",
	Short: "Deactivate one or more users",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setUsersActive(cmd, args, false)
	},
}

// setUsersActive is the bulk action: one sequential call per id, reporting
// per-id failures but finishing the batch.
func setUsersActive(cmd *cobra.Command, args []string, active bool) error {
	mgr, err := requireSession(cmd)
	if err != nil {
		return err
	}

	verb := "enabled"
	if !active {
		verb = "disabled"
	}

	failed := 0
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			output.Error("invalid user id %q", arg)
			failed++
			continue
		}
		if _, err := mgr.API().SetUserActive(cmd.Context(), mgr.AccessToken(), id, active); err != nil {
			output.Error("user %d: %v", id, err)
			failed++
			continue
		}
		output.Success("User %d %s", id, verb)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d updates failed", failed, len(args))
	}
	return nil
}

var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password [user-id]",
	Short: "Reset a user's password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("password is required")
		}

		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}

		if err := mgr.API().ResetPassword(cmd.Context(), mgr.AccessToken(), id, password); err != nil {
			return fmt.Errorf("failed to reset password: %w", err)
		}

		output.Success("Password reset for user %d", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userUpdateCmd)
	userCmd.AddCommand(userDeleteCmd)
	userCmd.AddCommand(userEnableCmd)
	userCmd.AddCommand(userDisableCmd)
	userCmd.AddCommand(userResetPasswordCmd)

	userListCmd.Flags().String("filter", "", "substring match on username/email/name")
	userListCmd.Flags().String("role", "", "only members of this role")
	userListCmd.Flags().String("status", "", "active or inactive")
	userListCmd.Flags().String("sort", "id", "sort key: id, email, username, joined")
	userListCmd.Flags().Bool("desc", false, "sort descending")
	userListCmd.Flags().Int("page", 1, "page number")
	userListCmd.Flags().Int("page-size", 0, "page size (0 disables pagination)")

	userCreateCmd.Flags().StringP("username", "u", "", "Username")
	userCreateCmd.Flags().StringP("email", "e", "", "Email")
	userCreateCmd.Flags().StringP("password", "p", "", "Password")
	userCreateCmd.Flags().String("first-name", "", "First name")
	userCreateCmd.Flags().String("last-name", "", "Last name")
	userCreateCmd.Flags().StringSlice("roles", nil, "Role names")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("password")

	userUpdateCmd.Flags().StringP("email", "e", "", "New email")
	userUpdateCmd.Flags().StringSlice("roles", nil, "Replacement role names")

	userResetPasswordCmd.Flags().StringP("password", "p", "", "New password")
}

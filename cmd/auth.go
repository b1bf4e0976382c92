package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/raddesk-health/raddesk-cli/internal/rbac"
	"github.com/raddesk-health/raddesk-cli/internal/session"
	"github.com/raddesk-health/raddesk-cli/pkg/output"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage authentication with the RadDesk backend",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to RadDesk",
	Long:  "Authenticate with the RadDesk backend and save credentials to the profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		methodID, _ := cmd.Flags().GetString("method")
		remember, _ := cmd.Flags().GetBool("remember")

		values := map[string]string{}
		for flag, field := range map[string]string{
			"email":       "email",
			"username":    "username",
			"employee-id": "employee_id",
			"password":    "password",
		} {
			if v, _ := cmd.Flags().GetString(flag); v != "" {
				values[field] = v
			}
		}

		mgr := newManager(cmd)
		user, err := mgr.Login(cmd.Context(), methodID, values, remember)
		if err != nil {
			var fieldErrs session.FieldErrors
			if errors.As(err, &fieldErrs) {
				for field, msg := range fieldErrs {
					output.Error("%s: %s", field, msg)
				}
				return fmt.Errorf("login blocked by validation")
			}
			return fmt.Errorf("login failed: %w", err)
		}

		output.Success("Logged in as %s", user.Email)
		if rbac.HasElevatedAccess(user) {
			output.Info("Elevated access: yes")
		}
		output.Info("Profile '%s' saved to ~/.raddctl/config.yaml", profileName(cmd))
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out from RadDesk",
	Long:  "Invalidate the remote session (best-effort) and remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager(cmd)
		mgr.Restore()
		mgr.Logout(cmd.Context())

		output.Success("Logged out from profile '%s'", profileName(cmd))
		return nil
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display current user information",
	Long:  "Show the currently authenticated user, as the backend sees it",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := requireSession(cmd)
		if err != nil {
			return err
		}
		user := mgr.CurrentUser()

		if outputFormat(cmd) == "json" {
			return output.JSON(user)
		}

		output.Info("Profile:  %s", profileName(cmd))
		output.Info("Server:   %s", mgr.API().BaseURL())
		output.Info("User:     %s (id %d)", user.Email, user.ID)
		if user.Username != "" {
			output.Info("Username: %s", user.Username)
		}
		output.Info("Roles:    %s", strings.Join(user.Roles, ", "))
		output.Info("Elevated: %v", rbac.HasElevatedAccess(user))
		if exp, ok := tokenExpiry(mgr.AccessToken()); ok {
			output.Info("Token expires: %s", exp.Format(time.RFC3339))
		}
		return nil
	},
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager(cmd)
		if !mgr.Restore() {
			return fmt.Errorf("not logged in: run 'raddctl auth login'")
		}
		if _, err := mgr.Refresh(cmd.Context()); err != nil {
			return fmt.Errorf("refresh failed, please log in again: %w", err)
		}
		output.Success("Access token refreshed")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status without contacting the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newManager(cmd)
		mgr.Restore()

		output.Info("Profile: %s", profileName(cmd))
		output.Info("Server:  %s", mgr.API().BaseURL())
		output.Info("State:   %s", mgr.State())
		if user := mgr.CurrentUser(); user != nil {
			output.Info("User:    %s", user.Email)
		}
		if exp, ok := tokenExpiry(mgr.AccessToken()); ok {
			output.Info("Token expires: %s", exp.Format(time.RFC3339))
		}
		return nil
	},
}

// tokenExpiry reads the exp claim off a JWT-shaped token without verifying
// it. Opaque tokens have no readable expiry.
func tokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().String("method", "email", "login method: email, username, employee-id")
	authLoginCmd.Flags().StringP("email", "e", "", "Email")
	authLoginCmd.Flags().StringP("username", "u", "", "Username")
	authLoginCmd.Flags().String("employee-id", "", "Employee ID")
	authLoginCmd.Flags().StringP("password", "p", "", "Password")
	authLoginCmd.Flags().Bool("remember", false, "Request an extended session")
}

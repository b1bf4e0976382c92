package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raddesk-health/raddesk-cli/internal/client"
	"github.com/raddesk-health/raddesk-cli/internal/session"
)

func profileName(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("profile")
	if name == "" {
		name = cfg.CurrentProfile
	}
	if name == "" {
		name = "default"
	}
	return name
}

func serverURL(cmd *cobra.Command) string {
	if cmd.Flags().Changed("server") {
		url, _ := cmd.Flags().GetString("server")
		return url
	}
	profile, _ := cmd.Flags().GetString("profile")
	return cfg.ServerURL(profile, settings)
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}

// newManager wires the API client and session manager together: the client
// calls back into the manager for the one-shot refresh on 401.
func newManager(cmd *cobra.Command) *session.Manager {
	url := serverURL(cmd)

	var mgr *session.Manager
	api := client.New(url,
		client.WithTimeout(settings.HTTPTimeout),
		client.WithLogger(logger),
		client.WithRefresher(client.RefresherFunc(func(ctx context.Context) (string, error) {
			return mgr.Refresh(ctx)
		})),
	)
	mgr = session.NewManager(api, cfg, profileName(cmd), url, logger)
	return mgr
}

// requireSession bootstraps from the stored profile and fails when no
// authenticated session comes out of it.
func requireSession(cmd *cobra.Command) (*session.Manager, error) {
	mgr := newManager(cmd)
	err := mgr.Bootstrap(cmd.Context())
	if mgr.IsAuthenticated() {
		return mgr, nil
	}
	if err != nil {
		return nil, fmt.Errorf("not logged in (%v): run 'raddctl auth login'", err)
	}
	return nil, fmt.Errorf("not logged in: run 'raddctl auth login'")
}

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/raddesk-health/raddesk-cli/internal/config"
)

var (
	cfgFile  string
	cfg      *config.Config
	settings *config.Settings
	logger   zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "raddctl",
	Short: "RadDesk administration CLI",
	Long: `raddctl is the command-line console for the RadDesk radiology
administration backend.

Authenticate, manage users and roles, watch sessions and security alerts,
and seed demo data from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.raddctl/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use (default: current profile)")
	rootCmd.PersistentFlags().String("server", "", "backend URL (default from profile/env)")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	// Local overrides for development; absence is fine.
	_ = godotenv.Load()
	settings = config.LoadSettings()

	level := zerolog.WarnLevel
	if parsed, err := zerolog.ParseLevel(settings.LogLevel); err == nil {
		level = parsed
	}
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}
}

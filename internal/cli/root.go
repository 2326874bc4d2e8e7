package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msctl-dev/msctl/internal/cli/commands"
	"github.com/msctl-dev/msctl/internal/cli/config"
	"github.com/msctl-dev/msctl/internal/logger"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the msctl command tree around env
func NewRootCmd(env *commands.Env) *cobra.Command {
	var apiURL, logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "msctl",
		Short: "msctl - Music school API client",
		Long: `msctl - Command line client for the music school API.

Sign in once with 'msctl login'; the session token is kept in the OS keychain
and sent with every request until you log out or the server rejects it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if env.Config == nil {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				env.Config = cfg
			}

			if apiURL != "" {
				env.Config.API.URL = strings.TrimRight(apiURL, "/")
			}
			if logLevel != "" {
				env.Config.Logging.Level = logLevel
			}
			if logFormat != "" {
				env.Config.Logging.Format = logFormat
			}

			logger.Init(env.Config.Logging.Level, env.Config.Logging.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides MSCTL_API_URL and 'msctl use')")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console, json")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(env.Out, "msctl version %s\n", env.Version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewRegisterCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewStatusCmd(env))
	rootCmd.AddCommand(commands.NewWhoamiCmd(env))
	rootCmd.AddCommand(commands.NewUseCmd(env))
	rootCmd.AddCommand(commands.NewDashCmd(env))
	rootCmd.AddCommand(commands.NewAPICmd(env))
	rootCmd.AddCommand(commands.NewStudentsCmd(env))
	rootCmd.AddCommand(commands.NewTeachersCmd(env))
	rootCmd.AddCommand(commands.NewInstrumentsCmd(env))
	rootCmd.AddCommand(commands.NewScheduleCmd(env))

	rootCmd.SetOut(env.Out)
	rootCmd.SetErr(env.Err)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	env := commands.NewEnv(version)
	if err := NewRootCmd(env).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"relbot/internal/config"
	"relbot/internal/logger"
	"relbot/internal/version"
)

var (
	cfgFile string
	verbose bool
	rootCmd *cobra.Command
	appLog  logger.Logger
	cfg     *config.Config
)

func init() {
	rootCmd = NewRootCmd()
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cfg = config.NewConfig()

	cmd := &cobra.Command{
		Use:   "relbot",
		Short: "Release maintenance toolkit for a search cluster",
		Long: `relbot automates the routine release chores of a search-and-indexing
service: replaying smoke-test fixtures against a running cluster, and
keeping pull requests moving by rebasing stalled ones and backporting
labelled ones onto release branches.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			if verbose {
				os.Setenv("DEBUG", "true")
			}
			var err error
			appLog, err = logger.NewFromEnv()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(newSmokeCmd())
	cmd.AddCommand(newPRCmd())
	cmd.AddCommand(newNotesCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() error {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return fmt.Errorf("failed to access config file: %w", err)
		}
		return cfg.Load(cfgFile)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".config", "relbot", "relbot.yml")
		if _, err := os.Stat(path); err == nil {
			cfg.LoadOrDefault(path)
			return nil
		}
	}

	cfg.LoadOrDefault("relbot.yml")
	return nil
}

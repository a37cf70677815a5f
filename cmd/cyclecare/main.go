package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclecare/internal/cli"
	"github.com/terraincognita07/cyclecare/internal/config"
	"github.com/terraincognita07/cyclecare/internal/db"
	"github.com/terraincognita07/cyclecare/internal/logging"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "cyclecare",
		Short:         "Self-hosted menstrual cycle tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (yaml, toml or json)")

	root.AddCommand(newServeCommand(&configFile))
	root.AddCommand(newResetPasswordCommand(&configFile))
	root.AddCommand(newMigrateCommand(&configFile))
	return root
}

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and reminder scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, *configFile)
		},
	}
}

func newResetPasswordCommand(configFile *string) *cobra.Command {
	var email string

	command := &cobra.Command{
		Use:   "reset-password",
		Short: "Issue a temporary password for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := openConfiguredDatabase(*configFile)
			if err != nil {
				return err
			}
			defer closeDatabase(database)
			return cli.RunResetPasswordCommand(cmd.OutOrStdout(), database, email)
		},
	}
	command.Flags().StringVar(&email, "email", "", "email address of the account")
	_ = command.MarkFlagRequired("email")
	return command
}

func newMigrateCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and list the applied ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := openConfiguredDatabase(*configFile)
			if err != nil {
				return err
			}
			defer closeDatabase(database)
			return cli.RunMigrationStatusCommand(cmd.OutOrStdout(), database)
		},
	}
}

func openConfiguredDatabase(configFile string) (*gorm.DB, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Server.LogLevel, cfg.Server.Environment)

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return database, nil
}

func closeDatabase(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logging.Log.WithError(err).Warn("close database failed")
	}
}

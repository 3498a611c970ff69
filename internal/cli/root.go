package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sriverasc/AireAPI/internal/app"
	"github.com/Sriverasc/AireAPI/internal/config"
	"github.com/Sriverasc/AireAPI/internal/logging"
)

const appName = "aireapi"

// newRootCmd builds the command tree. Running the root command without a
// subcommand serves the API.
func newRootCmd(version string) *cobra.Command {
	var envFile string

	// setup loads configuration and installs the default logger.
	setup := func() (config.Config, error) {
		if err := config.LoadEnvFile(envFile); err != nil {
			return config.Config{}, err
		}
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return config.Config{}, fmt.Errorf("config error: %w", err)
		}
		slog.SetDefault(logging.New(os.Stdout, cfg, version, appName))
		slog.Info("starting",
			"app", appName,
			"version", version,
			"env", cfg.AppEnv,
			"log_level", cfg.LogLevel.String(),
		)
		return cfg, nil
	}

	serve := func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		return app.Run(cmd.Context(), cfg)
	}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Air quality readings API",
		Long:          `Stores outdoor and indoor air quality readings and serves them over HTTP with date range, daily period and exact minute queries.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if err := app.Migrate(cmd.Context(), cfg); err != nil {
				return err
			}
			slog.Info("migrations applied")
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

// Execute runs the command line with ctx, which is cancelled on shutdown
// signals by the caller.
func Execute(ctx context.Context, version string) error {
	return newRootCmd(version).ExecuteContext(ctx)
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/infra"
)

func Start() {
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str(constants.KEY_APP_NAME, constants.APP_DAILY_COFFEE).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.APP_DAILY_COFFEE}
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return RunMigration(cmd.Context(), infra.MigrationUp)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every applied migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return RunMigration(cmd.Context(), infra.MigrationDown)
			},
		},
	)
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "api",
			Short: "Run the storefront api",
			Run: func(cmd *cobra.Command, args []string) {
				RunApiService(cmd.Context())
			},
		},
		migrateCmd,
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}

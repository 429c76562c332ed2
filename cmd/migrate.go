package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/config"
	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/infra"
)

func RunMigration(c context.Context, direction infra.MigrationDirection) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_MIGRATION).
		Str(constants.KEY_TAG, "main RunMigration").
		Str("direction", string(direction)).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.Get(c, constants.APP_API_SERVICE)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "migrating database").Logger()
	logger.Info().Msg("migrating database")
	c = logger.WithContext(c)
	err := infra.Migrate(c, cfg.Database, direction)
	if err != nil {
		err = fmt.Errorf("failed migrating database with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("migrated database")
	return nil
}

package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/address/internal/controller"
	"github.com/Alturino/dailycoffee/address/internal/service"
	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/repository"
)

func AttachAddressService(
	c context.Context,
	router *mux.Router,
	pool *pgxpool.Pool,
	queries *repository.Queries,
	authenticate mux.MiddlewareFunc,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main AttachAddressService").
		Str(constants.KEY_PROCESS, "attaching address service").
		Logger()

	logger.Info().Msg("attaching address service")
	controller.AttachAddressController(router, service.NewAddressService(pool, queries), authenticate)
	logger.Info().Msg("attached address service")
}

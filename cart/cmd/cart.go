package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/cart/internal/controller"
	"github.com/Alturino/dailycoffee/cart/internal/service"
	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/repository"
)

func AttachCartService(
	c context.Context,
	router *mux.Router,
	pool *pgxpool.Pool,
	queries *repository.Queries,
	authenticate mux.MiddlewareFunc,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main AttachCartService").
		Str(constants.KEY_PROCESS, "attaching cart service").
		Logger()

	logger.Info().Msg("attaching cart service")
	controller.AttachCartController(router, service.NewCartService(pool, queries), authenticate)
	logger.Info().Msg("attached cart service")
}

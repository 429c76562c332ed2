package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/product/internal/controller"
	"github.com/Alturino/dailycoffee/product/internal/service"
)

func AttachProductService(
	c context.Context,
	router *mux.Router,
	queries *repository.Queries,
	cache *redis.Client,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main AttachProductService").
		Str(constants.KEY_PROCESS, "attaching product service").
		Logger()

	logger.Info().Msg("attaching product service")
	controller.AttachProductController(router, service.NewProductService(queries, cache))
	logger.Info().Msg("attached product service")
}

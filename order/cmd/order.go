package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/order/internal/controller"
	"github.com/Alturino/dailycoffee/order/internal/service"
)

// AttachOrderService serves /orders. Every route requires an access token.
func AttachOrderService(
	c context.Context,
	router *mux.Router,
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	authenticate mux.MiddlewareFunc,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main AttachOrderService").
		Str(constants.KEY_PROCESS, "attaching order service").
		Logger()

	logger.Info().Msg("attaching order service")
	controller.AttachOrderController(router, service.NewOrderService(pool, queries, cache), authenticate)
	logger.Info().Msg("attached order service")
}

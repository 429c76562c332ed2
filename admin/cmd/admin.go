package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/admin/internal/controller"
	"github.com/Alturino/dailycoffee/admin/internal/service"
	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/repository"
)

// AttachAdminService serves /admin to authenticated admins only.
func AttachAdminService(
	c context.Context,
	router *mux.Router,
	pool *pgxpool.Pool,
	queries *repository.Queries,
	cache *redis.Client,
	authenticate mux.MiddlewareFunc,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main AttachAdminService").
		Str(constants.KEY_PROCESS, "attaching admin service").
		Logger()

	logger.Info().Msg("attaching admin service")
	controller.AttachAdminController(router, service.NewAdminService(pool, queries, cache), authenticate)
	logger.Info().Msg("attached admin service")
}

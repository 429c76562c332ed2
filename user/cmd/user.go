package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/user/internal/controller"
	"github.com/Alturino/dailycoffee/user/internal/service"
)

// AttachUserService serves /auth.
func AttachUserService(
	c context.Context,
	router *mux.Router,
	queries *repository.Queries,
	tokens *auth.TokenManager,
	authenticate mux.MiddlewareFunc,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main AttachUserService").
		Str(constants.KEY_PROCESS, "attaching user service").
		Logger()

	logger.Info().Msg("attaching user service")
	controller.AttachUserController(router, service.NewUserService(queries, tokens), authenticate)
	logger.Info().Msg("attached user service")
}

package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/review/internal/controller"
	"github.com/Alturino/dailycoffee/review/internal/service"
)

// AttachReviewService must run before AttachProductService so that
// /products/{productId}/reviews is not shadowed by the product routes.
func AttachReviewService(
	c context.Context,
	router *mux.Router,
	queries *repository.Queries,
	authenticate mux.MiddlewareFunc,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "main AttachReviewService").
		Str(constants.KEY_PROCESS, "attaching review service").
		Logger()

	logger.Info().Msg("attaching review service")
	controller.AttachReviewController(router, service.NewReviewService(queries), authenticate)
	logger.Info().Msg("attached review service")
}

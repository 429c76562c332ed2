package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/constants"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/otel"
	inOtel "github.com/Alturino/dailycoffee/review/internal/otel"
	"github.com/Alturino/dailycoffee/review/internal/service"
	"github.com/Alturino/dailycoffee/review/pkg/request"
)

const defaultReviewLimit = 10

type ReviewController struct {
	service *service.ReviewService
}

// AttachReviewController must run before the product routes are attached so that
// /products/{productId}/reviews is matched ahead of the /products subrouter.
func AttachReviewController(router *mux.Router, service *service.ReviewService, authenticate mux.MiddlewareFunc) {
	controller := ReviewController{service: service}

	router.HandleFunc("/products/{productId}/reviews", controller.FindReviews).Methods(http.MethodGet)

	reviews := router.PathPrefix("/reviews").Subrouter()
	reviews.Use(authenticate)
	reviews.HandleFunc("", controller.CreateReview).Methods(http.MethodPost)
	reviews.HandleFunc("/{reviewId}/like", controller.LikeReview).Methods(http.MethodPut)
}

func (ctrl ReviewController) FindReviews(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ReviewController FindReviews")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "ReviewController FindReviews").Logger()

	productID, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	pagination, err := inHttp.ParsePagination(r, defaultReviewLimit, 50)
	if err != nil {
		err = fmt.Errorf("failed parsing pagination with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Str(constants.KEY_PROCESS, "finding reviews").
		Logger()
	logger.Info().Msg("finding reviews")
	c = logger.WithContext(c)
	reviews, meta, err := ctrl.service.FindReviews(c, productID, pagination)
	if err != nil {
		err = fmt.Errorf("failed finding reviews with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found reviews")

	inHttp.WriteSuccessWithMeta(c, w, http.StatusOK, reviews, meta)
}

func (ctrl ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ReviewController CreateReview")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "ReviewController CreateReview").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.CreateReview{}
	err = inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "creating review").Logger()
	logger.Info().Msg("creating review")
	c = logger.WithContext(c)
	review, err := ctrl.service.CreateReview(c, userID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating review with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("created review")

	inHttp.WriteSuccess(c, w, http.StatusCreated, review)
}

func (ctrl ReviewController) LikeReview(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "ReviewController LikeReview")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "ReviewController LikeReview").Logger()

	reviewID, err := inHttp.PathUUID(r, "reviewId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_REVIEW_ID, reviewID.String()).
		Str(constants.KEY_PROCESS, "liking review").
		Logger()
	logger.Info().Msg("liking review")
	c = logger.WithContext(c)
	review, err := ctrl.service.LikeReview(c, reviewID)
	if err != nil {
		err = fmt.Errorf("failed liking review with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("liked review")

	inHttp.WriteSuccess(c, w, http.StatusOK, review)
}

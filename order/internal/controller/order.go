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
	"github.com/Alturino/dailycoffee/internal/validate"
	inOtel "github.com/Alturino/dailycoffee/order/internal/otel"
	"github.com/Alturino/dailycoffee/order/internal/service"
	"github.com/Alturino/dailycoffee/order/pkg/request"
)

const (
	defaultOrderLimit = 10
	maxOrderLimit     = 50
	maxIdempotencyKey = 128
)

type OrderController struct {
	service *service.OrderService
}

func AttachOrderController(router *mux.Router, service *service.OrderService, authenticate mux.MiddlewareFunc) {
	controller := OrderController{service: service}

	router = router.PathPrefix("/orders").Subrouter()
	router.Use(authenticate)
	router.HandleFunc("", controller.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
}

func (ctrl OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "OrderController CreateOrder").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userID.String()).Logger()

	idempotencyKey := r.Header.Get(inHttp.KEY_HEADER_IDEMPOTENCY_KEY)
	if len(idempotencyKey) > maxIdempotencyKey {
		err = validate.NewValidationError(inHttp.KEY_HEADER_IDEMPOTENCY_KEY, "must be at most 128 characters")
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.CreateOrder{}
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

	logger = logger.With().
		Str(constants.KEY_IDEMPOTENCY, idempotencyKey).
		Str(constants.KEY_PROCESS, "creating order").
		Logger()
	logger.Info().Msg("creating order")
	c = logger.WithContext(c)
	order, err := ctrl.service.CreateOrder(c, userID, idempotencyKey, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("created order")

	inHttp.WriteSuccess(c, w, http.StatusCreated, order)
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "OrderController FindOrders").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	pagination, err := inHttp.ParsePagination(r, defaultOrderLimit, maxOrderLimit)
	if err != nil {
		err = fmt.Errorf("failed parsing pagination with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "finding orders").
		Logger()
	logger.Info().Msg("finding orders")
	c = logger.WithContext(c)
	orders, meta, err := ctrl.service.FindOrders(c, userID, pagination)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found orders")

	inHttp.WriteSuccessWithMeta(c, w, http.StatusOK, orders, meta)
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "OrderController FindOrderById").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	orderID, err := inHttp.PathUUID(r, "orderId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ORDER_ID, orderID.String()).
		Str(constants.KEY_PROCESS, "finding order").
		Logger()
	logger.Info().Msg("finding order")
	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, userID, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteSuccess(c, w, http.StatusOK, order)
}

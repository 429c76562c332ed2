package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inOtel "github.com/Alturino/dailycoffee/cart/internal/otel"
	"github.com/Alturino/dailycoffee/cart/internal/service"
	"github.com/Alturino/dailycoffee/cart/pkg/request"
	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/constants"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/otel"
)

type CartController struct {
	service *service.CartService
}

func AttachCartController(router *mux.Router, service *service.CartService, authenticate mux.MiddlewareFunc) {
	controller := CartController{service: service}

	router = router.PathPrefix("/cart").Subrouter()
	router.Use(authenticate)
	router.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	router.HandleFunc("", controller.AddItem).Methods(http.MethodPost)
	router.HandleFunc("", controller.Clear).Methods(http.MethodDelete)
	router.HandleFunc("/{itemId}", controller.UpdateItem).Methods(http.MethodPut)
	router.HandleFunc("/{itemId}", controller.RemoveItem).Methods(http.MethodDelete)
}

func (ctrl CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "CartController GetCart").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "getting cart").
		Logger()
	logger.Info().Msg("getting cart")
	c = logger.WithContext(c)
	res, err := ctrl.service.GetCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("got cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

func (ctrl CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "CartController AddItem").Logger()

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
	reqBody := request.AddCartItem{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "adding item").Logger()
	logger.Info().Msg("adding item")
	c = logger.WithContext(c)
	res, err := ctrl.service.AddItem(c, userID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("added item")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

func (ctrl CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "CartController UpdateItem").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	itemID, err := inHttp.PathUUID(r, "itemId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_CART_ITEM_ID, itemID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.UpdateCartItem{}
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

	logger = logger.With().Str(constants.KEY_PROCESS, "updating item").Logger()
	logger.Info().Msg("updating item")
	c = logger.WithContext(c)
	res, err := ctrl.service.UpdateItem(c, userID, itemID, *reqBody.Quantity)
	if err != nil {
		err = fmt.Errorf("failed updating item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("updated item")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

func (ctrl CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "CartController RemoveItem").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	itemID, err := inHttp.PathUUID(r, "itemId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_CART_ITEM_ID, itemID.String()).
		Str(constants.KEY_PROCESS, "removing item").
		Logger()
	logger.Info().Msg("removing item")
	c = logger.WithContext(c)
	res, err := ctrl.service.RemoveItem(c, userID, itemID)
	if err != nil {
		err = fmt.Errorf("failed removing item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("removed item")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

func (ctrl CartController) Clear(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "CartController Clear")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "CartController Clear").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "clearing cart").
		Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	res, err := ctrl.service.Clear(c, userID)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

package controller

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	inOtel "github.com/Alturino/dailycoffee/address/internal/otel"
	"github.com/Alturino/dailycoffee/address/internal/service"
	"github.com/Alturino/dailycoffee/address/pkg/request"
	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/constants"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/otel"
)

type AddressController struct {
	service *service.AddressService
}

func AttachAddressController(router *mux.Router, service *service.AddressService, authenticate mux.MiddlewareFunc) {
	controller := AddressController{service: service}

	router = router.PathPrefix("/addresses").Subrouter()
	router.Use(authenticate)
	router.HandleFunc("", controller.FindAddresses).Methods(http.MethodGet)
	router.HandleFunc("", controller.CreateAddress).Methods(http.MethodPost)
	router.HandleFunc("/{addressId}", controller.UpdateAddress).Methods(http.MethodPut)
	router.HandleFunc("/{addressId}", controller.DeleteAddress).Methods(http.MethodDelete)
	router.HandleFunc("/{addressId}/default", controller.SetDefaultAddress).Methods(http.MethodPut)
}

// ids reads the caller and, when withAddress is set, the addressId path value. It writes
// the error response itself and reports whether the handler may continue.
func ids(
	w http.ResponseWriter,
	r *http.Request,
	span trace.Span,
	logger zerolog.Logger,
	withAddress bool,
) (uuid.UUID, uuid.UUID, bool) {
	c := r.Context()
	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return uuid.Nil, uuid.Nil, false
	}
	if !withAddress {
		return userID, uuid.Nil, true
	}
	addressID, err := inHttp.PathUUID(r, "addressId")
	if err != nil {
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, addressID, true
}

func (ctrl AddressController) FindAddresses(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AddressController FindAddresses")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AddressController FindAddresses").Logger()

	userID, _, ok := ids(w, r, span, logger, false)
	if !ok {
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_PROCESS, "finding addresses").
		Logger()
	logger.Info().Msg("finding addresses")
	c = logger.WithContext(c)
	res, err := ctrl.service.FindAddresses(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding addresses with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found addresses")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

func (ctrl AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AddressController CreateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AddressController CreateAddress").Logger()

	userID, _, ok := ids(w, r, span, logger, false)
	if !ok {
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.CreateAddress{}
	err := inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "creating address").Logger()
	logger.Info().Msg("creating address")
	c = logger.WithContext(c)
	res, err := ctrl.service.CreateAddress(c, userID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("created address")

	inHttp.WriteSuccess(c, w, http.StatusCreated, res)
}

func (ctrl AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AddressController UpdateAddress")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AddressController UpdateAddress").Logger()

	userID, addressID, ok := ids(w, r, span, logger, true)
	if !ok {
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ADDRESS_ID, addressID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.UpdateAddress{}
	err := inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating address").Logger()
	logger.Info().Msg("updating address")
	c = logger.WithContext(c)
	res, err := ctrl.service.UpdateAddress(c, userID, addressID, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("updated address")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

func (ctrl AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AddressController DeleteAddress")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AddressController DeleteAddress").Logger()

	userID, addressID, ok := ids(w, r, span, logger, true)
	if !ok {
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ADDRESS_ID, addressID.String()).
		Str(constants.KEY_PROCESS, "deleting address").
		Logger()
	logger.Info().Msg("deleting address")
	c = logger.WithContext(c)
	err := ctrl.service.DeleteAddress(c, userID, addressID)
	if err != nil {
		err = fmt.Errorf("failed deleting address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("deleted address")

	inHttp.WriteSuccess(c, w, http.StatusOK, map[string]string{"id": addressID.String()})
}

func (ctrl AddressController) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "AddressController SetDefaultAddress")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "AddressController SetDefaultAddress").Logger()

	userID, addressID, ok := ids(w, r, span, logger, true)
	if !ok {
		return
	}

	logger = logger.With().
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ADDRESS_ID, addressID.String()).
		Str(constants.KEY_PROCESS, "setting default address").
		Logger()
	logger.Info().Msg("setting default address")
	c = logger.WithContext(c)
	res, err := ctrl.service.SetDefaultAddress(c, userID, addressID)
	if err != nil {
		err = fmt.Errorf("failed setting default address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("set default address")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

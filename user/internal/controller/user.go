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
	inOtel "github.com/Alturino/dailycoffee/user/internal/otel"
	"github.com/Alturino/dailycoffee/user/internal/service"
	"github.com/Alturino/dailycoffee/user/pkg/request"
)

type UserController struct {
	service *service.UserService
}

func AttachUserController(
	router *mux.Router,
	service *service.UserService,
	authenticate mux.MiddlewareFunc,
) {
	controller := UserController{service: service}

	router = router.PathPrefix("/auth").Subrouter()
	router.HandleFunc("/register", controller.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	router.HandleFunc("/refresh", controller.Refresh).Methods(http.MethodPost)
	router.Handle("/logout", authenticate(http.HandlerFunc(controller.Logout))).Methods(http.MethodPost)
	router.Handle("/me", authenticate(http.HandlerFunc(controller.Me))).Methods(http.MethodGet)
}

func (u UserController) Register(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController Register")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "UserController Register").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.Register{}
	err := inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "registering user").Logger()
	logger.Info().Msg("registering user")
	c = logger.WithContext(c)
	res, err := u.service.Register(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed registering user with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("registered user")

	inHttp.WriteSuccess(c, w, http.StatusCreated, res)
}

func (u UserController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController Login")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "UserController Login").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.Login{}
	err := inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Object(constants.KEY_REQUEST_BODY, reqBody).Logger()
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "login").Logger()
	logger.Info().Msg("login")
	c = logger.WithContext(c)
	res, err := u.service.Login(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed login with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("login success")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

func (u UserController) Refresh(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController Refresh")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "UserController Refresh").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	reqBody := request.Refresh{}
	err := inHttp.DecodeAndValidate(c, r, &reqBody)
	if err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "refreshing tokens").Logger()
	logger.Info().Msg("refreshing tokens")
	c = logger.WithContext(c)
	res, err := u.service.Refresh(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed refreshing tokens with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("refreshed tokens")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

// Logout only acknowledges; tokens are stateless and expire on their own.
func (u UserController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController Logout")
	defer span.End()

	inHttp.WriteSuccess(c, w, http.StatusOK, map[string]string{"message": "Logged out."})
}

func (u UserController) Me(w http.ResponseWriter, r *http.Request) {
	c, span := inOtel.Tracer.Start(r.Context(), "UserController Me")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "UserController Me").Logger()

	userID, err := auth.UserIdFromContext(c)
	if err != nil {
		err = fmt.Errorf("failed getting userId with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PROCESS, "finding user").
		Str(constants.KEY_USER_ID, userID.String()).
		Logger()
	logger.Info().Msg("finding user")
	c = logger.WithContext(c)
	res, err := u.service.FindUserById(c, userID)
	if err != nil {
		err = fmt.Errorf("failed finding user with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found user")

	inHttp.WriteSuccess(c, w, http.StatusOK, res)
}

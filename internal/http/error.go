package http

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/validate"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var production atomic.Bool

// SetProduction hides the message of unexpected errors behind a generic one.
func SetProduction(isProduction bool) {
	production.Store(isProduction)
}

type ErrorResponse struct {
	Details    []validate.FieldError
	Message    string
	StatusCode int
}

var sentinels = []struct {
	err        error
	statusCode int
}{
	{inErrors.ErrCartEmpty, http.StatusBadRequest},
	{inErrors.ErrInvalidBody, http.StatusBadRequest},
	{inErrors.ErrInvalidID, http.StatusBadRequest},
	{inErrors.ErrInvalidPagination, http.StatusBadRequest},
	{inErrors.ErrEmptyAuth, http.StatusUnauthorized},
	{inErrors.ErrEmptySubject, http.StatusUnauthorized},
	{inErrors.ErrTokenInvalid, http.StatusUnauthorized},
	{inErrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{inErrors.ErrForbidden, http.StatusForbidden},
	{inErrors.ErrCartItemNotFound, http.StatusNotFound},
	{inErrors.ErrOrderNotFound, http.StatusNotFound},
	{inErrors.ErrProductNotFound, http.StatusNotFound},
	{inErrors.ErrAddressNotFound, http.StatusNotFound},
	{inErrors.ErrReviewNotFound, http.StatusNotFound},
	{inErrors.ErrCategoryNotFound, http.StatusNotFound},
	{inErrors.ErrUserNotFound, http.StatusNotFound},
	{inErrors.ErrNotFound, http.StatusNotFound},
	{inErrors.ErrOutOfStock, http.StatusConflict},
	{inErrors.ErrOrderInProgress, http.StatusConflict},
	{inErrors.ErrEmailExist, http.StatusConflict},
	{inErrors.ErrConflict, http.StatusConflict},
}

// ResolveError maps an error returned by a service to the status code and message that
// are safe to send to the client.
func ResolveError(err error) ErrorResponse {
	var validationErr *validate.ValidationError
	if errors.As(err, &validationErr) {
		return ErrorResponse{
			Details:    validationErr.Details,
			Message:    inErrors.ErrValidation.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return ErrorResponse{Message: s.err.Error(), StatusCode: s.statusCode}
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorResponse{Message: inErrors.ErrNotFound.Error(), StatusCode: http.StatusNotFound}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrorResponse{Message: "resource already exists", StatusCode: http.StatusConflict}
		case pgForeignKeyViolation:
			return ErrorResponse{Message: "resource is still referenced", StatusCode: http.StatusConflict}
		}
	}

	message := MessageInternalServerError
	if !production.Load() && err != nil {
		message = err.Error()
	}
	return ErrorResponse{Message: message, StatusCode: http.StatusInternalServerError}
}

func WriteErrorResponse(c context.Context, w http.ResponseWriter, err error) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "WriteErrorResponse").Logger()

	res := ResolveError(err)
	if res.StatusCode >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("statusCode", res.StatusCode).Msg("responding with error")
	} else {
		logger.Info().Err(err).Int("statusCode", res.StatusCode).Msg("responding with error")
	}

	body := map[string]interface{}{
		"success": false,
		"error":   res.Message,
	}
	if len(res.Details) > 0 {
		body["details"] = res.Details
	}
	WriteJsonResponse(c, w, res.StatusCode, nil, body)
}

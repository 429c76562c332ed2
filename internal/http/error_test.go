package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/validate"
)

func TestResolveError(t *testing.T) {
	testCases := []struct {
		name               string
		err                error
		production         bool
		expectedStatusCode int
		expectedMessage    string
	}{
		{
			name:               "empty cart",
			err:                fmt.Errorf("failed placing order with error=%w", inErrors.ErrCartEmpty),
			expectedStatusCode: http.StatusBadRequest,
			expectedMessage:    "Cart is empty.",
		},
		{
			name:               "out of stock",
			err:                inErrors.ErrOutOfStock,
			expectedStatusCode: http.StatusConflict,
			expectedMessage:    inErrors.ErrOutOfStock.Error(),
		},
		{
			name:               "forbidden",
			err:                inErrors.ErrForbidden,
			expectedStatusCode: http.StatusForbidden,
			expectedMessage:    inErrors.ErrForbidden.Error(),
		},
		{
			name:               "no rows",
			err:                fmt.Errorf("failed finding order with error=%w", pgx.ErrNoRows),
			expectedStatusCode: http.StatusNotFound,
			expectedMessage:    inErrors.ErrNotFound.Error(),
		},
		{
			name:               "unique violation",
			err:                &pgconn.PgError{Code: "23505"},
			expectedStatusCode: http.StatusConflict,
			expectedMessage:    "resource already exists",
		},
		{
			name:               "foreign key violation",
			err:                fmt.Errorf("failed deleting product with error=%w", &pgconn.PgError{Code: "23503"}),
			expectedStatusCode: http.StatusConflict,
			expectedMessage:    "resource is still referenced",
		},
		{
			name:               "unexpected error in development",
			err:                errors.New("connection reset"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedMessage:    "connection reset",
		},
		{
			name:               "unexpected error in production",
			err:                errors.New("connection reset"),
			production:         true,
			expectedStatusCode: http.StatusInternalServerError,
			expectedMessage:    MessageInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			SetProduction(tc.production)
			defer SetProduction(false)

			actual := ResolveError(tc.err)

			assert.Equal(t, tc.expectedStatusCode, actual.StatusCode)
			assert.Equal(t, tc.expectedMessage, actual.Message)
		})
	}
}

func TestWriteErrorResponseWithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/orders", nil)

	WriteErrorResponse(r.Context(), w, validate.NewValidationError("shippingAddress.zipCode", "is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, VALUE_HEADER_APPLICATION_JSON, w.Header().Get(KEY_HEADER_CONTENT_TYPE))

	body := struct {
		Success bool                  `json:"success"`
		Error   string                `json:"error"`
		Details []validate.FieldError `json:"details"`
	}{}
	err := json.NewDecoder(w.Body).Decode(&body)
	assert.NoError(t, err)
	assert.False(t, body.Success)
	assert.Equal(t, inErrors.ErrValidation.Error(), body.Error)
	assert.Equal(t, []validate.FieldError{{Path: "shippingAddress.zipCode", Message: "is required"}}, body.Details)
}

package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/validate"
)

// DecodeAndValidate decodes the JSON body into dst and validates its struct tags.
func DecodeAndValidate(c context.Context, r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("failed decoding request body with error=%s: %w", err.Error(), inErrors.ErrInvalidBody)
	}
	return validate.Struct(c, dst)
}

func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s=%s: %w", name, raw, inErrors.ErrInvalidID)
	}
	return id, nil
}

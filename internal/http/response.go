package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "WriteJsonResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Set(k, v)
	}
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

// WriteSuccess writes {"success":true,"data":data}.
func WriteSuccess(c context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	WriteJsonResponse(c, w, statusCode, nil, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func WriteSuccessWithMeta(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	data interface{},
	meta interface{},
) {
	WriteJsonResponse(c, w, statusCode, nil, map[string]interface{}{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

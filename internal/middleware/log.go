package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/dailycoffee/internal/constants"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/log"
	"github.com/Alturino/dailycoffee/internal/otel"
)

var maskedFields = []string{"password", "currentPassword", "newPassword", "refreshToken"}

// maskBody returns the decoded JSON body with credential fields replaced.
func maskBody(raw []byte) map[string]interface{} {
	requestBody := map[string]interface{}{}
	if len(raw) == 0 {
		return requestBody
	}
	if err := json.Unmarshal(raw, &requestBody); err != nil {
		return requestBody
	}
	for _, field := range maskedFields {
		if requestBody[field] != nil {
			requestBody[field] = "****"
		}
	}
	return requestBody
}

func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(inHttp.KEY_HEADER_REQUEST_ID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c, span := otel.Tracer.Start(
				r.Context(),
				"middleware Logging",
				trace.WithAttributes(
					attribute.String(constants.KEY_REQUEST_ID, requestID),
					attribute.String(constants.KEY_REQUEST_HOST, r.Host),
					attribute.String(constants.KEY_REQUEST_IP, r.RemoteAddr),
					attribute.String(constants.KEY_REQUEST_METHOD, r.Method),
					attribute.String(constants.KEY_REQUEST_URI, r.RequestURI),
				),
			)
			defer span.End()

			var raw []byte
			if r.Body != nil {
				raw, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(raw))
			}

			header := r.Header.Clone()
			if header.Get(inHttp.KEY_HEADER_AUTHORIZATION) != "" {
				header.Set(inHttp.KEY_HEADER_AUTHORIZATION, "****")
			}

			logger := logger.
				With().
				Str(constants.KEY_REQUEST_ID, requestID).
				Dict(constants.KEY_REQUEST, zerolog.Dict().
					Any(constants.KEY_HEADER, header).
					Str(constants.KEY_REQUEST_HOST, r.Host).
					Str(constants.KEY_REQUEST_IP, r.RemoteAddr).
					Str(constants.KEY_REQUEST_METHOD, r.Method).
					Str(constants.KEY_REQUEST_URI, r.RequestURI).
					Any(constants.KEY_BODY, maskBody(raw))).
				Str(constants.KEY_TAG, "middleware Logging").Logger()

			logger.Trace().Msg("attaching request value to context")
			c = log.AttachRequestIDToContext(c, requestID)
			c = logger.WithContext(c)
			r = r.WithContext(c)
			w.Header().Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
			logger.Trace().Msg("attached request value to context")

			logger.Info().Msg("handling request")
			next.ServeHTTP(w, r)
		})
	}
}

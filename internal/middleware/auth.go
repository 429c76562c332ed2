package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/otel"
)

// Authenticate requires a valid access token and attaches its claims to the request
// context.
func Authenticate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Authenticate")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "middleware Authenticate").Logger()

			logger = logger.With().Str(constants.KEY_PROCESS, "reading authorization header").Logger()
			logger.Trace().Msg("reading authorization header")
			authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
			scheme, token, found := strings.Cut(authorization, " ")
			if authorization == "" || !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				err := fmt.Errorf("failed reading authorization header with error=%w", inErrors.ErrEmptyAuth)
				otel.RecordError(err, span)
				logger.Info().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, err)
				return
			}
			logger.Trace().Msg("read authorization header")

			logger = logger.With().Str(constants.KEY_PROCESS, "verifying token").Logger()
			logger.Trace().Msg("verifying token")
			claims, err := tokens.VerifyToken(c, token, constants.AUDIENCE_ACCESS)
			if err != nil {
				err = fmt.Errorf("failed verifying token with error=%w", err)
				otel.RecordError(err, span)
				logger.Info().Err(err).Msg(err.Error())
				inHttp.WriteErrorResponse(c, w, err)
				return
			}
			logger = logger.With().
				Str(constants.KEY_USER_ID, claims.Subject).
				Str(constants.KEY_ROLE, claims.Role).
				Logger()
			logger.Trace().Msg("verified token")

			c = auth.AttachClaims(c, claims)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := otel.Tracer.Start(r.Context(), "middleware RequireAdmin")
		defer span.End()

		logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "middleware RequireAdmin").Logger()

		claims, ok := auth.ClaimsFromContext(c)
		if !ok {
			err := fmt.Errorf("failed reading claims with error=%w", inErrors.ErrEmptyAuth)
			otel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			inHttp.WriteErrorResponse(c, w, err)
			return
		}
		if claims.Role != auth.RoleAdmin {
			err := fmt.Errorf("failed checking role=%s with error=%w", claims.Role, inErrors.ErrForbidden)
			otel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			inHttp.WriteErrorResponse(c, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(c))
	})
}

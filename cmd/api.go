package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	addressCmd "github.com/Alturino/dailycoffee/address/cmd"
	adminCmd "github.com/Alturino/dailycoffee/admin/cmd"
	cartCmd "github.com/Alturino/dailycoffee/cart/cmd"
	"github.com/Alturino/dailycoffee/internal/auth"
	"github.com/Alturino/dailycoffee/internal/config"
	"github.com/Alturino/dailycoffee/internal/constants"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/infra"
	"github.com/Alturino/dailycoffee/internal/log"
	"github.com/Alturino/dailycoffee/internal/middleware"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/repository"
	orderCmd "github.com/Alturino/dailycoffee/order/cmd"
	productCmd "github.com/Alturino/dailycoffee/product/cmd"
	reviewCmd "github.com/Alturino/dailycoffee/review/cmd"
	userCmd "github.com/Alturino/dailycoffee/user/cmd"
)

const shutdownTimeout = 10 * time.Second

func healthz(pool *pgxpool.Pool, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := r.Context()
		err := pool.Ping(c)
		if err == nil {
			err = cache.Ping(c).Err()
		}
		if err != nil {
			zerolog.Ctx(c).Warn().Err(err).Msg("health check failed")
			inHttp.WriteJsonResponse(c, w, http.StatusServiceUnavailable, nil, map[string]interface{}{
				"success": false,
				"error":   "unavailable",
			})
			return
		}
		inHttp.WriteSuccess(c, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NewRouter serves every storefront route plus /metrics and /healthz.
func NewRouter(
	c context.Context,
	logger zerolog.Logger,
	pool *pgxpool.Pool,
	cache *redis.Client,
	tokens *auth.TokenManager,
) *mux.Router {
	queries := repository.New(pool)
	authenticate := middleware.Authenticate(tokens)

	router := mux.NewRouter()
	router.Use(otelmux.Middleware(constants.APP_API_SERVICE), middleware.Logging(logger), middleware.RecoverPanic)
	router.Handle("/metrics", otelhttp.NewHandler(promhttp.Handler(), "metrics")).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthz(pool, cache)).Methods(http.MethodGet)
	userCmd.AttachUserService(c, router, queries, tokens, authenticate)
	reviewCmd.AttachReviewService(c, router, queries, authenticate)
	productCmd.AttachProductService(c, router, queries, cache)
	cartCmd.AttachCartService(c, router, pool, queries, authenticate)
	orderCmd.AttachOrderService(c, router, pool, queries, cache, authenticate)
	addressCmd.AttachAddressService(c, router, pool, queries, authenticate)
	adminCmd.AttachAdminService(c, router, pool, queries, cache, authenticate)

	return router
}

func RunApiService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunApiService")
	defer span.End()

	bootLogger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "initializing config").Logger()
	bootLogger.Info().Msg("initializing config")
	cfg := config.Get(bootLogger.WithContext(c), constants.APP_API_SERVICE)
	bootLogger.Info().Msg("initialized config")

	logger := log.Get(filepath.Join(cfg.LogPath, constants.APP_API_SERVICE+".log"), cfg.Application).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_API_SERVICE).
		Str(constants.KEY_TAG, "main RunApiService").
		Logger()
	inHttp.SetProduction(cfg.IsProduction())

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := otel.InitOtelSdk(c, constants.APP_API_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized otel sdk")
	defer func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "shutting down otel").Logger()
		logger.Info().Msg("shutting down otel")
		c, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
		defer cancel()
		err := otel.ShutdownOtel(c, shutdownFuncs)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	pool, err := infra.NewDatabaseClient(c, cfg.Database)
	if err != nil {
		err = fmt.Errorf("failed initializing database with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized database")
	defer func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "shutting down database connection").Logger()
		logger.Info().Msg("shutting down database connection")
		pool.Close()
		logger.Info().Msg("shutdown database connection")
	}()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache, err := infra.NewCacheClient(c, cfg.Cache)
	if err != nil {
		err = fmt.Errorf("failed initializing cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized cache")
	defer func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "shutting down cache connection").Logger()
		logger.Info().Msg("shutting down cache connection")
		err := cache.Close()
		if err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache connection")
	}()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	c = logger.WithContext(c)
	router := NewRouter(c, logger, pool, cache, auth.NewTokenManager(cfg.SecretKey, cfg.Auth))
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	c = logger.WithContext(c)
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	logger.Info().Msg("initialized server")

	serverErr := make(chan error, 1)
	go func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("encounter error=%w while running server", err)
		}
		close(serverErr)
	}()

	select {
	case <-c.Done():
		logger = logger.With().Str(constants.KEY_PROCESS, "shutdown server").Logger()
		logger.Info().Msg("received interuption signal shutting down")
	case err := <-serverErr:
		logger = logger.With().Str(constants.KEY_PROCESS, "shutdown server").Logger()
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("shutdown server")
}

// Package cache stores JSON snapshots and idempotency claims in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Alturino/dailycoffee/internal/constants"
	"github.com/Alturino/dailycoffee/internal/metrics"
	inOtel "github.com/Alturino/dailycoffee/internal/otel"
)

const (
	KEY_PRODUCT     = "product:%s"
	KEY_ORDER       = "order:%s"
	KEY_IDEMPOTENCY = "idempotency:order:%s:%s"

	ProductTTL     = 30 * time.Minute
	OrderTTL       = 10 * time.Minute
	IdempotencyTTL = 24 * time.Hour

	idempotencyPending = "PENDING"
	claimAttempts      = 2
)

var ErrCacheMiss = errors.New("cache miss")

func ProductKey(id fmt.Stringer) string {
	return fmt.Sprintf(KEY_PRODUCT, id)
}

func OrderKey(id fmt.Stringer) string {
	return fmt.Sprintf(KEY_ORDER, id)
}

func IdempotencyKey(userID fmt.Stringer, key string) string {
	return fmt.Sprintf(KEY_IDEMPOTENCY, userID, key)
}

// GetJSON returns ErrCacheMiss when the key does not exist. entity labels the lookup
// metric.
func GetJSON[T any](c context.Context, client *redis.Client, entity string, key string) (T, error) {
	c, span := inOtel.Tracer.Start(c, "cache GetJSON")
	defer span.End()

	var value T
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache GetJSON").
		Str(constants.KEY_CACHE_KEY, key).
		Str(constants.KEY_PROCESS, "getting cache").
		Logger()

	logger.Trace().Msg("getting cache")
	raw, err := client.Get(c, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues(entity, "miss").Inc()
		logger.Trace().Msg("cache miss")
		return value, ErrCacheMiss
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues(entity, "error").Inc()
		err = fmt.Errorf("failed getting cache key=%s with error=%w", key, err)
		inOtel.RecordError(err, span, attribute.String("cache.entity", entity))
		logger.Error().Err(err).Msg(err.Error())
		return value, err
	}

	err = json.Unmarshal(raw, &value)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(entity, "error").Inc()
		err = fmt.Errorf("failed unmarshaling cache key=%s with error=%w", key, err)
		inOtel.RecordError(err, span, attribute.String("cache.entity", entity))
		logger.Error().Err(err).Msg(err.Error())
		return value, err
	}
	metrics.CacheLookups.WithLabelValues(entity, "hit").Inc()
	logger.Trace().Msg("got cache")

	return value, nil
}

func SetJSON(c context.Context, client *redis.Client, key string, value any, ttl time.Duration) error {
	c, span := inOtel.Tracer.Start(c, "cache SetJSON")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache SetJSON").
		Str(constants.KEY_CACHE_KEY, key).
		Str(constants.KEY_PROCESS, "setting cache").
		Logger()

	logger.Trace().Msg("setting cache")
	raw, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("failed marshaling cache key=%s with error=%w", key, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	err = client.Set(c, key, raw, ttl).Err()
	if err != nil {
		err = fmt.Errorf("failed setting cache key=%s with error=%w", key, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("set cache")

	return nil
}

// SetJSONIfAbsent never overwrites an existing entry, so a read-through fill cannot replace
// a value written by an update. It reports whether value was stored.
func SetJSONIfAbsent(c context.Context, client *redis.Client, key string, value any, ttl time.Duration) (bool, error) {
	c, span := inOtel.Tracer.Start(c, "cache SetJSONIfAbsent")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache SetJSONIfAbsent").
		Str(constants.KEY_CACHE_KEY, key).
		Str(constants.KEY_PROCESS, "setting cache if absent").
		Logger()

	logger.Trace().Msg("setting cache if absent")
	raw, err := json.Marshal(value)
	if err != nil {
		err = fmt.Errorf("failed marshaling cache key=%s with error=%w", key, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	stored, err := client.SetNX(c, key, raw, ttl).Result()
	if err != nil {
		err = fmt.Errorf("failed setting cache key=%s with error=%w", key, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return false, err
	}
	logger.Trace().Bool("stored", stored).Msg("set cache if absent")

	return stored, nil
}

func Delete(c context.Context, client *redis.Client, keys ...string) error {
	c, span := inOtel.Tracer.Start(c, "cache Delete")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache Delete").
		Strs(constants.KEY_CACHE_KEY, keys).
		Str(constants.KEY_PROCESS, "deleting cache").
		Logger()

	logger.Trace().Msg("deleting cache")
	err := client.Del(c, keys...).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cache with error=%w", err)
		inOtel.RecordError(err, span, attribute.StringSlice(constants.KEY_CACHE_KEY, keys))
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("deleted cache")

	return nil
}

// Claim is the state of an idempotency key after ClaimIdempotencyKey.
type Claim struct {
	// Claimed is true when this caller now owns the key.
	Claimed bool
	// OrderID holds the order created by an earlier request, empty while that request is
	// still running.
	OrderID string
}

// ClaimIdempotencyKey makes at most claimAttempts SETNX attempts. A key released by its
// owner between SETNX and GET on every attempt is reported as still in progress.
func ClaimIdempotencyKey(c context.Context, client *redis.Client, key string) (Claim, error) {
	c, span := inOtel.Tracer.Start(c, "cache ClaimIdempotencyKey")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache ClaimIdempotencyKey").
		Str(constants.KEY_IDEMPOTENCY, key).
		Logger()

	for attempt := 1; attempt <= claimAttempts; attempt++ {
		logger := logger.With().
			Int("attempt", attempt).
			Str(constants.KEY_PROCESS, "claiming idempotency key").
			Logger()

		logger.Info().Msg("claiming idempotency key")
		claimed, err := client.SetNX(c, key, idempotencyPending, IdempotencyTTL).Result()
		if err != nil {
			err = fmt.Errorf("failed claiming idempotency key with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Claim{}, err
		}
		if claimed {
			logger.Info().Msg("claimed idempotency key")
			return Claim{Claimed: true}, nil
		}

		logger = logger.With().Str(constants.KEY_PROCESS, "reading claimed idempotency key").Logger()
		logger.Info().Msg("reading claimed idempotency key")
		value, err := client.Get(c, key).Result()
		if errors.Is(err, redis.Nil) {
			logger.Info().Msg("idempotency key released before reading")
			continue
		}
		if err != nil {
			err = fmt.Errorf("failed reading idempotency key with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Claim{}, err
		}
		if value == idempotencyPending {
			logger.Info().Msg("idempotency key still in progress")
			return Claim{}, nil
		}
		logger.Info().Str(constants.KEY_ORDER_ID, value).Msg("idempotency key already completed")

		return Claim{OrderID: value}, nil
	}
	logger.Info().Msg("idempotency key kept changing, reporting it in progress")

	return Claim{}, nil
}

func CompleteIdempotencyKey(c context.Context, client *redis.Client, key string, orderID string) error {
	c, span := inOtel.Tracer.Start(c, "cache CompleteIdempotencyKey")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "cache CompleteIdempotencyKey").
		Str(constants.KEY_IDEMPOTENCY, key).
		Str(constants.KEY_ORDER_ID, orderID).
		Str(constants.KEY_PROCESS, "completing idempotency key").
		Logger()

	logger.Info().Msg("completing idempotency key")
	err := client.Set(c, key, orderID, IdempotencyTTL).Err()
	if err != nil {
		err = fmt.Errorf("failed completing idempotency key with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("completed idempotency key")

	return nil
}

// ReleaseIdempotencyKey frees a key whose request failed so that a retry can run.
func ReleaseIdempotencyKey(c context.Context, client *redis.Client, key string) error {
	return Delete(c, client, key)
}

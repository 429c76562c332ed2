package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/cache"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/metrics"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/pricing"
	"github.com/Alturino/dailycoffee/internal/repository"
	inOtel "github.com/Alturino/dailycoffee/order/internal/otel"
	"github.com/Alturino/dailycoffee/order/pkg/request"
	"github.com/Alturino/dailycoffee/order/pkg/response"
)

const (
	rejectedEmptyCart  = "empty_cart"
	rejectedOutOfStock = "out_of_stock"
)

type OrderService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewOrderService(pool *pgxpool.Pool, queries *repository.Queries, cache *redis.Client) *OrderService {
	return &OrderService{pool: pool, queries: queries, cache: cache}
}

// CreateOrder turns the caller's cart into an order. When idempotencyKey is not empty a
// repeated request returns the order created by the first one.
func (s *OrderService) CreateOrder(
	c context.Context,
	userID uuid.UUID,
	idempotencyKey string,
	param request.CreateOrder,
) (response.Order, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService CreateOrder").
		Str(constants.KEY_USER_ID, userID.String()).
		Object(constants.KEY_REQUEST, param).
		Logger()

	if idempotencyKey == "" {
		c = logger.WithContext(c)
		orderID, err := s.placeOrder(c, userID, param)
		if err != nil {
			otel.RecordError(err, span)
			return response.Order{}, err
		}
		return s.FindOrderById(c, userID, orderID)
	}

	key := cache.IdempotencyKey(userID, idempotencyKey)
	logger = logger.With().
		Str(constants.KEY_IDEMPOTENCY, key).
		Str(constants.KEY_PROCESS, "claiming idempotency key").
		Logger()
	logger.Info().Msg("claiming idempotency key")
	claim, err := cache.ClaimIdempotencyKey(c, s.cache, key)
	if err != nil {
		err = fmt.Errorf("failed claiming idempotency key with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if !claim.Claimed {
		if claim.OrderID == "" {
			err = fmt.Errorf("failed claiming idempotency key with error=%w", inErrors.ErrOrderInProgress)
			otel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		orderID, err := uuid.Parse(claim.OrderID)
		if err != nil {
			err = fmt.Errorf("failed parsing stored orderId with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		logger.Info().Str(constants.KEY_ORDER_ID, claim.OrderID).Msg("replaying order of idempotency key")
		c = logger.WithContext(c)
		return s.FindOrderById(c, userID, orderID)
	}
	logger.Info().Msg("claimed idempotency key")

	c = logger.WithContext(c)
	orderID, err := s.placeOrder(c, userID, param)
	if err != nil {
		if releaseErr := cache.ReleaseIdempotencyKey(c, s.cache, key); releaseErr != nil {
			logger.Error().Err(releaseErr).Msg("failed releasing idempotency key")
		}
		otel.RecordError(err, span)
		return response.Order{}, err
	}

	// the order is committed, a retry must replay it even if reading it back fails
	err = cache.CompleteIdempotencyKey(c, s.cache, key, orderID.String())
	if err != nil {
		logger.Error().Err(err).Msg("failed completing idempotency key")
	}

	return s.FindOrderById(c, userID, orderID)
}

// placeOrder runs the checkout transaction and returns the id of the committed order.
func (s *OrderService) placeOrder(
	c context.Context,
	userID uuid.UUID,
	param request.CreateOrder,
) (uuid.UUID, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService placeOrder")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "OrderService placeOrder").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Info().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	defer func() {
		err := tx.Rollback(c)
		if err == nil {
			logger.Info().Msg("rolled back transaction")
			return
		}
		if !errors.Is(err, pgx.ErrTxClosed) {
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
		}
	}()
	qtx := s.queries.WithTx(tx)
	logger.Info().Msg("initialized transaction")

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	logger.Info().Msg("locking cart")
	cart, err := qtx.FindCartByUserIdForUpdate(c, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.OrdersRejected.WithLabelValues(rejectedEmptyCart).Inc()
		err = fmt.Errorf("failed locking cart with error=%w", inErrors.ErrCartEmpty)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	if err != nil {
		err = fmt.Errorf("failed locking cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Info().Msg("locked cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items").Logger()
	logger.Info().Msg("finding cart items")
	items, err := qtx.FindCartItems(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	if len(items) == 0 {
		metrics.OrdersRejected.WithLabelValues(rejectedEmptyCart).Inc()
		err = fmt.Errorf("failed finding cart items with error=%w", inErrors.ErrCartEmpty)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Info().Int("count", len(items)).Msg("found cart items")

	logger = logger.With().Str(constants.KEY_PROCESS, "checking stock and pricing items").Logger()
	logger.Info().Msg("checking stock and pricing items")
	lines := make([]pricing.Line, 0, len(items))
	orderItems := make([]repository.InsertOrderItemParams, 0, len(items))
	for _, item := range items {
		if !item.ProductIsActive || item.CartItem.Quantity > item.ProductStock {
			metrics.OrdersRejected.WithLabelValues(rejectedOutOfStock).Inc()
			err = fmt.Errorf(
				"failed checking stock of productId=%s with error=%w",
				item.CartItem.ProductID.String(),
				inErrors.ErrOutOfStock,
			)
			otel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return uuid.Nil, err
		}
		unitPrice := item.UnitPrice()
		lines = append(lines, pricing.Line{UnitPrice: unitPrice, Quantity: item.CartItem.Quantity})
		orderItems = append(orderItems, repository.InsertOrderItemParams{
			ProductID:       item.CartItem.ProductID,
			Quantity:        item.CartItem.Quantity,
			Price:           repository.NumericFromDecimal(unitPrice),
			SelectedOptions: item.CartItem.SelectedOptions,
		})
	}
	totals := pricing.Compute(lines)
	logger.Info().
		Str("subtotal", totals.Subtotal.String()).
		Str("shippingFee", totals.ShippingFee.String()).
		Str("total", totals.Total.String()).
		Msg("checked stock and priced items")

	shippingAddress, err := json.Marshal(param.ShippingAddress)
	if err != nil {
		err = fmt.Errorf("failed marshaling shipping address with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order").Logger()
	logger.Info().Msg("inserting order")
	order, err := qtx.InsertOrder(c, repository.InsertOrderParams{
		UserID:          userID,
		ShippingAddress: shippingAddress,
		PaymentMethod:   param.PaymentMethod,
		TotalAmount:     repository.NumericFromDecimal(totals.Total),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, order.ID.String()).Logger()
	logger.Info().Msg("inserted order")

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order items").Logger()
	logger.Info().Msg("inserting order items")
	inserted, err := qtx.InsertOrderItem(c, orderItems)
	if err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Info().Int64("count", inserted).Msg("inserted order items")

	logger = logger.With().Str(constants.KEY_PROCESS, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	_, err = qtx.DeleteCartItemsByCartId(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Info().Msg("cleared cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return uuid.Nil, err
	}
	logger.Info().Msg("committed transaction")
	metrics.OrdersPlaced.Inc()

	return order.ID, nil
}

func (s *OrderService) cacheOrder(c context.Context, order response.Order) {
	cacheKey := cache.OrderKey(order.ID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Str(constants.KEY_PROCESS, "caching order").
		Logger()

	logger.Info().Msg("caching order")
	stored, err := cache.SetJSONIfAbsent(c, s.cache, cacheKey, order, cache.OrderTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed caching order")
		return
	}
	if !stored {
		logger.Info().Msg("order already cached")
		return
	}
	logger.Info().Msg("cached order")
}

func (s *OrderService) FindOrders(
	c context.Context,
	userID uuid.UUID,
	pagination inHttp.Pagination,
) ([]response.Order, inHttp.Meta, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrders").
		Str(constants.KEY_USER_ID, userID.String()).
		Any(constants.KEY_PAGINATION, pagination).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	rows, err := s.queries.FindOrdersByUserId(c, repository.FindOrdersByUserIdParams{
		UserID: userID,
		Limit:  pagination.Limit,
		Offset: pagination.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int("count", len(rows)).Msg("found orders")

	logger = logger.With().Str(constants.KEY_PROCESS, "counting orders").Logger()
	logger.Info().Msg("counting orders")
	total, err := s.queries.CountOrdersByUserId(c, userID)
	if err != nil {
		err = fmt.Errorf("failed counting orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int64("total", total).Msg("counted orders")

	logger = logger.With().Str(constants.KEY_PROCESS, "mapping orders").Logger()
	orders := make([]response.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping orderId=%s with error=%w", row.Order.ID.String(), err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, inHttp.Meta{}, err
		}
		order.Buyer = nil
		orders = append(orders, order)
	}

	return orders, pagination.Meta(total), nil
}

// FindOrderById returns the order only when it belongs to userID. Orders of other users
// are reported as not found.
func (s *OrderService) FindOrderById(c context.Context, userID uuid.UUID, orderID uuid.UUID) (response.Order, error) {
	c, span := inOtel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	cacheKey := cache.OrderKey(orderID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrderById").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_ORDER_ID, orderID.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order in cache").Logger()
	logger.Info().Msg("finding order in cache")
	cached, err := cache.GetJSON[response.Order](c, s.cache, constants.KEY_ORDER, cacheKey)
	switch {
	case err == nil && cached.UserID == userID:
		logger.Info().Msg("found order in cache")
		return cached, nil
	case err == nil:
		err = fmt.Errorf("failed finding order in cache with error=%w", inErrors.ErrOrderNotFound)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	case errors.Is(err, cache.ErrCacheMiss):
		logger.Info().Msg("order not found in cache")
	default:
		logger.Warn().Err(err).Msg("failed finding order in cache, falling back to database")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order in database").Logger()
	logger.Info().Msg("finding order in database")
	row, err := s.queries.FindOrderByIdAndUserId(c, repository.FindOrderByIdAndUserIdParams{
		ID:     orderID,
		UserID: userID,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrOrderNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding order in database with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	res, err := row.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	res.Buyer = nil
	logger.Info().Msg("found order in database")

	s.cacheOrder(c, res)

	return res, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	inOtel "github.com/Alturino/dailycoffee/cart/internal/otel"
	"github.com/Alturino/dailycoffee/cart/pkg/request"
	"github.com/Alturino/dailycoffee/cart/pkg/response"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/repository"
)

type CartService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
}

func NewCartService(pool *pgxpool.Pool, queries *repository.Queries) *CartService {
	return &CartService{pool: pool, queries: queries}
}

func (s *CartService) loadCart(c context.Context, queries *repository.Queries, cart repository.Cart) (response.Cart, error) {
	items, err := queries.FindCartItems(c, cart.ID)
	if err != nil {
		return response.Cart{}, fmt.Errorf("failed finding cart items with error=%w", err)
	}
	return cart.Response(items), nil
}

// GetCart returns the caller's cart, creating an empty one on first use.
func (s *CartService) GetCart(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService GetCart").
		Str(constants.KEY_USER_ID, userID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart").Logger()
	logger.Info().Msg("upserting cart")
	cart, err := s.queries.UpsertCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Info().Msg("upserted cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "loading cart items").Logger()
	logger.Info().Msg("loading cart items")
	res, err := s.loadCart(c, s.queries, cart)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Int("items", len(res.Items)).Msg("loaded cart items")

	return res, nil
}

// AddItem merges the item into an existing row holding the same product and option
// selection, or inserts a new row.
func (s *CartService) AddItem(c context.Context, userID uuid.UUID, param request.AddCartItem) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService AddItem").
		Str(constants.KEY_USER_ID, userID.String()).
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := s.queries.FindProductById(c, param.ProductID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !product.Product.IsActive) {
		err = inErrors.ErrProductNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("found product")

	logger = logger.With().Str(constants.KEY_PROCESS, "starting transaction").Logger()
	logger.Info().Msg("starting transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed starting transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	defer func() {
		err := tx.Rollback(c)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Error().Err(err).Msg("failed rolling back transaction")
		}
	}()
	qtx := s.queries.WithTx(tx)
	logger.Info().Msg("started transaction")

	logger = logger.With().Str(constants.KEY_PROCESS, "locking cart").Logger()
	logger.Info().Msg("locking cart")
	cart, err := qtx.UpsertCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed locking cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger = logger.With().Str(constants.KEY_CART_ID, cart.ID.String()).Logger()
	logger.Info().Msg("locked cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding item with the same selection").Logger()
	logger.Info().Msg("finding item with the same selection")
	existing, err := qtx.FindCartItemBySelection(c, repository.FindCartItemBySelectionParams{
		CartID:          cart.ID,
		ProductID:       param.ProductID,
		SelectedOptions: param.SelectedOptions,
	})
	switch {
	case err == nil:
		logger = logger.With().
			Str(constants.KEY_CART_ITEM_ID, existing.ID.String()).
			Str(constants.KEY_PROCESS, "incrementing item quantity").
			Logger()
		logger.Info().Msg("incrementing item quantity")
		_, err = qtx.IncrementCartItemQuantity(c, repository.IncrementCartItemQuantityParams{
			ID:       existing.ID,
			Quantity: param.Quantity,
		})
	case errors.Is(err, pgx.ErrNoRows):
		logger = logger.With().Str(constants.KEY_PROCESS, "inserting item").Logger()
		logger.Info().Msg("inserting item")
		_, err = qtx.InsertCartItem(c, repository.InsertCartItemParams{
			CartID:          cart.ID,
			ProductID:       param.ProductID,
			Quantity:        param.Quantity,
			SelectedOptions: param.SelectedOptions,
		})
	}
	if err == nil {
		err = qtx.TouchCart(c, cart.ID)
	}
	if err != nil {
		err = fmt.Errorf("failed adding item with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("added item")

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Info().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("committed transaction")

	res, err := s.loadCart(c, s.queries, cart)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	return res, nil
}

// UpdateItem sets the quantity of an item in the caller's cart. A quantity of zero or
// less removes the item.
func (s *CartService) UpdateItem(
	c context.Context,
	userID uuid.UUID,
	itemID uuid.UUID,
	quantity int32,
) (response.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(c, userID, itemID)
	}

	c, span := inOtel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService UpdateItem").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_CART_ITEM_ID, itemID.String()).
		Int32("quantity", quantity).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart").Logger()
	logger.Info().Msg("upserting cart")
	cart, err := s.queries.UpsertCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("upserted cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating item quantity").Logger()
	logger.Info().Msg("updating item quantity")
	_, err = s.queries.UpdateCartItemQuantity(c, repository.UpdateCartItemQuantityParams{
		ID:       itemID,
		CartID:   cart.ID,
		Quantity: quantity,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrCartItemNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed updating item quantity with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("updated item quantity")

	res, err := s.loadCart(c, s.queries, cart)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	return res, nil
}

func (s *CartService) RemoveItem(c context.Context, userID uuid.UUID, itemID uuid.UUID) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService RemoveItem").
		Str(constants.KEY_USER_ID, userID.String()).
		Str(constants.KEY_CART_ITEM_ID, itemID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart").Logger()
	logger.Info().Msg("upserting cart")
	cart, err := s.queries.UpsertCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("upserted cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting item").Logger()
	logger.Info().Msg("deleting item")
	deleted, err := s.queries.DeleteCartItem(c, repository.DeleteCartItemParams{ID: itemID, CartID: cart.ID})
	if err == nil && deleted == 0 {
		err = inErrors.ErrCartItemNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed deleting item with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("deleted item")

	res, err := s.loadCart(c, s.queries, cart)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	return res, nil
}

func (s *CartService) Clear(c context.Context, userID uuid.UUID) (response.Cart, error) {
	c, span := inOtel.Tracer.Start(c, "CartService Clear")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartService Clear").
		Str(constants.KEY_USER_ID, userID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "upserting cart").Logger()
	logger.Info().Msg("upserting cart")
	cart, err := s.queries.UpsertCart(c, userID)
	if err != nil {
		err = fmt.Errorf("failed upserting cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msg("upserted cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting cart items").Logger()
	logger.Info().Msg("deleting cart items")
	deleted, err := s.queries.DeleteCartItemsByCartId(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed deleting cart items with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Int64("deleted", deleted).Msg("deleted cart items")

	return cart.Response(nil), nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inOtel "github.com/Alturino/dailycoffee/admin/internal/otel"
	"github.com/Alturino/dailycoffee/internal/cache"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/metrics"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/validate"
	orderResponse "github.com/Alturino/dailycoffee/order/pkg/response"
	productRequest "github.com/Alturino/dailycoffee/product/pkg/request"
	productResponse "github.com/Alturino/dailycoffee/product/pkg/response"
	userResponse "github.com/Alturino/dailycoffee/user/pkg/response"
)

const pgForeignKeyViolation = "23503"

type AdminService struct {
	pool    *pgxpool.Pool
	queries *repository.Queries
	cache   *redis.Client
}

func NewAdminService(pool *pgxpool.Pool, queries *repository.Queries, cache *redis.Client) *AdminService {
	return &AdminService{pool: pool, queries: queries, cache: cache}
}

func (s *AdminService) withTx(c context.Context, fn func(qtx *repository.Queries) error) error {
	logger := zerolog.Ctx(c)

	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed initializing transaction with error=%w", err)
	}
	defer func() {
		err := tx.Rollback(c)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Error().Err(err).Msg("failed rolling back transaction")
		}
	}()

	err = fn(s.queries.WithTx(tx))
	if err != nil {
		return err
	}

	err = tx.Commit(c)
	if err != nil {
		return fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return nil
}

// categoryError maps the only foreign key of products, category_id.
func categoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return inErrors.ErrCategoryNotFound
	}
	return err
}

func replaceImages(c context.Context, qtx *repository.Queries, productID uuid.UUID, images []productRequest.Image) error {
	err := qtx.DeleteProductImages(c, productID)
	if err != nil {
		return fmt.Errorf("failed deleting product images with error=%w", err)
	}
	for i, image := range images {
		_, err = qtx.InsertProductImage(c, repository.InsertProductImageParams{
			ProductID: productID,
			Url:       image.Url,
			Alt:       repository.TextFromString(image.Alt),
			IsPrimary: image.IsPrimary,
			SortOrder: int32(i),
		})
		if err != nil {
			return fmt.Errorf("failed inserting product image with error=%w", err)
		}
	}
	return nil
}

func replaceOptions(c context.Context, qtx *repository.Queries, productID uuid.UUID, options []productRequest.Option) error {
	err := qtx.DeleteProductOptions(c, productID)
	if err != nil {
		return fmt.Errorf("failed deleting product options with error=%w", err)
	}
	for _, option := range options {
		_, err = qtx.InsertProductOption(c, repository.InsertProductOptionParams{
			ProductID:     productID,
			Kind:          option.Kind,
			Value:         option.Value,
			PriceModifier: repository.NumericFromDecimal(option.PriceModifier),
		})
		if err != nil {
			return fmt.Errorf("failed inserting product option with error=%w", err)
		}
	}
	return nil
}

// productDetail loads a product with its images and options regardless of whether it is
// active.
func (s *AdminService) productDetail(c context.Context, productID uuid.UUID) (productResponse.Product, error) {
	row, err := s.queries.FindProductById(c, productID)
	if errors.Is(err, pgx.ErrNoRows) {
		return productResponse.Product{}, inErrors.ErrProductNotFound
	}
	if err != nil {
		return productResponse.Product{}, fmt.Errorf("failed finding product with error=%w", err)
	}
	product := row.Response()

	images, err := s.queries.FindProductImages(c, productID)
	if err != nil {
		return productResponse.Product{}, fmt.Errorf("failed finding product images with error=%w", err)
	}
	product.Images = make([]productResponse.Image, 0, len(images))
	for _, image := range images {
		product.Images = append(product.Images, image.Response())
	}

	options, err := s.queries.FindProductOptions(c, productID)
	if err != nil {
		return productResponse.Product{}, fmt.Errorf("failed finding product options with error=%w", err)
	}
	product.Options = make([]productResponse.Option, 0, len(options))
	for _, option := range options {
		product.Options = append(product.Options, option.Response())
	}
	return product, nil
}

func (s *AdminService) FindProducts(
	c context.Context,
	pagination inHttp.Pagination,
) ([]productResponse.Product, inHttp.Meta, error) {
	c, span := inOtel.Tracer.Start(c, "AdminService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminService FindProducts").
		Any(constants.KEY_PAGINATION, pagination).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products").Logger()
	logger.Info().Msg("finding products")
	rows, err := s.queries.FindAllProducts(c, repository.FindAllProductsParams{
		Limit:  pagination.Limit,
		Offset: pagination.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int("count", len(rows)).Msg("found products")

	logger = logger.With().Str(constants.KEY_PROCESS, "counting products").Logger()
	logger.Info().Msg("counting products")
	total, err := s.queries.CountAllProducts(c)
	if err != nil {
		err = fmt.Errorf("failed counting products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int64("total", total).Msg("counted products")

	products := make([]productResponse.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Response())
	}
	return products, pagination.Meta(total), nil
}

func (s *AdminService) CreateProduct(
	c context.Context,
	param productRequest.Product,
) (productResponse.Product, error) {
	c, span := inOtel.Tracer.Start(c, "AdminService CreateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminService CreateProduct").
		Object(constants.KEY_REQUEST, param).
		Logger()

	isActive := true
	if param.IsActive != nil {
		isActive = *param.IsActive
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	var productID uuid.UUID
	err := s.withTx(c, func(qtx *repository.Queries) error {
		product, err := qtx.InsertProduct(c, repository.InsertProductParams{
			CategoryID:    param.CategoryID,
			Name:          param.Name,
			Slug:          param.Slug,
			Description:   repository.TextFromString(param.Description),
			Price:         repository.NumericFromDecimal(param.Price),
			DiscountPrice: repository.NumericFromNullDecimal(param.DiscountPrice),
			Stock:         param.Stock,
			Tags:          param.Tags,
			IsActive:      isActive,
			IsFeatured:    param.IsFeatured,
		})
		if err != nil {
			return fmt.Errorf("failed inserting product with error=%w", categoryError(err))
		}
		productID = product.ID

		err = replaceImages(c, qtx, productID, param.Images)
		if err != nil {
			return err
		}
		return replaceOptions(c, qtx, productID, param.Options)
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	logger = logger.With().Str(constants.KEY_PRODUCT_ID, productID.String()).Logger()
	logger.Info().Msg("inserted product")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := s.productDetail(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	logger.Info().Msg("found product")

	return product, nil
}

// UpdateProduct changes the present fields. Images and options are replaced only when
// the request carries them.
func (s *AdminService) UpdateProduct(
	c context.Context,
	productID uuid.UUID,
	param productRequest.UpdateProduct,
) (productResponse.Product, error) {
	c, span := inOtel.Tracer.Start(c, "AdminService UpdateProduct")
	defer span.End()

	cacheKey := cache.ProductKey(productID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminService UpdateProduct").
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Object(constants.KEY_REQUEST, param).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Info().Msg("updating product")
	err := s.withTx(c, func(qtx *repository.Queries) error {
		_, err := qtx.UpdateProduct(c, repository.UpdateProductParams{
			ID:            productID,
			CategoryID:    repository.NullUUIDFromPointer(param.CategoryID),
			Name:          repository.TextFromPointer(param.Name),
			Slug:          repository.TextFromPointer(param.Slug),
			Description:   repository.TextFromPointer(param.Description),
			Price:         repository.NumericFromNullDecimal(param.Price),
			ClearDiscount: param.ClearDiscount,
			DiscountPrice: repository.NumericFromNullDecimal(param.DiscountPrice),
			Stock:         repository.Int4FromPointer(param.Stock),
			Tags:          param.Tags,
			IsActive:      repository.BoolFromPointer(param.IsActive),
			IsFeatured:    repository.BoolFromPointer(param.IsFeatured),
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return inErrors.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed updating product with error=%w", categoryError(err))
		}

		if param.Images != nil {
			err = replaceImages(c, qtx, productID, param.Images)
			if err != nil {
				return err
			}
		}
		if param.Options != nil {
			err = replaceOptions(c, qtx, productID, param.Options)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed updating product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	logger.Info().Msg("updated product")

	logger = logger.With().Str(constants.KEY_PROCESS, "invalidating product cache").Logger()
	logger.Info().Msg("invalidating product cache")
	err = cache.Delete(c, s.cache, cacheKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed invalidating product cache")
	} else {
		logger.Info().Msg("invalidated product cache")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := s.productDetail(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return productResponse.Product{}, err
	}
	logger.Info().Msg("found product")

	return product, nil
}

func (s *AdminService) DeleteProduct(c context.Context, productID uuid.UUID) error {
	c, span := inOtel.Tracer.Start(c, "AdminService DeleteProduct")
	defer span.End()

	cacheKey := cache.ProductKey(productID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminService DeleteProduct").
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "deleting product").Logger()
	logger.Info().Msg("deleting product")
	deleted, err := s.queries.DeleteProduct(c, productID)
	if err == nil && deleted == 0 {
		err = inErrors.ErrProductNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed deleting product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted product")

	logger = logger.With().Str(constants.KEY_PROCESS, "invalidating product cache").Logger()
	logger.Info().Msg("invalidating product cache")
	err = cache.Delete(c, s.cache, cacheKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed invalidating product cache")
	} else {
		logger.Info().Msg("invalidated product cache")
	}
	return nil
}

func parseStatus(status string) (repository.OrderStatus, error) {
	orderStatus := repository.OrderStatus(status)
	if !orderStatus.Valid() {
		return "", validate.NewValidationError("status", fmt.Sprintf("status=%s is not a valid order status", status))
	}
	return orderStatus, nil
}

// FindOrders lists orders of every user, newest first. An empty status lists all of them.
func (s *AdminService) FindOrders(
	c context.Context,
	status string,
	pagination inHttp.Pagination,
) ([]orderResponse.Order, inHttp.Meta, error) {
	c, span := inOtel.Tracer.Start(c, "AdminService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminService FindOrders").
		Str(constants.KEY_ORDER_STATUS, status).
		Any(constants.KEY_PAGINATION, pagination).
		Logger()

	statusFilter := pgtype.Text{}
	if status != "" {
		orderStatus, err := parseStatus(status)
		if err != nil {
			err = fmt.Errorf("failed parsing status with error=%w", err)
			otel.RecordError(err, span)
			logger.Info().Err(err).Msg(err.Error())
			return nil, inHttp.Meta{}, err
		}
		statusFilter = repository.TextFromString(string(orderStatus))
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding orders").Logger()
	logger.Info().Msg("finding orders")
	rows, err := s.queries.FindOrders(c, repository.FindOrdersParams{
		Status: statusFilter,
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
	total, err := s.queries.CountOrders(c, statusFilter)
	if err != nil {
		err = fmt.Errorf("failed counting orders with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int64("total", total).Msg("counted orders")

	orders := make([]orderResponse.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.Response()
		if err != nil {
			err = fmt.Errorf("failed mapping orderId=%s with error=%w", row.Order.ID.String(), err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, inHttp.Meta{}, err
		}
		orders = append(orders, order)
	}
	return orders, pagination.Meta(total), nil
}

// UpdateOrderStatus sets any status of the enum; there is no transition table.
func (s *AdminService) UpdateOrderStatus(
	c context.Context,
	orderID uuid.UUID,
	status string,
) (orderResponse.Order, error) {
	c, span := inOtel.Tracer.Start(c, "AdminService UpdateOrderStatus")
	defer span.End()

	cacheKey := cache.OrderKey(orderID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminService UpdateOrderStatus").
		Str(constants.KEY_ORDER_ID, orderID.String()).
		Str(constants.KEY_ORDER_STATUS, status).
		Logger()

	orderStatus, err := parseStatus(status)
	if err != nil {
		err = fmt.Errorf("failed parsing status with error=%w", err)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating order status").Logger()
	logger.Info().Msg("updating order status")
	_, err = s.queries.UpdateOrderStatus(c, repository.UpdateOrderStatusParams{ID: orderID, Status: orderStatus})
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrOrderNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed updating order status with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return orderResponse.Order{}, err
	}
	metrics.OrderStatusUpdates.WithLabelValues(string(orderStatus)).Inc()
	logger.Info().Msg("updated order status")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order").Logger()
	logger.Info().Msg("finding order")
	row, err := s.queries.FindOrderById(c, orderID)
	if err != nil {
		err = fmt.Errorf("failed finding order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.dropOrderCache(c, cacheKey)
		return orderResponse.Order{}, err
	}
	order, err := row.Response()
	if err != nil {
		err = fmt.Errorf("failed mapping order with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		s.dropOrderCache(c, cacheKey)
		return orderResponse.Order{}, err
	}
	logger.Info().Msg("found order")

	// buyers read this entry, it carries no buyer summary
	cached := order
	cached.Buyer = nil
	logger = logger.With().Str(constants.KEY_PROCESS, "refreshing order cache").Logger()
	logger.Info().Msg("refreshing order cache")
	err = cache.SetJSON(c, s.cache, cacheKey, cached, cache.OrderTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed refreshing order cache")
		s.dropOrderCache(c, cacheKey)
	} else {
		logger.Info().Msg("refreshed order cache")
	}

	return order, nil
}

func (s *AdminService) dropOrderCache(c context.Context, cacheKey string) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Str(constants.KEY_PROCESS, "invalidating order cache").
		Logger()

	logger.Info().Msg("invalidating order cache")
	err := cache.Delete(c, s.cache, cacheKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed invalidating order cache")
		return
	}
	logger.Info().Msg("invalidated order cache")
}

func (s *AdminService) FindUsers(
	c context.Context,
	pagination inHttp.Pagination,
) ([]userResponse.User, inHttp.Meta, error) {
	c, span := inOtel.Tracer.Start(c, "AdminService FindUsers")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "AdminService FindUsers").
		Any(constants.KEY_PAGINATION, pagination).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding users").Logger()
	logger.Info().Msg("finding users")
	users, err := s.queries.FindUsers(c, repository.FindUsersParams{
		Limit:  pagination.Limit,
		Offset: pagination.Offset(),
	})
	if err != nil {
		err = fmt.Errorf("failed finding users with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int("count", len(users)).Msg("found users")

	logger = logger.With().Str(constants.KEY_PROCESS, "counting users").Logger()
	logger.Info().Msg("counting users")
	total, err := s.queries.CountUsers(c)
	if err != nil {
		err = fmt.Errorf("failed counting users with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int64("total", total).Msg("counted users")

	res := make([]userResponse.User, 0, len(users))
	for _, user := range users {
		res = append(res, user.Response())
	}
	return res, pagination.Meta(total), nil
}

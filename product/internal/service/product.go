package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/cache"
	"github.com/Alturino/dailycoffee/internal/constants"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/otel"
	"github.com/Alturino/dailycoffee/internal/repository"
	inOtel "github.com/Alturino/dailycoffee/product/internal/otel"
	"github.com/Alturino/dailycoffee/product/pkg/request"
	"github.com/Alturino/dailycoffee/product/pkg/response"
)

const FeaturedLimit = 8

type ProductService struct {
	queries *repository.Queries
	cache   *redis.Client
}

func NewProductService(queries *repository.Queries, cache *redis.Client) *ProductService {
	return &ProductService{queries: queries, cache: cache}
}

func productResponses(rows []repository.ProductRow) []response.Product {
	products := make([]response.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.Response())
	}
	return products
}

func (s *ProductService) FindProducts(
	c context.Context,
	param request.ListProducts,
	pagination inHttp.Pagination,
) ([]response.Product, inHttp.Meta, error) {
	c, span := inOtel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProducts").
		Object(constants.KEY_REQUEST, param).
		Any(constants.KEY_PAGINATION, pagination).
		Logger()

	categoryID := repository.NullUUIDFromPointer(param.CategoryID)
	search := repository.TextFromString(param.Search)

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products").Logger()
	logger.Info().Msg("finding products")
	rows, err := s.queries.FindProducts(c, repository.FindProductsParams{
		CategoryID: categoryID,
		Search:     search,
		Sort:       param.Sort,
		Limit:      pagination.Limit,
		Offset:     pagination.Offset(),
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
	total, err := s.queries.CountProducts(c, repository.CountProductsParams{
		CategoryID: categoryID,
		Search:     search,
	})
	if err != nil {
		err = fmt.Errorf("failed counting products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, inHttp.Meta{}, err
	}
	logger.Info().Int64("total", total).Msg("counted products")

	return productResponses(rows), pagination.Meta(total), nil
}

func (s *ProductService) FindFeaturedProducts(c context.Context) ([]response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "ProductService FindFeaturedProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindFeaturedProducts").
		Str(constants.KEY_PROCESS, "finding featured products").
		Logger()

	logger.Info().Msg("finding featured products")
	rows, err := s.queries.FindFeaturedProducts(c, FeaturedLimit)
	if err != nil {
		err = fmt.Errorf("failed finding featured products with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(rows)).Msg("found featured products")

	return productResponses(rows), nil
}

// FindProductById returns an active product with its images and options, reading
// through the product cache.
func (s *ProductService) FindProductById(c context.Context, productID uuid.UUID) (response.Product, error) {
	c, span := inOtel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := cache.ProductKey(productID)
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductById").
		Str(constants.KEY_PRODUCT_ID, productID.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in cache").Logger()
	logger.Info().Msg("finding product in cache")
	cached, err := cache.GetJSON[response.Product](c, s.cache, constants.KEY_PRODUCT, cacheKey)
	if err == nil {
		logger.Info().Msg("found product in cache")
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn().Err(err).Msg("failed finding product in cache, falling back to database")
	} else {
		logger.Info().Msg("product not found in cache")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in database").Logger()
	logger.Info().Msg("finding product in database")
	row, err := s.queries.FindProductById(c, productID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && !row.Product.IsActive) {
		err = fmt.Errorf("failed finding product in database with error=%w", inErrors.ErrProductNotFound)
		otel.RecordError(err, span)
		logger.Info().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding product in database with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product in database")

	product := row.Response()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product images").Logger()
	logger.Info().Msg("finding product images")
	images, err := s.queries.FindProductImages(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product images with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	product.Images = make([]response.Image, 0, len(images))
	for _, image := range images {
		product.Images = append(product.Images, image.Response())
	}
	logger.Info().Msg("found product images")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product options").Logger()
	logger.Info().Msg("finding product options")
	options, err := s.queries.FindProductOptions(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product options with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	product.Options = make([]response.Option, 0, len(options))
	for _, option := range options {
		product.Options = append(product.Options, option.Response())
	}
	logger.Info().Msg("found product options")

	logger = logger.With().Str(constants.KEY_PROCESS, "caching product").Logger()
	logger.Info().Msg("caching product")
	err = cache.SetJSON(c, s.cache, cacheKey, product, cache.ProductTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed caching product")
	} else {
		logger.Info().Msg("cached product")
	}

	return product, nil
}

func (s *ProductService) FindCategories(c context.Context) ([]response.Category, error) {
	c, span := inOtel.Tracer.Start(c, "ProductService FindCategories")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindCategories").
		Str(constants.KEY_PROCESS, "finding categories").
		Logger()

	logger.Info().Msg("finding categories")
	rows, err := s.queries.FindCategories(c)
	if err != nil {
		err = fmt.Errorf("failed finding categories with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int("count", len(rows)).Msg("found categories")

	categories := make([]response.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.Response())
	}
	return categories, nil
}

func (s *ProductService) FindCategoryProducts(c context.Context, slug string) (response.CategoryProducts, error) {
	c, span := inOtel.Tracer.Start(c, "ProductService FindCategoryProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindCategoryProducts").
		Str(constants.KEY_CATEGORY_SLUG, slug).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding category by slug").Logger()
	logger.Info().Msg("finding category by slug")
	category, err := s.queries.FindCategoryBySlug(c, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		err = inErrors.ErrCategoryNotFound
	}
	if err != nil {
		err = fmt.Errorf("failed finding category by slug with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CategoryProducts{}, err
	}
	logger.Info().Msg("found category by slug")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products by category").Logger()
	logger.Info().Msg("finding products by category")
	rows, err := s.queries.FindProductsByCategoryId(c, category.ID)
	if err != nil {
		err = fmt.Errorf("failed finding products by category with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CategoryProducts{}, err
	}
	logger.Info().Int("count", len(rows)).Msg("found products by category")

	res := category.Response()
	res.ProductCount = int64(len(rows))
	return response.CategoryProducts{Category: res, Products: productResponses(rows)}, nil
}

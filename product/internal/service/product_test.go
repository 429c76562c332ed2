package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/cache"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
	"github.com/Alturino/dailycoffee/product/pkg/request"
	"github.com/Alturino/dailycoffee/product/pkg/response"
)

func TestProductService(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	redisClient := testutil.StartRedis(t, c)
	queries := repository.New(pool)
	productService := NewProductService(queries, redisClient)

	category := testutil.SeedCategory(t, c, queries)
	other := testutil.SeedCategory(t, c, queries)
	ethiopia := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:          "Ethiopia Yirgacheffe",
		Price:         decimal.NewFromInt(18900),
		DiscountPrice: decimal.NewNullDecimal(decimal.NewFromInt(15900)),
		Stock:         10,
		IsFeatured:    true,
	})
	colombia := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:  "Colombia Supremo",
		Price: decimal.NewFromInt(17000),
		Stock: 10,
	})
	decaf := testutil.SeedProduct(t, c, queries, other.ID, testutil.ProductSeed{
		Name:  "Decaf Blend",
		Price: decimal.NewFromInt(9800),
		Stock: 10,
	})
	hidden := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:  "Retired Roast",
		Price: decimal.NewFromInt(1000),
		Stock: 10,
	})
	_, err := queries.UpdateProduct(c, repository.UpdateProductParams{
		ID:       hidden.ID,
		IsActive: pgtype.Bool{Bool: false, Valid: true},
	})
	assert.NoError(t, err)

	ids := func(products []response.Product) []string {
		res := make([]string, 0, len(products))
		for _, p := range products {
			res = append(res, p.Name)
		}
		return res
	}

	testCases := []struct {
		name          string
		param         request.ListProducts
		pagination    inHttp.Pagination
		expectedNames []string
		expectedTotal int64
	}{
		{
			name:          "price ascending uses the discounted price",
			param:         request.ListProducts{Sort: request.SortPriceAsc},
			pagination:    inHttp.Pagination{Page: 1, Limit: 12},
			expectedNames: []string{decaf.Name, ethiopia.Name, colombia.Name},
			expectedTotal: 3,
		},
		{
			name:          "price descending",
			param:         request.ListProducts{Sort: request.SortPriceDesc},
			pagination:    inHttp.Pagination{Page: 1, Limit: 12},
			expectedNames: []string{colombia.Name, ethiopia.Name, decaf.Name},
			expectedTotal: 3,
		},
		{
			name:          "search is case insensitive",
			param:         request.ListProducts{Search: "COLOMBIA"},
			pagination:    inHttp.Pagination{Page: 1, Limit: 12},
			expectedNames: []string{colombia.Name},
			expectedTotal: 1,
		},
		{
			name:          "filter by category skips inactive products",
			param:         request.ListProducts{CategoryID: &other.ID},
			pagination:    inHttp.Pagination{Page: 1, Limit: 12},
			expectedNames: []string{decaf.Name},
			expectedTotal: 1,
		},
		{
			name:          "second page",
			param:         request.ListProducts{Sort: request.SortPriceAsc},
			pagination:    inHttp.Pagination{Page: 2, Limit: 2},
			expectedNames: []string{colombia.Name},
			expectedTotal: 3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			products, meta, err := productService.FindProducts(c, tc.param, tc.pagination)
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedNames, ids(products))
			assert.Equal(t, tc.expectedTotal, meta.Total)
		})
	}

	t.Run("featured", func(t *testing.T) {
		products, err := productService.FindFeaturedProducts(c)
		assert.NoError(t, err)
		assert.Equal(t, []string{ethiopia.Name}, ids(products))
	})

	t.Run("detail is cached", func(t *testing.T) {
		product, err := productService.FindProductById(c, ethiopia.ID)
		assert.NoError(t, err)
		assert.Equal(t, ethiopia.Name, product.Name)
		assert.Empty(t, product.Images)

		cached, err := cache.GetJSON[response.Product](c, redisClient, "product", cache.ProductKey(ethiopia.ID))
		assert.NoError(t, err)
		assert.Equal(t, ethiopia.ID, cached.ID)
		assert.True(t, cached.DiscountPrice.Decimal.Equal(decimal.NewFromInt(15900)))
	})

	t.Run("inactive product is not found", func(t *testing.T) {
		_, err := productService.FindProductById(c, hidden.ID)
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	t.Run("categories count active products", func(t *testing.T) {
		categories, err := productService.FindCategories(c)
		assert.NoError(t, err)
		counts := map[string]int64{}
		for _, category := range categories {
			counts[category.Slug] = category.ProductCount
		}
		assert.Equal(t, int64(2), counts[category.Slug])
		assert.Equal(t, int64(1), counts[other.Slug])
	})

	t.Run("category products by slug", func(t *testing.T) {
		res, err := productService.FindCategoryProducts(c, other.Slug)
		assert.NoError(t, err)
		assert.Equal(t, []string{decaf.Name}, ids(res.Products))
	})

	t.Run("unknown category slug", func(t *testing.T) {
		_, err := productService.FindCategoryProducts(c, "missing")
		assert.ErrorIs(t, err, inErrors.ErrCategoryNotFound)
	})
}

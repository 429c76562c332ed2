package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/cache"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/option"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
	"github.com/Alturino/dailycoffee/internal/validate"
	orderResponse "github.com/Alturino/dailycoffee/order/pkg/response"
	productRequest "github.com/Alturino/dailycoffee/product/pkg/request"
)

func seedOrder(t *testing.T, c context.Context, queries *repository.Queries, userID uuid.UUID) repository.Order {
	t.Helper()
	shippingAddress, err := json.Marshal(map[string]string{
		"name":     "Kim Minji",
		"phone":    "010-1234-5678",
		"zipCode":  "04524",
		"address1": "110 Sejong-daero, Jung-gu",
	})
	if err != nil {
		t.Fatalf("failed marshaling shipping address with error: %s", err)
	}
	order, err := queries.InsertOrder(c, repository.InsertOrderParams{
		UserID:          userID,
		ShippingAddress: shippingAddress,
		PaymentMethod:   "CARD",
		TotalAmount:     repository.NumericFromDecimal(decimal.NewFromInt(12800)),
	})
	if err != nil {
		t.Fatalf("failed seeding order with error: %s", err)
	}
	return order
}

func TestAdminService(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	redisClient := testutil.StartRedis(t, c)
	queries := repository.New(pool)
	adminService := NewAdminService(pool, queries, redisClient)

	category := testutil.SeedCategory(t, c, queries)

	t.Run("create product with images and options", func(t *testing.T) {
		product, err := adminService.CreateProduct(c, productRequest.Product{
			Name:          "Colombia Huila",
			Slug:          "colombia-huila-" + uuid.NewString()[:8],
			Price:         decimal.NewFromInt(17500),
			DiscountPrice: decimal.NewNullDecimal(decimal.NewFromInt(15000)),
			Tags:          []string{"fruity"},
			CategoryID:    category.ID,
			Stock:         20,
			Images: []productRequest.Image{
				{Url: "https://cdn.dailycoffee.test/huila-1.jpg", IsPrimary: true},
				{Url: "https://cdn.dailycoffee.test/huila-2.jpg"},
			},
			Options: []productRequest.Option{
				{Kind: option.KindWeight, Value: "200g"},
				{Kind: option.KindWeight, Value: "500g", PriceModifier: decimal.NewFromInt(20000)},
			},
		})
		assert.NoError(t, err)
		assert.True(t, product.IsActive)
		assert.True(t, decimal.NewFromInt(15000).Equal(product.DiscountPrice.Decimal))
		assert.Len(t, product.Images, 2)
		assert.Equal(t, int32(1), product.Images[1].SortOrder)
		assert.Len(t, product.Options, 2)
	})

	t.Run("create product with unknown category", func(t *testing.T) {
		_, err := adminService.CreateProduct(c, productRequest.Product{
			Name:       "Orphan",
			Slug:       "orphan-" + uuid.NewString()[:8],
			Price:      decimal.NewFromInt(1000),
			CategoryID: uuid.New(),
		})
		assert.ErrorIs(t, err, inErrors.ErrCategoryNotFound)
	})

	t.Run("update product invalidates cache", func(t *testing.T) {
		seeded := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
			Price:         decimal.NewFromInt(18900),
			DiscountPrice: decimal.NewNullDecimal(decimal.NewFromInt(15900)),
			Stock:         5,
		})
		key := cache.ProductKey(seeded.ID)
		assert.NoError(t, redisClient.Set(c, key, "{}", cache.ProductTTL).Err())

		name := "House Blend Reserve"
		stock := int32(7)
		product, err := adminService.UpdateProduct(c, seeded.ID, productRequest.UpdateProduct{
			Name:          &name,
			Stock:         &stock,
			ClearDiscount: true,
			Images:        []productRequest.Image{{Url: "https://cdn.dailycoffee.test/reserve.jpg", IsPrimary: true}},
		})
		assert.NoError(t, err)
		assert.Equal(t, name, product.Name)
		assert.Equal(t, stock, product.Stock)
		assert.False(t, product.DiscountPrice.Valid)
		assert.True(t, decimal.NewFromInt(18900).Equal(product.Price))
		assert.Len(t, product.Images, 1)

		_, err = redisClient.Get(c, key).Result()
		assert.ErrorIs(t, err, redis.Nil)
	})

	t.Run("update unknown product", func(t *testing.T) {
		name := "Ghost"
		_, err := adminService.UpdateProduct(c, uuid.New(), productRequest.UpdateProduct{Name: &name})
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	t.Run("delete product", func(t *testing.T) {
		seeded := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
			Price: decimal.NewFromInt(9800),
			Stock: 1,
		})
		assert.NoError(t, adminService.DeleteProduct(c, seeded.ID))
		assert.ErrorIs(t, adminService.DeleteProduct(c, seeded.ID), inErrors.ErrProductNotFound)
	})

	t.Run("list products includes inactive", func(t *testing.T) {
		seeded := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
			Name:  "Retired Blend",
			Price: decimal.NewFromInt(9800),
		})
		isActive := false
		_, err := adminService.UpdateProduct(c, seeded.ID, productRequest.UpdateProduct{IsActive: &isActive})
		assert.NoError(t, err)

		products, meta, err := adminService.FindProducts(c, inHttp.Pagination{Page: 1, Limit: 100})
		assert.NoError(t, err)
		assert.Equal(t, int64(len(products)), meta.Total)
		found := false
		for _, product := range products {
			if product.ID == seeded.ID {
				found = true
				assert.False(t, product.IsActive)
			}
		}
		assert.True(t, found)
	})

	t.Run("orders and status", func(t *testing.T) {
		buyer := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		first := seedOrder(t, c, queries, buyer.ID)
		seedOrder(t, c, queries, buyer.ID)

		key := cache.OrderKey(first.ID)
		assert.NoError(t, redisClient.Set(c, key, "{}", cache.OrderTTL).Err())

		order, err := adminService.UpdateOrderStatus(c, first.ID, string(repository.OrderStatusSHIPPED))
		assert.NoError(t, err)
		assert.Equal(t, string(repository.OrderStatusSHIPPED), order.Status)
		assert.NotNil(t, order.Buyer)
		cached, err := cache.GetJSON[orderResponse.Order](c, redisClient, "order", key)
		assert.NoError(t, err)
		assert.Equal(t, string(repository.OrderStatusSHIPPED), cached.Status)
		assert.Nil(t, cached.Buyer)

		// a read-through fill that loaded the row before the update must not win
		stale := cached
		stale.Status = string(repository.OrderStatusPENDING)
		stored, err := cache.SetJSONIfAbsent(c, redisClient, key, stale, cache.OrderTTL)
		assert.NoError(t, err)
		assert.False(t, stored)
		cached, err = cache.GetJSON[orderResponse.Order](c, redisClient, "order", key)
		assert.NoError(t, err)
		assert.Equal(t, string(repository.OrderStatusSHIPPED), cached.Status)

		// any value of the enum is accepted, including going back
		order, err = adminService.UpdateOrderStatus(c, first.ID, string(repository.OrderStatusPENDING))
		assert.NoError(t, err)
		assert.Equal(t, string(repository.OrderStatusPENDING), order.Status)
		_, err = adminService.UpdateOrderStatus(c, first.ID, string(repository.OrderStatusREFUNDED))
		assert.NoError(t, err)

		orders, meta, err := adminService.FindOrders(c, string(repository.OrderStatusREFUNDED), inHttp.Pagination{Page: 1, Limit: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), meta.Total)
		if assert.Len(t, orders, 1) {
			assert.Equal(t, first.ID, orders[0].ID)
			assert.Equal(t, buyer.Email, orders[0].Buyer.Email)
		}

		orders, meta, err = adminService.FindOrders(c, "", inHttp.Pagination{Page: 1, Limit: 10})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), meta.Total)
		assert.Len(t, orders, 2)
	})

	t.Run("invalid status", func(t *testing.T) {
		var validationErr *validate.ValidationError

		_, err := adminService.UpdateOrderStatus(c, uuid.New(), "LOST")
		assert.ErrorAs(t, err, &validationErr)

		_, _, err = adminService.FindOrders(c, "LOST", inHttp.Pagination{Page: 1, Limit: 10})
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := adminService.UpdateOrderStatus(c, uuid.New(), string(repository.OrderStatusPAID))
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	})

	t.Run("users", func(t *testing.T) {
		testutil.SeedUser(t, c, queries, repository.UserRoleADMIN)
		users, meta, err := adminService.FindUsers(c, inHttp.Pagination{Page: 1, Limit: 1})
		assert.NoError(t, err)
		assert.Len(t, users, 1)
		assert.GreaterOrEqual(t, meta.Total, int64(2))
		assert.Equal(t, meta.Total, meta.TotalPages)
	})
}

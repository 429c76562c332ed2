package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/cache"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/option"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
	"github.com/Alturino/dailycoffee/order/pkg/request"
)

var createOrder = request.CreateOrder{
	ShippingAddress: request.ShippingAddress{
		Name:     "Kim Minji",
		Phone:    "010-1234-5678",
		ZipCode:  "04524",
		Address1: "110 Sejong-daero, Jung-gu",
		Address2: "3F",
	},
	PaymentMethod: request.PaymentCard,
}

type cartLine struct {
	productID uuid.UUID
	quantity  int32
	options   option.Selection
}

func fillCart(t *testing.T, c context.Context, queries *repository.Queries, userID uuid.UUID, lines ...cartLine) repository.Cart {
	t.Helper()
	cart, err := queries.UpsertCart(c, userID)
	if err != nil {
		t.Fatalf("failed upserting cart with error: %s", err)
	}
	for _, line := range lines {
		_, err := queries.InsertCartItem(c, repository.InsertCartItemParams{
			CartID:          cart.ID,
			ProductID:       line.productID,
			Quantity:        line.quantity,
			SelectedOptions: line.options,
		})
		if err != nil {
			t.Fatalf("failed inserting cart item with error: %s", err)
		}
	}
	return cart
}

func cartQuantities(t *testing.T, c context.Context, queries *repository.Queries, cartID uuid.UUID) map[uuid.UUID]int32 {
	t.Helper()
	items, err := queries.FindCartItems(c, cartID)
	if err != nil {
		t.Fatalf("failed finding cart items with error: %s", err)
	}
	res := map[uuid.UUID]int32{}
	for _, item := range items {
		res[item.CartItem.ProductID] += item.CartItem.Quantity
	}
	return res
}

func countOrders(t *testing.T, c context.Context, queries *repository.Queries, userID uuid.UUID) int64 {
	t.Helper()
	count, err := queries.CountOrdersByUserId(c, userID)
	if err != nil {
		t.Fatalf("failed counting orders with error: %s", err)
	}
	return count
}

func TestOrderService(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	redisClient := testutil.StartRedis(t, c)
	queries := repository.New(pool)
	orderService := NewOrderService(pool, queries, redisClient)

	category := testutil.SeedCategory(t, c, queries)
	ethiopia := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:          "Ethiopia Yirgacheffe",
		Price:         decimal.NewFromInt(18900),
		DiscountPrice: decimal.NewNullDecimal(decimal.NewFromInt(15900)),
		Stock:         100,
	})
	decaf := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:  "Decaf Blend",
		Price: decimal.NewFromInt(9800),
		Stock: 100,
	})
	scarce := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:  "Geisha Lot 7",
		Price: decimal.NewFromInt(45000),
		Stock: 1,
	})

	t.Run("order totals, snapshot prices and clears the cart", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		whole := option.Selection{option.KindWeight: "200g", option.KindGrind: "WHOLE_BEAN"}
		cart := fillCart(t, c, queries, user.ID,
			cartLine{productID: ethiopia.ID, quantity: 2, options: whole},
			cartLine{productID: decaf.ID, quantity: 1},
		)

		order, err := orderService.CreateOrder(c, user.ID, "", createOrder)
		assert.NoError(t, err)
		assert.Equal(t, "PENDING", order.Status)
		assert.Equal(t, request.PaymentCard, order.PaymentMethod)
		assert.Equal(t, createOrder.ShippingAddress.Name, order.ShippingAddress.Name)
		assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(41600)), order.Subtotal.String())
		assert.True(t, order.ShippingFee.IsZero(), order.ShippingFee.String())
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(41600)), order.TotalAmount.String())
		assert.Nil(t, order.Buyer)

		prices := map[uuid.UUID]decimal.Decimal{}
		for _, item := range order.OrderItems {
			prices[item.ProductID] = item.Price
			if item.ProductID == ethiopia.ID {
				assert.True(t, whole.Equal(item.SelectedOptions))
				assert.Equal(t, int32(2), item.Quantity)
			}
		}
		assert.Len(t, order.OrderItems, 2)
		assert.True(t, prices[ethiopia.ID].Equal(decimal.NewFromInt(15900)))
		assert.True(t, prices[decaf.ID].Equal(decimal.NewFromInt(9800)))

		assert.Empty(t, cartQuantities(t, c, queries, cart.ID))

		cached, err := cache.GetJSON[struct {
			ID uuid.UUID `json:"id"`
		}](c, redisClient, "order", cache.OrderKey(order.ID))
		assert.NoError(t, err)
		assert.Equal(t, order.ID, cached.ID)

		_, err = queries.UpdateProduct(c, repository.UpdateProductParams{
			ID:            ethiopia.ID,
			Price:         repository.NumericFromDecimal(decimal.NewFromInt(21000)),
			ClearDiscount: true,
		})
		assert.NoError(t, err)
		assert.NoError(t, cache.Delete(c, redisClient, cache.OrderKey(order.ID)))

		reloaded, err := orderService.FindOrderById(c, user.ID, order.ID)
		assert.NoError(t, err)
		for _, item := range reloaded.OrderItems {
			if item.ProductID == ethiopia.ID {
				assert.True(t, item.Price.Equal(decimal.NewFromInt(15900)))
			}
		}
		assert.True(t, reloaded.TotalAmount.Equal(decimal.NewFromInt(41600)))

		_, err = queries.UpdateProduct(c, repository.UpdateProductParams{
			ID:            ethiopia.ID,
			Price:         repository.NumericFromDecimal(decimal.NewFromInt(18900)),
			DiscountPrice: repository.NumericFromDecimal(decimal.NewFromInt(15900)),
		})
		assert.NoError(t, err)
	})

	t.Run("shipping fee below the free shipping threshold", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		fillCart(t, c, queries, user.ID, cartLine{productID: decaf.ID, quantity: 1})

		order, err := orderService.CreateOrder(c, user.ID, "", createOrder)
		assert.NoError(t, err)
		assert.True(t, order.ShippingFee.Equal(decimal.NewFromInt(3000)))
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(12800)))
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		_, err := orderService.CreateOrder(c, user.ID, "", createOrder)
		assert.ErrorIs(t, err, inErrors.ErrCartEmpty)

		fillCart(t, c, queries, user.ID)
		_, err = orderService.CreateOrder(c, user.ID, "", createOrder)
		assert.ErrorIs(t, err, inErrors.ErrCartEmpty)

		assert.Equal(t, int64(0), countOrders(t, c, queries, user.ID))
	})

	t.Run("quantity above stock is rejected and the cart kept", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		cart := fillCart(t, c, queries, user.ID,
			cartLine{productID: decaf.ID, quantity: 1},
			cartLine{productID: scarce.ID, quantity: 2},
		)

		_, err := orderService.CreateOrder(c, user.ID, "", createOrder)
		assert.ErrorIs(t, err, inErrors.ErrOutOfStock)
		assert.Equal(t, int64(0), countOrders(t, c, queries, user.ID))
		assert.Equal(
			t,
			map[uuid.UUID]int32{decaf.ID: 1, scarce.ID: 2},
			cartQuantities(t, c, queries, cart.ID),
		)
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		retired := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
			Price: decimal.NewFromInt(5000),
			Stock: 10,
		})
		fillCart(t, c, queries, user.ID, cartLine{productID: retired.ID, quantity: 1})
		_, err := queries.UpdateProduct(c, repository.UpdateProductParams{
			ID:       retired.ID,
			IsActive: pgtype.Bool{Bool: false, Valid: true},
		})
		assert.NoError(t, err)

		_, err = orderService.CreateOrder(c, user.ID, "", createOrder)
		assert.ErrorIs(t, err, inErrors.ErrOutOfStock)
	})

	t.Run("failure inside the transaction leaves no order and the cart unchanged", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		cart := fillCart(t, c, queries, user.ID,
			cartLine{productID: ethiopia.ID, quantity: 2},
			cartLine{productID: decaf.ID, quantity: 1},
		)

		_, err := pool.Exec(c, `
CREATE OR REPLACE FUNCTION fail_order_items() RETURNS trigger AS $$
BEGIN
    RAISE EXCEPTION 'forced order item failure';
END;
$$ LANGUAGE plpgsql;
CREATE TRIGGER fail_order_items BEFORE INSERT ON order_items
    FOR EACH ROW EXECUTE FUNCTION fail_order_items();`)
		assert.NoError(t, err)
		t.Cleanup(func() {
			_, err := pool.Exec(context.Background(), `
DROP TRIGGER IF EXISTS fail_order_items ON order_items;
DROP FUNCTION IF EXISTS fail_order_items();`)
			if err != nil {
				t.Errorf("failed dropping trigger with error: %s", err)
			}
		})

		_, err = orderService.CreateOrder(c, user.ID, "", createOrder)
		assert.Error(t, err)
		assert.Equal(t, int64(0), countOrders(t, c, queries, user.ID))
		assert.Equal(
			t,
			map[uuid.UUID]int32{ethiopia.ID: 2, decaf.ID: 1},
			cartQuantities(t, c, queries, cart.ID),
		)
	})

	t.Run("orders of another user are not found", func(t *testing.T) {
		owner := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		other := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		fillCart(t, c, queries, owner.ID, cartLine{productID: decaf.ID, quantity: 1})

		order, err := orderService.CreateOrder(c, owner.ID, "", createOrder)
		assert.NoError(t, err)

		_, err = orderService.FindOrderById(c, other.ID, order.ID)
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)

		assert.NoError(t, cache.Delete(c, redisClient, cache.OrderKey(order.ID)))
		_, err = orderService.FindOrderById(c, other.ID, order.ID)
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)

		found, err := orderService.FindOrderById(c, owner.ID, order.ID)
		assert.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("idempotency key returns the first order", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		fillCart(t, c, queries, user.ID, cartLine{productID: decaf.ID, quantity: 1})

		first, err := orderService.CreateOrder(c, user.ID, "checkout-1", createOrder)
		assert.NoError(t, err)

		second, err := orderService.CreateOrder(c, user.ID, "checkout-1", createOrder)
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, int64(1), countOrders(t, c, queries, user.ID))
	})

	t.Run("committed order is replayed after the cart is cleared", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		fillCart(t, c, queries, user.ID, cartLine{productID: decaf.ID, quantity: 1})

		first, err := orderService.CreateOrder(c, user.ID, "checkout-4", createOrder)
		assert.NoError(t, err)

		stored, err := redisClient.Get(c, cache.IdempotencyKey(user.ID, "checkout-4")).Result()
		assert.NoError(t, err)
		assert.Equal(t, first.ID.String(), stored)

		// a retry must not see the now empty cart
		assert.NoError(t, cache.Delete(c, redisClient, cache.OrderKey(first.ID)))
		retried, err := orderService.CreateOrder(c, user.ID, "checkout-4", createOrder)
		assert.NoError(t, err)
		assert.Equal(t, first.ID, retried.ID)
		assert.Equal(t, int64(1), countOrders(t, c, queries, user.ID))
	})

	t.Run("idempotency key in progress conflicts", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		fillCart(t, c, queries, user.ID, cartLine{productID: decaf.ID, quantity: 1})

		key := cache.IdempotencyKey(user.ID, "checkout-2")
		assert.NoError(t, redisClient.Set(c, key, "PENDING", cache.IdempotencyTTL).Err())

		_, err := orderService.CreateOrder(c, user.ID, "checkout-2", createOrder)
		assert.ErrorIs(t, err, inErrors.ErrOrderInProgress)
		assert.Equal(t, int64(0), countOrders(t, c, queries, user.ID))
	})

	t.Run("failed order releases the idempotency key", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		_, err := orderService.CreateOrder(c, user.ID, "checkout-3", createOrder)
		assert.ErrorIs(t, err, inErrors.ErrCartEmpty)

		err = redisClient.Get(c, cache.IdempotencyKey(user.ID, "checkout-3")).Err()
		assert.ErrorIs(t, err, redis.Nil)

		fillCart(t, c, queries, user.ID, cartLine{productID: decaf.ID, quantity: 1})
		_, err = orderService.CreateOrder(c, user.ID, "checkout-3", createOrder)
		assert.NoError(t, err)
	})

	t.Run("list orders is paginated", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		for range 3 {
			fillCart(t, c, queries, user.ID, cartLine{productID: decaf.ID, quantity: 1})
			_, err := orderService.CreateOrder(c, user.ID, "", createOrder)
			assert.NoError(t, err)
		}

		orders, meta, err := orderService.FindOrders(c, user.ID, inHttp.Pagination{Page: 2, Limit: 2})
		assert.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, inHttp.Meta{Page: 2, Limit: 2, Total: 3, TotalPages: 2}, meta)

		orders, meta, err = orderService.FindOrders(c, user.ID, inHttp.Pagination{Page: math.MaxInt32, Limit: 50})
		assert.NoError(t, err)
		assert.Empty(t, orders)
		assert.Equal(t, int64(3), meta.Total)
	})
}

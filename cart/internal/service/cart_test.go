package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/cart/pkg/request"
	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	"github.com/Alturino/dailycoffee/internal/option"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
)

func TestCartService(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	queries := repository.New(pool)
	cartService := NewCartService(pool, queries)

	category := testutil.SeedCategory(t, c, queries)
	ethiopia := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:          "Ethiopia Yirgacheffe",
		Price:         decimal.NewFromInt(18900),
		DiscountPrice: decimal.NewNullDecimal(decimal.NewFromInt(15900)),
		Stock:         10,
	})
	decaf := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:  "Decaf Blend",
		Price: decimal.NewFromInt(9800),
		Stock: 10,
	})
	retired := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Name:  "Retired Roast",
		Price: decimal.NewFromInt(1000),
		Stock: 10,
	})
	_, err := queries.UpdateProduct(c, repository.UpdateProductParams{
		ID:       retired.ID,
		IsActive: pgtype.Bool{Bool: false, Valid: true},
	})
	assert.NoError(t, err)

	whole := option.Selection{option.KindWeight: "200g", option.KindGrind: "WHOLE_BEAN"}

	t.Run("empty cart is created on first read", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		cart, err := cartService.GetCart(c, user.ID)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, cart.UserID)
		assert.Empty(t, cart.Items)
		assert.True(t, cart.Total.IsZero())
	})

	t.Run("same product and options merge into one row", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		_, err := cartService.AddItem(c, user.ID, request.AddCartItem{
			ProductID:       ethiopia.ID,
			Quantity:        1,
			SelectedOptions: whole,
		})
		assert.NoError(t, err)

		reordered := option.Selection{option.KindGrind: "WHOLE_BEAN", option.KindWeight: "200g"}
		cart, err := cartService.AddItem(c, user.ID, request.AddCartItem{
			ProductID:       ethiopia.ID,
			Quantity:        2,
			SelectedOptions: reordered,
		})
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, int32(3), cart.Items[0].Quantity)
		assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.NewFromInt(15900)))
	})

	t.Run("different options make a separate row", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		_, err := cartService.AddItem(c, user.ID, request.AddCartItem{
			ProductID:       ethiopia.ID,
			Quantity:        1,
			SelectedOptions: whole,
		})
		assert.NoError(t, err)
		_, err = cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: ethiopia.ID, Quantity: 1})
		assert.NoError(t, err)
		cart, err := cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: ethiopia.ID, Quantity: 1})
		assert.NoError(t, err)

		assert.Len(t, cart.Items, 2)
		assert.Equal(t, int32(3), cart.TotalQuantity)
	})

	t.Run("totals include shipping below the threshold", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		cart, err := cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: decaf.ID, Quantity: 1})
		assert.NoError(t, err)
		assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(9800)))
		assert.True(t, cart.ShippingFee.Equal(decimal.NewFromInt(3000)))
		assert.True(t, cart.Total.Equal(decimal.NewFromInt(12800)))
	})

	t.Run("unknown and inactive products are not found", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		_, err := cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: uuid.New(), Quantity: 1})
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)

		_, err = cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: retired.ID, Quantity: 1})
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	t.Run("update quantity and remove with zero", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		cart, err := cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: decaf.ID, Quantity: 1})
		assert.NoError(t, err)
		itemID := cart.Items[0].ID

		cart, err = cartService.UpdateItem(c, user.ID, itemID, 5)
		assert.NoError(t, err)
		assert.Equal(t, int32(5), cart.Items[0].Quantity)

		cart, err = cartService.UpdateItem(c, user.ID, itemID, 0)
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("items of another user's cart are not found", func(t *testing.T) {
		owner := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)
		other := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		cart, err := cartService.AddItem(c, owner.ID, request.AddCartItem{ProductID: decaf.ID, Quantity: 1})
		assert.NoError(t, err)
		itemID := cart.Items[0].ID

		_, err = cartService.UpdateItem(c, other.ID, itemID, 2)
		assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)

		_, err = cartService.RemoveItem(c, other.ID, itemID)
		assert.ErrorIs(t, err, inErrors.ErrCartItemNotFound)

		cart, err = cartService.GetCart(c, owner.ID)
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
	})

	t.Run("clear", func(t *testing.T) {
		user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

		_, err := cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: decaf.ID, Quantity: 1})
		assert.NoError(t, err)
		_, err = cartService.AddItem(c, user.ID, request.AddCartItem{ProductID: ethiopia.ID, Quantity: 1})
		assert.NoError(t, err)

		cart, err := cartService.Clear(c, user.ID)
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)

		cart, err = cartService.GetCart(c, user.ID)
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)
	})
}

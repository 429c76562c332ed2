package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/dailycoffee/internal/errors"
	inHttp "github.com/Alturino/dailycoffee/internal/http"
	"github.com/Alturino/dailycoffee/internal/repository"
	"github.com/Alturino/dailycoffee/internal/testutil"
	"github.com/Alturino/dailycoffee/review/pkg/request"
)

func TestReviewService(t *testing.T) {
	c := context.Background()
	pool := testutil.StartPostgres(t, c)
	queries := repository.New(pool)
	reviewService := NewReviewService(queries)

	category := testutil.SeedCategory(t, c, queries)
	product := testutil.SeedProduct(t, c, queries, category.ID, testutil.ProductSeed{
		Price: decimal.NewFromInt(12000),
		Stock: 10,
	})
	user := testutil.SeedUser(t, c, queries, repository.UserRoleUSER)

	t.Run("create, list and like", func(t *testing.T) {
		for _, rating := range []int16{5, 4, 3} {
			_, err := reviewService.CreateReview(c, user.ID, request.CreateReview{
				ProductID: product.ID,
				Rating:    rating,
				Content:   "Bright and fruity.",
				Images:    []string{"https://cdn.dailycoffee.test/review.jpg"},
			})
			assert.NoError(t, err)
		}

		reviews, meta, err := reviewService.FindReviews(c, product.ID, inHttp.Pagination{Page: 1, Limit: 2})
		assert.NoError(t, err)
		assert.Len(t, reviews, 2)
		assert.Equal(t, int64(3), meta.Total)
		assert.Equal(t, int64(2), meta.TotalPages)
		assert.Equal(t, "Test User", reviews[0].User.Name)

		liked, err := reviewService.LikeReview(c, reviews[0].ID)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), liked.Likes)
		liked, err = reviewService.LikeReview(c, reviews[0].ID)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), liked.Likes)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := reviewService.CreateReview(c, user.ID, request.CreateReview{
			ProductID: uuid.New(),
			Rating:    5,
			Content:   "Missing.",
		})
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)

		_, _, err = reviewService.FindReviews(c, uuid.New(), inHttp.Pagination{Page: 1, Limit: 10})
		assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
	})

	t.Run("order must belong to the reviewer", func(t *testing.T) {
		orderID := uuid.New()
		_, err := reviewService.CreateReview(c, user.ID, request.CreateReview{
			ProductID: product.ID,
			OrderID:   &orderID,
			Rating:    5,
			Content:   "Not my order.",
		})
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	})

	t.Run("unknown review", func(t *testing.T) {
		_, err := reviewService.LikeReview(c, uuid.New())
		assert.ErrorIs(t, err, inErrors.ErrReviewNotFound)
	})
}

package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Alturino/dailycoffee/internal/testutil"
)

type snapshot struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestJSONRoundTrip(t *testing.T) {
	c := context.Background()
	client := testutil.StartRedis(t, c)

	key := ProductKey(uuid.New())

	_, err := GetJSON[snapshot](c, client, "product", key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	err = SetJSON(c, client, key, snapshot{Name: "House Blend", Count: 3}, ProductTTL)
	assert.NoError(t, err)

	actual, err := GetJSON[snapshot](c, client, "product", key)
	assert.NoError(t, err)
	assert.Equal(t, snapshot{Name: "House Blend", Count: 3}, actual)

	err = Delete(c, client, key)
	assert.NoError(t, err)

	_, err = GetJSON[snapshot](c, client, "product", key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestIdempotencyKey(t *testing.T) {
	c := context.Background()
	client := testutil.StartRedis(t, c)

	key := IdempotencyKey(uuid.New(), "checkout-1")
	orderID := uuid.NewString()

	first, err := ClaimIdempotencyKey(c, client, key)
	assert.NoError(t, err)
	assert.True(t, first.Claimed)

	inFlight, err := ClaimIdempotencyKey(c, client, key)
	assert.NoError(t, err)
	assert.False(t, inFlight.Claimed)
	assert.Empty(t, inFlight.OrderID)

	err = CompleteIdempotencyKey(c, client, key, orderID)
	assert.NoError(t, err)

	done, err := ClaimIdempotencyKey(c, client, key)
	assert.NoError(t, err)
	assert.False(t, done.Claimed)
	assert.Equal(t, orderID, done.OrderID)

	err = ReleaseIdempotencyKey(c, client, key)
	assert.NoError(t, err)

	again, err := ClaimIdempotencyKey(c, client, key)
	assert.NoError(t, err)
	assert.True(t, again.Claimed)
}

func TestClaimIdempotencyKeyWhileReleased(t *testing.T) {
	c := context.Background()
	client := testutil.StartRedis(t, c)

	key := IdempotencyKey(uuid.New(), "checkout-2")

	released := make(chan struct{})
	go func() {
		defer close(released)
		for range 200 {
			_ = ReleaseIdempotencyKey(c, client, key)
		}
	}()

	for range 200 {
		claim, err := ClaimIdempotencyKey(c, client, key)
		assert.NoError(t, err)
		assert.Empty(t, claim.OrderID)
	}
	<-released
}

func TestSetJSONIfAbsent(t *testing.T) {
	c := context.Background()
	client := testutil.StartRedis(t, c)

	key := OrderKey(uuid.New())

	stored, err := SetJSONIfAbsent(c, client, key, snapshot{Name: "PAID"}, OrderTTL)
	assert.NoError(t, err)
	assert.True(t, stored)

	stored, err = SetJSONIfAbsent(c, client, key, snapshot{Name: "PENDING"}, OrderTTL)
	assert.NoError(t, err)
	assert.False(t, stored)

	actual, err := GetJSON[snapshot](c, client, "order", key)
	assert.NoError(t, err)
	assert.Equal(t, "PAID", actual.Name)
}

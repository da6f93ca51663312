package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webstore/cart-service/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis, func()) {
	// Create an in-memory Redis server
	mr := miniredis.RunT(t)

	// Create Redis client pointing to miniredis
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	// Create cache instance
	cache := NewRedisCache(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"

	cart := &domain.Cart{
		UserID: userID,
		Items: []domain.CartItem{
			{ID: "item-1", ProductID: "prod-a", Quantity: 2, Price: 10},
			{ID: "item-2", ProductID: "prod-b", Quantity: 3, Price: 4},
		},
		TotalPrice: 32,
	}

	// Manually set data in miniredis
	cartJSON, _ := json.Marshal(cart)
	mr.Set(cacheKey(userID), string(cartJSON))

	result, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, result.UserID)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, "prod-a", result.Items[0].ProductID)
	assert.Equal(t, 32.0, result.TotalPrice)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	userID := "user123"
	mr.Set(cacheKey(userID), "{not json")

	result, err := cache.Get(context.Background(), userID)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestSet_RoundTrip(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"
	discounted := 27.0
	cart := &domain.Cart{
		UserID:                  userID,
		Items:                   []domain.CartItem{{ID: "item-1", ProductID: "prod-a", Quantity: 3, Price: 10}},
		TotalPrice:              30,
		Discount:                10,
		TotalPriceAfterDiscount: &discounted,
	}

	err := cache.Set(ctx, userID, cart)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cacheKey(userID)))

	result, err := cache.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Discount)
	require.NotNil(t, result.TotalPriceAfterDiscount)
	assert.Equal(t, 27.0, *result.TotalPriceAfterDiscount)
}

func TestDelete(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user123"
	mr.Set(cacheKey(userID), "{}")

	err := cache.Delete(ctx, userID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cacheKey(userID)))
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
)

// RedisCache caches the read side of the sync engine: the marketplace's
// product list and the last sync result per marketplace type.
type RedisCache struct {
	client             *redis.Client
	marketplaceListTTL time.Duration
	syncResultTTL      time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client *redis.Client, marketplaceListTTL, syncResultTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:             client,
		marketplaceListTTL: marketplaceListTTL,
		syncResultTTL:      syncResultTTL,
	}
}

func (c *RedisCache) marketplaceProductsKey(marketplaceType string) string {
	return fmt.Sprintf("marketplace:%s:products", marketplaceType)
}

func (c *RedisCache) lastSyncResultKey(marketplaceType string) string {
	return fmt.Sprintf("sync:%s:last", marketplaceType)
}

// GetMarketplaceProducts retrieves the cached marketplace product list
func (c *RedisCache) GetMarketplaceProducts(ctx context.Context, marketplaceType string) ([]domain.MarketplaceProduct, error) {
	key := c.marketplaceProductsKey(marketplaceType)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var products []domain.MarketplaceProduct
	if err := json.Unmarshal([]byte(val), &products); err != nil {
		return nil, err
	}

	return products, nil
}

// SetMarketplaceProducts stores the marketplace product list in cache
func (c *RedisCache) SetMarketplaceProducts(ctx context.Context, marketplaceType string, products []domain.MarketplaceProduct) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}

	key := c.marketplaceProductsKey(marketplaceType)
	return c.client.Set(ctx, key, data, c.marketplaceListTTL).Err()
}

// InvalidateMarketplaceProducts removes the cached marketplace product list
func (c *RedisCache) InvalidateMarketplaceProducts(ctx context.Context, marketplaceType string) error {
	key := c.marketplaceProductsKey(marketplaceType)
	return c.client.Del(ctx, key).Err()
}

// GetLastSyncResult retrieves the last cached sync result
func (c *RedisCache) GetLastSyncResult(ctx context.Context, marketplaceType string) (*domain.SyncResult, error) {
	key := c.lastSyncResultKey(marketplaceType)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var result domain.SyncResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// SetLastSyncResult stores the result of the latest sync pass
func (c *RedisCache) SetLastSyncResult(ctx context.Context, marketplaceType string, result domain.SyncResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	key := c.lastSyncResultKey(marketplaceType)
	return c.client.Set(ctx, key, data, c.syncResultTTL).Err()
}

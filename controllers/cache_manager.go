package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/refurbgear/storefront-backend/models"
)

const (
	productCachePrefix     = "product:detail:"
	productListCachePrefix = "products:v:"
	cacheVersionKey        = "products:version"

	// DefaultCacheTTL bounds how stale a cached catalog page can get.
	DefaultCacheTTL = 5 * time.Minute
)

// CacheManager handles catalog caching in Redis. All lookups are best effort:
// a cache failure falls through to the database.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{redis: client, ttl: DefaultCacheTTL}
}

// GetProductList retrieves a cached product listing page.
func (cm *CacheManager) GetProductList(ctx context.Context, key string) (map[string]interface{}, bool) {
	if cm == nil || cm.redis == nil {
		return nil, false
	}
	version, err := cm.cacheVersion(ctx)
	if err != nil {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listKey(version, key)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]interface{}
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetProductListAsync caches a product listing page off the request path.
func (cm *CacheManager) SetProductListAsync(key string, response map[string]interface{}) {
	if cm == nil || cm.redis == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.cacheVersion(bgCtx)
		if err != nil {
			return
		}
		payload, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(bgCtx, cm.listKey(version, key), payload, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// GetProduct retrieves a cached product detail.
func (cm *CacheManager) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	if cm == nil || cm.redis == nil {
		return nil, false
	}
	cached, err := cm.redis.Get(ctx, productCachePrefix+id).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(cached), &product); err != nil {
		return nil, false
	}
	return &product, true
}

// SetProductAsync caches a product detail off the request path.
func (cm *CacheManager) SetProductAsync(id string, product *models.Product) {
	if cm == nil || cm.redis == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(product)
		if err != nil {
			zap.L().Warn("Failed to marshal product for cache", zap.Error(err), zap.String("product_id", id))
			return
		}
		if err := cm.redis.Set(bgCtx, productCachePrefix+id, payload, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product", zap.Error(err), zap.String("product_id", id))
		}
	}()
}

// InvalidateProduct bumps the list cache version and drops the detail entry.
func (cm *CacheManager) InvalidateProduct(ctx context.Context, id string) {
	if cm == nil || cm.redis == nil {
		return
	}
	if err := cm.redis.Incr(ctx, cacheVersionKey).Err(); err != nil {
		zap.L().Error("Failed to invalidate product list cache", zap.Error(err), zap.String("product_id", id))
	}
	if err := cm.redis.Del(ctx, productCachePrefix+id).Err(); err != nil {
		zap.L().Warn("Failed to delete product cache", zap.Error(err), zap.String("product_id", id))
	}
}

func (cm *CacheManager) cacheVersion(ctx context.Context) (int64, error) {
	version, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return version, err
}

func (cm *CacheManager) listKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", productListCachePrefix, version, key)
}

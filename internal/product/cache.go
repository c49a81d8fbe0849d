package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cachePrefix = "catalog"

// cachedRepository serves repeated catalog reads from Redis. Cache failures
// fall through to the wrapped repository.
type cachedRepository struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration) Repository {
	return &cachedRepository{next: next, client: client, ttl: ttl}
}

func (c *cachedRepository) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", cachePrefix, operation, key)
}

func (c *cachedRepository) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	opts = opts.Normalize()
	key := c.GenerateKey("list", strconv.Itoa(opts.Limit)+":"+strconv.Itoa(opts.Skip))

	var products []Product
	if c.get(ctx, key, &products) {
		return products, nil
	}

	products, err := c.next.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, products)
	return products, nil
}

func (c *cachedRepository) Search(ctx context.Context, query string) ([]Product, error) {
	key := c.GenerateKey("search", strings.ToLower(strings.TrimSpace(query)))

	var products []Product
	if c.get(ctx, key, &products) {
		return products, nil
	}

	products, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, products)
	return products, nil
}

func (c *cachedRepository) Get(ctx context.Context, id string) (*Product, error) {
	key := c.GenerateKey("product", id)

	var p Product
	if c.get(ctx, key, &p) {
		return &p, nil
	}

	found, err := c.next.Get(ctx, id)
	if err != nil || found == nil {
		return found, err
	}
	c.set(ctx, key, found)
	return found, nil
}

func (c *cachedRepository) get(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		logger.FromCtx(ctx).Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.FromCtx(ctx).Warn("catalog cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *cachedRepository) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.FromCtx(ctx).Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

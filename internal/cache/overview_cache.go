package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfsense/backend/internal/config"
	"github.com/shelfsense/backend/internal/domain"
)

const (
	overviewKeyPrefix     = "overview:summary"
	overviewScanBatchSize = 100
)

// OverviewCache memoizes the computed overview listing per filter. The
// overview fans out one forecast per (store, SKU) pair, so a short TTL buys a
// lot on dashboard refresh traffic.
type OverviewCache interface {
	GetOverview(ctx context.Context, filter domain.OverviewFilter) (*domain.OverviewResponse, bool, error)
	SetOverview(ctx context.Context, filter domain.OverviewFilter, resp *domain.OverviewResponse) error
	InvalidateAll(ctx context.Context) error
}

type redisOverviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopOverviewCache struct{}

func NewOverviewCache(cfg config.CacheConfig) (OverviewCache, error) {
	if !cfg.Enabled {
		return &noopOverviewCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisOverviewCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopOverviewCache() OverviewCache {
	return &noopOverviewCache{}
}

func (c *redisOverviewCache) GetOverview(ctx context.Context, filter domain.OverviewFilter) (*domain.OverviewResponse, bool, error) {
	payload, err := c.client.Get(ctx, buildOverviewKey(filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var resp domain.OverviewResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false, fmt.Errorf("decode overview cache: %w", err)
	}

	return &resp, true, nil
}

func (c *redisOverviewCache) SetOverview(ctx context.Context, filter domain.OverviewFilter, resp *domain.OverviewResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode overview cache: %w", err)
	}

	if err := c.client.Set(ctx, buildOverviewKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisOverviewCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, overviewKeyPrefix, overviewScanBatchSize)
}

func (n *noopOverviewCache) GetOverview(ctx context.Context, filter domain.OverviewFilter) (*domain.OverviewResponse, bool, error) {
	return nil, false, nil
}

func (n *noopOverviewCache) SetOverview(ctx context.Context, filter domain.OverviewFilter, resp *domain.OverviewResponse) error {
	return nil
}

func (n *noopOverviewCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildOverviewKey(filter domain.OverviewFilter) string {
	raw := fmt.Sprintf("store=%d|risk_only=%t|min_confidence=%d|limit=%d|offset=%d",
		filter.StoreID, filter.RiskOnly, filter.MinConfidence, filter.Limit, filter.Offset)
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", overviewKeyPrefix, hex.EncodeToString(sum[:]))
}

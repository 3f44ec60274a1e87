package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfsense/backend/internal/config"
	"github.com/shelfsense/backend/internal/domain"
)

const transferSummaryKey = "transfers:summary"

// TransferSummaryCache memoizes the network-wide transfer rollup. Invalidated
// whenever a draft is created or a transfer changes status.
type TransferSummaryCache interface {
	GetSummary(ctx context.Context) (*domain.TransferSummary, bool, error)
	SetSummary(ctx context.Context, summary *domain.TransferSummary) error
	Invalidate(ctx context.Context) error
}

type redisTransferCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopTransferCache struct{}

func NewTransferSummaryCache(cfg config.CacheConfig) (TransferSummaryCache, error) {
	if !cfg.Enabled {
		return &noopTransferCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisTransferCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopTransferSummaryCache() TransferSummaryCache {
	return &noopTransferCache{}
}

func (c *redisTransferCache) GetSummary(ctx context.Context) (*domain.TransferSummary, bool, error) {
	payload, err := c.client.Get(ctx, transferSummaryKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.TransferSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode transfer summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisTransferCache) SetSummary(ctx context.Context, summary *domain.TransferSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode transfer summary cache: %w", err)
	}

	if err := c.client.Set(ctx, transferSummaryKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisTransferCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, transferSummaryKey).Err()
}

func (n *noopTransferCache) GetSummary(ctx context.Context) (*domain.TransferSummary, bool, error) {
	return nil, false, nil
}

func (n *noopTransferCache) SetSummary(ctx context.Context, summary *domain.TransferSummary) error {
	return nil
}

func (n *noopTransferCache) Invalidate(ctx context.Context) error {
	return nil
}

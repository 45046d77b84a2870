package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"skincare_service/internal/domain"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const recommendationKeyPrefix = "skincare:recommendations:"

type redisRecommendationCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisRecommendationCache(client redis.UniversalClient, ttl time.Duration, logger *logrus.Logger) domain.RecommendationCache {
	return &redisRecommendationCache{client: client, ttl: ttl, log: logger}
}

func (c *redisRecommendationCache) Get(ctx context.Context, key string) ([]domain.Product, bool, error) {
	data, err := c.client.Get(ctx, recommendationKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.log.Warnf("Cache: Failed to read recommendations for %s: %v", key, err)
		return nil, false, fmt.Errorf("could not read cached recommendations: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.log.Warnf("Cache: Dropping undecodable entry %s: %v", key, err)
		_ = c.client.Del(ctx, recommendationKeyPrefix+key).Err()
		return nil, false, nil
	}
	return products, true, nil
}

func (c *redisRecommendationCache) Set(ctx context.Context, key string, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("could not encode recommendations: %w", err)
	}
	if err := c.client.Set(ctx, recommendationKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warnf("Cache: Failed to store recommendations for %s: %v", key, err)
		return fmt.Errorf("could not cache recommendations: %w", err)
	}
	return nil
}

// noopRecommendationCache is used when no redis address is configured.
type noopRecommendationCache struct{}

func NewNoopRecommendationCache() domain.RecommendationCache {
	return noopRecommendationCache{}
}

func (noopRecommendationCache) Get(context.Context, string) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (noopRecommendationCache) Set(context.Context, string, []domain.Product) error {
	return nil
}

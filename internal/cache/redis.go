package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skyaid/airambulance/config"
	"github.com/skyaid/airambulance/internal/domain"
	"github.com/skyaid/airambulance/internal/repository"
)

// RedisCache fronts the hospital/aircraft registries and the dashboard
// aggregates. Summaries change rarely; stats are recomputed on TTL expiry.
type RedisCache struct {
	client     *redis.Client
	summaryTTL time.Duration
	statsTTL   time.Duration
}

func NewRedisCache(cfg config.RedisConfig, summaryTTL, statsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		summaryTTL: summaryTTL,
		statsTTL:   statsTTL,
	}
}

func (c *RedisCache) GetHospital(ctx context.Context, id string) (*domain.HospitalSummary, error) {
	var h domain.HospitalSummary
	if err := c.get(ctx, hospitalKey(id), &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *RedisCache) SetHospital(ctx context.Context, h *domain.HospitalSummary) error {
	return c.set(ctx, hospitalKey(h.ID), h, c.summaryTTL)
}

func (c *RedisCache) GetAircraft(ctx context.Context, id string) (*domain.AircraftSummary, error) {
	var a domain.AircraftSummary
	if err := c.get(ctx, aircraftKey(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *RedisCache) SetAircraft(ctx context.Context, a *domain.AircraftSummary) error {
	return c.set(ctx, aircraftKey(a.ID), a, c.summaryTTL)
}

func (c *RedisCache) GetCompletedStats(ctx context.Context) (*repository.CompletedStats, error) {
	var stats repository.CompletedStats
	if err := c.get(ctx, statsKey(), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *RedisCache) SetCompletedStats(ctx context.Context, stats *repository.CompletedStats) error {
	return c.set(ctx, statsKey(), stats, c.statsTTL)
}

func (c *RedisCache) get(ctx context.Context, key string, out interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *RedisCache) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func hospitalKey(id string) string {
	return fmt.Sprintf("cache:hospital:%s", id)
}

func aircraftKey(id string) string {
	return fmt.Sprintf("cache:aircraft:%s", id)
}

func statsKey() string {
	return "cache:dashboard:completed_stats"
}

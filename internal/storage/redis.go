// ABOUTME: Redis backend: metrics, days, and metadata in three hashes under a key prefix.
// ABOUTME: Every changeset is one MULTI/EXEC pipeline.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harperreed/frame/internal/models"
)

const (
	// DefaultRedisPrefix namespaces the hashes when no prefix is configured.
	DefaultRedisPrefix = "frame"

	redisMetaField = "board"
	redisTimeout   = 5 * time.Second
)

// RedisOptions configures the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis is the redis board backend.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects and pings the server.
func OpenRedis(opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) metricsKey() string { return r.prefix + ":metrics" }
func (r *Redis) daysKey() string    { return r.prefix + ":days" }
func (r *Redis) metaKey() string    { return r.prefix + ":meta" }

func (r *Redis) Commit(cs models.Changeset) error {
	metrics := make([]any, 0, len(cs.Metrics)*2)
	for _, m := range cs.Metrics {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal metric: %w", err)
		}
		metrics = append(metrics, m.ID, data)
	}
	days := make([]any, 0, len(cs.Days)*2)
	for _, d := range cs.Days {
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal day: %w", err)
		}
		days = append(days, d.Date, data)
	}
	meta, err := json.Marshal(cs.Meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if cs.Reset {
			pipe.Del(ctx, r.metricsKey(), r.daysKey(), r.metaKey())
		}
		if len(cs.DeletedMetricIDs) > 0 {
			pipe.HDel(ctx, r.metricsKey(), cs.DeletedMetricIDs...)
		}
		if len(metrics) > 0 {
			pipe.HSet(ctx, r.metricsKey(), metrics...)
		}
		if len(days) > 0 {
			pipe.HSet(ctx, r.daysKey(), days...)
		}
		pipe.HSet(ctx, r.metaKey(), redisMetaField, meta)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis commit: %w", err)
	}
	return nil
}

func (r *Redis) Load() (models.Board, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	var b models.Board

	metrics, err := r.client.HGetAll(ctx, r.metricsKey()).Result()
	if err != nil {
		return b, fmt.Errorf("load metrics: %w", err)
	}
	for id, raw := range metrics {
		var m models.MetricDefinition
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return b, fmt.Errorf("unmarshal metric %s: %w", id, err)
		}
		b.Metrics = append(b.Metrics, m)
	}

	days, err := r.client.HGetAll(ctx, r.daysKey()).Result()
	if err != nil {
		return b, fmt.Errorf("load days: %w", err)
	}
	for date, raw := range days {
		var d models.DayEntry
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return b, fmt.Errorf("unmarshal day %s: %w", date, err)
		}
		if d.Values == nil {
			d.Values = map[string]models.Value{}
		}
		b.Days = append(b.Days, d)
	}

	raw, err := r.client.HGet(ctx, r.metaKey(), redisMetaField).Result()
	switch {
	case err == redis.Nil:
	case err != nil:
		return b, fmt.Errorf("load meta: %w", err)
	default:
		var meta models.BoardMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return b, fmt.Errorf("unmarshal meta: %w", err)
		}
		b.SelectedMonth = meta.SelectedMonth
		b.UpdatedAt = meta.UpdatedAt
	}

	models.SortMetrics(b.Metrics)
	models.SortDays(b.Days)
	return b, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

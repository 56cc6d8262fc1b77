package redisrepo

import (
	"context"
	"time"

	"github.com/BloggingApp/board-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Default interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) (int64, error)
	// DeleteByPattern removes every key matching a glob pattern. It is best-effort:
	// stores without SCAN support report zero deletions and no error.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
	Ping(ctx context.Context) error
}

type RedisRepository struct {
	Default
}

func New(rdb redis.Cmdable, logger *zap.Logger, cfg config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(rdb, logger, cfg),
	}
}

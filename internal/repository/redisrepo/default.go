package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/BloggingApp/board-service/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultOpTimeout = time.Second * 2
	defaultScanBatch = 100
)

var errScanUnsupported = errors.New("store does not support SCAN")

// store is the subset of redis.Cmdable the adapter relies on.
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

type scanner interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

type defaultRepo struct {
	rdb       store
	logger    *zap.Logger
	opTimeout time.Duration
	scanBatch int64
}

func newDefaultRepo(rdb store, logger *zap.Logger, cfg config.RedisConfig) Default {
	opTimeout := cfg.OpTimeout
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	scanBatch := cfg.ScanBatch
	if scanBatch <= 0 {
		scanBatch = defaultScanBatch
	}

	return &defaultRepo{
		rdb:       rdb,
		logger:    logger,
		opTimeout: opTimeout,
		scanBatch: scanBatch,
	}
}

func (r *defaultRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	if err := r.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return err
	}

	return nil
}

func (r *defaultRepo) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.Set(ctx, key, valueJSON, ttl)
}

func (r *defaultRepo) Get(ctx context.Context, key string) *redis.StringCmd {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	cmd := r.rdb.Get(ctx, key)
	if err := cmd.Err(); err != nil && err != redis.Nil {
		CacheErrors.WithLabelValues("get").Inc()
	}

	return cmd
}

// Get decodes a JSON value stored under key. A missing key is reported as redis.Nil.
func Get[T any](r Default, ctx context.Context, key string) (*T, error) {
	value, err := r.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.Inc()
		}
		return nil, err
	}

	CacheHits.Inc()

	if value == "null" {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *defaultRepo) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	deleted, err := r.rdb.Del(ctx, keys...).Result()
	if err != nil {
		CacheErrors.WithLabelValues("del").Inc()
		return 0, err
	}

	return deleted, nil
}

func (r *defaultRepo) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	sc, ok := r.rdb.(scanner)
	if !ok {
		r.logger.Sugar().Warnf("skipping invalidation of pattern(%s): %s", pattern, errScanUnsupported.Error())
		return 0, nil
	}

	var (
		cursor  uint64
		deleted int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		keys, next, err := r.scan(ctx, sc, cursor, pattern)
		if err != nil {
			if errors.Is(err, errScanUnsupported) {
				r.logger.Sugar().Warnf("skipping invalidation of pattern(%s): %s", pattern, err.Error())
				return deleted, nil
			}
			return deleted, err
		}

		for len(keys) > 0 {
			if err := ctx.Err(); err != nil {
				return deleted, err
			}

			batch := keys
			if int64(len(batch)) > r.scanBatch {
				batch = keys[:r.scanBatch]
			}
			keys = keys[len(batch):]

			n, err := r.Del(ctx, batch...)
			if err != nil {
				return deleted, err
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	InvalidatedKeys.Add(float64(deleted))

	return deleted, nil
}

func (r *defaultRepo) scan(ctx context.Context, sc scanner, cursor uint64, pattern string) ([]string, uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	keys, next, err := sc.Scan(ctx, cursor, pattern, r.scanBatch).Result()
	if err != nil {
		CacheErrors.WithLabelValues("scan").Inc()
		if strings.Contains(strings.ToLower(err.Error()), "unknown command") {
			return nil, 0, errScanUnsupported
		}
		return nil, 0, err
	}

	return keys, next, nil
}

func (r *defaultRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	return r.rdb.Ping(ctx).Err()
}

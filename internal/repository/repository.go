package repository

import (
	"github.com/BloggingApp/board-service/internal/config"
	"github.com/BloggingApp/board-service/internal/repository/postgres"
	"github.com/BloggingApp/board-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	Postgres *postgres.PostgresRepository
	Redis    *redisrepo.RedisRepository
}

func New(db *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger, redisCfg config.RedisConfig) *Repository {
	repo := &Repository{
		Postgres: postgres.New(db),
	}
	if rdb != nil {
		repo.Redis = redisrepo.New(rdb, logger, redisCfg)
	}

	return repo
}

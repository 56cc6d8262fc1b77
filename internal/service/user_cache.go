package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/BloggingApp/board-service/internal/model"
	"github.com/BloggingApp/board-service/internal/rabbitmq"
	"github.com/BloggingApp/board-service/internal/repository"
	"github.com/BloggingApp/board-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger *zap.Logger
	repo   *repository.Repository
	now    func() time.Time
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository) *userCacheService {
	return &userCacheService{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

// EnsureFresh rewrites the mirror record from the identity the request was
// authenticated with when the record is missing or older than
// model.CachedUserSyncThreshold. Failures are logged and swallowed.
func (s *userCacheService) EnsureFresh(ctx context.Context, id uuid.UUID, email string, nickname string) {
	cachedUser, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Sugar().Errorf("failed to find cached user(%s) in postgres: %s", id.String(), err.Error())
		return
	}

	now := s.now()
	if cachedUser != nil && !cachedUser.IsStale(now) {
		return
	}

	// upsert logs its own failures
	_ = s.upsert(ctx, model.CachedUser{
		ID:           id,
		Email:        email,
		Nickname:     nickname,
		LastSyncedAt: now,
	})
}

func (s *userCacheService) upsert(ctx context.Context, user model.CachedUser) error {
	if err := s.repo.Postgres.UserCache.Upsert(ctx, user); err != nil {
		s.logger.Sugar().Errorf("failed to upsert cached user(%s): %s", user.ID.String(), err.Error())
		return ErrInternal
	}

	if _, err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(user.ID)); err != nil {
		s.logger.Sugar().Warnf("failed to delete cached user(%s) from redis: %s", user.ID.String(), err.Error())
	}

	return nil
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	key := redisrepo.UserCacheKey(id)

	cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, key)
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Warnf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
	}

	user, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to get cached user(%s) from postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, user, redisrepo.USER_CACHE_TTL); err != nil {
		s.logger.Sugar().Warnf("failed to set cached user(%s) in redis: %s", id.String(), err.Error())
	}

	return user, nil
}

// ApplyUpdate stores identity changes announced by the auth service and
// rewrites the author fields copied onto that user's posts.
func (s *userCacheService) ApplyUpdate(ctx context.Context, msg dto.MQUserInfoUpdatedMsg) error {
	if err := s.upsert(ctx, model.CachedUser{
		ID:           msg.UserID,
		Email:        msg.Email,
		Nickname:     msg.Nickname,
		LastSyncedAt: s.now(),
	}); err != nil {
		return err
	}

	refreshed, err := s.repo.Postgres.Post.RefreshAuthor(ctx, msg.UserID, msg.Email, msg.Nickname)
	if err != nil {
		s.logger.Sugar().Errorf("failed to refresh author(%s) fields on posts: %s", msg.UserID.String(), err.Error())
		return ErrInternal
	}

	// post:<id> copies keep the old author fields until POST_TTL runs out
	if refreshed > 0 {
		if _, err := s.repo.Redis.Default.DeleteByPattern(ctx, redisrepo.POSTS_PATTERN); err != nil {
			s.logger.Sugar().Warnf("failed to invalidate post lists(%s) in redis: %s", redisrepo.POSTS_PATTERN, err.Error())
		}
	}

	return nil
}

func (s *userCacheService) consumeUserUpdates(ctx context.Context, consumer Consumer) {
	queue := rabbitmq.USER_INFO_UPDATED_QUEUE
	msgs, err := consumer.Consume(queue)
	if err != nil {
		s.logger.Sugar().Errorf("failed to start consume updates from queue(%s): %s", queue, err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				s.logger.Sugar().Warnf("queue(%s) delivery channel closed", queue)
				return
			}
			s.handleUserUpdate(ctx, msg)
		}
	}
}

func (s *userCacheService) handleUserUpdate(ctx context.Context, msg amqp.Delivery) {
	queue := rabbitmq.USER_INFO_UPDATED_QUEUE

	var data dto.MQUserInfoUpdatedMsg
	if err := json.Unmarshal(msg.Body, &data); err != nil {
		s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
		msg.Nack(false, false)
		return
	}

	if data.UserID == uuid.Nil {
		s.logger.Sugar().Errorf("'user_id' field is not provided in queue(%s)", queue)
		msg.Nack(false, false)
		return
	}

	if err := s.ApplyUpdate(ctx, data); err != nil {
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

package service

import (
	"context"
	"math"
	"time"

	"github.com/BloggingApp/board-service/internal/config"
	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/BloggingApp/board-service/internal/model"
	"github.com/BloggingApp/board-service/internal/repository"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	DEFAULT_PAGE  = 1
	DEFAULT_LIMIT = 10
	MAX_LIMIT     = 100
	// MAX_PAGE keeps (page-1)*limit inside int for any accepted limit.
	MAX_PAGE = math.MaxInt32

	invalidationTimeout = time.Second * 10
)

func normalizePage(page *int) {
	if *page < 1 {
		*page = DEFAULT_PAGE
	}
	if *page > MAX_PAGE {
		*page = MAX_PAGE
	}
}

func normalizeLimit(limit *int) {
	if *limit < 1 {
		*limit = DEFAULT_LIMIT
	}
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	Create(ctx context.Context, requester model.Requester, req dto.CreatePostRequest) (*model.Post, error)
	FindMany(ctx context.Context, page int, limit int, search string) (*dto.PostsPage, error)
	// FindByID accepts a nil requester for anonymous reads.
	FindByID(ctx context.Context, id uuid.UUID, requester *model.Requester) (*model.Post, error)
	FindMy(ctx context.Context, requester model.Requester) ([]*model.Post, error)
	Update(ctx context.Context, id uuid.UUID, requester model.Requester, req dto.EditPostRequest) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID, requester model.Requester) error
}

type UserCache interface {
	EnsureFresh(ctx context.Context, id uuid.UUID, email string, nickname string)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	ApplyUpdate(ctx context.Context, msg dto.MQUserInfoUpdatedMsg) error
}

type Auth interface {
	SignUp(ctx context.Context, req dto.SignUpRequest) (*model.User, error)
	SignIn(ctx context.Context, req dto.SignInRequest) (string, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (*model.User, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, queue string, v interface{}) error
}

type Consumer interface {
	Consume(queue string) (<-chan amqp.Delivery, error)
}

type Config struct {
	Sync config.SyncConfig
	Auth config.AuthConfig
}

type Service struct {
	Post
	UserCache
	Auth

	userCache *userCacheService
	pool      *backgroundPool
}

func New(logger *zap.Logger, repo *repository.Repository, publisher Publisher, cfg Config) *Service {
	pool := newBackgroundPool(logger, cfg.Sync.Workers, cfg.Sync.Timeout)
	userCache := newUserCacheService(logger, repo)

	return &Service{
		Post:      newPostService(logger, repo, userCache, pool),
		UserCache: userCache,
		Auth:      newAuthService(logger, repo, publisher, cfg.Auth),
		userCache: userCache,
		pool:      pool,
	}
}

// StartConsumeAll blocks until ctx is done or the delivery channel is closed.
func (s *Service) StartConsumeAll(ctx context.Context, consumer Consumer) {
	s.userCache.consumeUserUpdates(ctx, consumer)
}

// Wait blocks until background identity syncs have finished.
func (s *Service) Wait() {
	s.pool.Wait()
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/BloggingApp/board-service/internal/model"
	"github.com/BloggingApp/board-service/internal/repository"
	"github.com/BloggingApp/board-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// postService keeps the redis copies of posts consistent with postgres.
//
// Reads go through the cache: list pages under posts:page=..:limit=..:search=..
// for POSTS_TTL, single posts under post:<id> for POST_TTL. Writes hit postgres
// first and then drop post:<id> and every posts:* key, since a new or changed
// post can shift any page of any search. A reader racing a write may still be
// served the old copy until the invalidation lands, or until the TTL expires if
// the process dies in between.
//
// Redis failures are logged and never returned: postgres is always the fallback.
type postService struct {
	logger    *zap.Logger
	repo      *repository.Repository
	userCache UserCache
	pool      *backgroundPool
}

func newPostService(logger *zap.Logger, repo *repository.Repository, userCache UserCache, pool *backgroundPool) Post {
	return &postService{
		logger:    logger,
		repo:      repo,
		userCache: userCache,
		pool:      pool,
	}
}

func (s *postService) Create(ctx context.Context, requester model.Requester, req dto.CreatePostRequest) (*model.Post, error) {
	s.pool.Go(ctx, "sync cached user "+requester.ID.String(), func(ctx context.Context) error {
		s.userCache.EnsureFresh(ctx, requester.ID, requester.Email, requester.Nickname)
		return nil
	})

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := model.Post{
		Title:          req.Title,
		Content:        req.Content,
		IsPublic:       isPublic,
		AuthorID:       requester.ID,
		AuthorEmail:    optional(requester.Email),
		AuthorNickname: optional(requester.Nickname),
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", requester.ID.String(), err.Error())
		return nil, ErrInternal
	}

	s.invalidatePostLists(ctx)

	return createdPost, nil
}

func (s *postService) FindMany(ctx context.Context, page int, limit int, search string) (*dto.PostsPage, error) {
	normalizePage(&page)
	normalizeLimit(&limit)
	search = strings.TrimSpace(search)

	key := redisrepo.PostsKey(page, limit, search)

	// "none" would collide with the unfiltered list key
	if search == redisrepo.SEARCH_NONE {
		return s.searchPosts(ctx, key, page, limit, search)
	}

	cachedPage, err := redisrepo.Get[dto.PostsPage](s.repo.Redis.Default, ctx, key)
	if err == nil && cachedPage != nil {
		return cachedPage, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Warnf("failed to get posts page(%s) from redis: %s", key, err.Error())
	}

	result, err := s.searchPosts(ctx, key, page, limit, search)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, result, redisrepo.POSTS_TTL); err != nil {
		s.logger.Sugar().Warnf("failed to set posts page(%s) in redis: %s", key, err.Error())
	}

	return result, nil
}

func (s *postService) searchPosts(ctx context.Context, key string, page int, limit int, search string) (*dto.PostsPage, error) {
	posts, total, err := s.repo.Postgres.Post.Search(ctx, page, limit, search)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts(%s) in postgres: %s", key, err.Error())
		return nil, ErrInternal
	}

	result := dto.NewPostsPage(posts, total, page, limit)
	return &result, nil
}

func (s *postService) FindByID(ctx context.Context, id uuid.UUID, requester *model.Requester) (*model.Post, error) {
	post, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// cached copies carry no notion of who may read them, so this runs on hits too
	if !post.VisibleTo(requester) {
		return nil, ErrForbidden
	}

	return post, nil
}

func (s *postService) findByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	key := redisrepo.PostKey(id)

	cachedPost, err := redisrepo.Get[model.Post](s.repo.Redis.Default, ctx, key)
	if err == nil && cachedPost != nil {
		return cachedPost, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Warnf("failed to get post(%s) from redis: %s", id.String(), err.Error())
	}

	post, err := s.findByIDFromDB(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, post, redisrepo.POST_TTL); err != nil {
		s.logger.Sugar().Warnf("failed to set post(%s) in redis: %s", id.String(), err.Error())
	}

	return post, nil
}

func (s *postService) findByIDFromDB(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s) in postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	return post, nil
}

func (s *postService) FindMy(ctx context.Context, requester model.Requester) ([]*model.Post, error) {
	posts, err := s.repo.Postgres.Post.FindByAuthor(ctx, requester.ID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts in postgres: %s", requester.ID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) Update(ctx context.Context, id uuid.UUID, requester model.Requester, req dto.EditPostRequest) (*model.Post, error) {
	post, err := s.findOwnedPost(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}

	if err := s.repo.Postgres.Post.Update(ctx, *post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to update post(%s) in postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	s.invalidatePost(ctx, id)
	s.invalidatePostLists(ctx)

	return post, nil
}

func (s *postService) Delete(ctx context.Context, id uuid.UUID, requester model.Requester) error {
	if _, err := s.findOwnedPost(ctx, id, requester); err != nil {
		return err
	}

	if err := s.repo.Postgres.Post.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to delete post(%s) from postgres: %s", id.String(), err.Error())
		return ErrInternal
	}

	s.invalidatePost(ctx, id)
	s.invalidatePostLists(ctx)

	return nil
}

// findOwnedPost reads the current row, skipping redis, and checks authorship.
func (s *postService) findOwnedPost(ctx context.Context, id uuid.UUID, requester model.Requester) (*model.Post, error) {
	post, err := s.findByIDFromDB(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.IsOwnedBy(requester.ID) {
		return nil, ErrForbidden
	}

	return post, nil
}

// Invalidations outlive the request context: the row is already written and a
// client hanging up must not leave stale pages behind. They are bounded by
// invalidationTimeout instead.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), invalidationTimeout)
}

func (s *postService) invalidatePost(ctx context.Context, id uuid.UUID) {
	ctx, cancel := detach(ctx)
	defer cancel()

	if _, err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(id)); err != nil {
		s.logger.Sugar().Warnf("failed to delete post(%s) from redis: %s", id.String(), err.Error())
	}
}

func (s *postService) invalidatePostLists(ctx context.Context) {
	ctx, cancel := detach(ctx)
	defer cancel()

	if _, err := s.repo.Redis.Default.DeleteByPattern(ctx, redisrepo.POSTS_PATTERN); err != nil {
		s.logger.Sugar().Warnf("failed to invalidate post lists(%s) in redis: %s", redisrepo.POSTS_PATTERN, err.Error())
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

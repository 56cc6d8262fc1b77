package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BloggingApp/board-service/internal/model"
	"github.com/BloggingApp/board-service/internal/repository"
	"github.com/BloggingApp/board-service/internal/repository/postgres"
	"github.com/BloggingApp/board-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("connection refused")

// fakePostRepo is an in-memory postgres.Post.
type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]model.Post
	clock time.Time

	createCalls  int
	findCalls    int
	searchCalls  int
	updateCalls  int
	deleteCalls  int
	refreshCalls int

	failWith error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts: make(map[uuid.UUID]model.Post),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakePostRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.clock = r.clock.Add(time.Second)
	post.ID = uuid.New()
	post.CreatedAt = r.clock
	r.posts[post.ID] = post
	return &post, nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.findCalls++
	if r.failWith != nil {
		return nil, r.failWith
	}
	post, ok := r.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &post, nil
}

func (r *fakePostRepo) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return nil, r.failWith
	}
	posts := []*model.Post{}
	for _, post := range r.sorted() {
		if post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) Search(ctx context.Context, page int, limit int, query string) ([]*model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.searchCalls++
	if r.failWith != nil {
		return nil, 0, r.failWith
	}

	query = strings.ToLower(query)
	matched := []*model.Post{}
	for _, post := range r.sorted() {
		if !post.IsPublic {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(post.Title), query) &&
			!strings.Contains(strings.ToLower(post.Content), query) {
			continue
		}
		matched = append(matched, post)
	}

	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (r *fakePostRepo) Update(ctx context.Context, post model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updateCalls++
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.posts[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleteCalls++
	if r.failWith != nil {
		return r.failWith
	}
	if _, ok := r.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) RefreshAuthor(ctx context.Context, authorID uuid.UUID, email string, nickname string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refreshCalls++
	if r.failWith != nil {
		return 0, r.failWith
	}
	var n int64
	for id, post := range r.posts {
		if post.AuthorID == authorID {
			post.AuthorEmail = &email
			post.AuthorNickname = &nickname
			r.posts[id] = post
			n++
		}
	}
	return n, nil
}

func (r *fakePostRepo) sorted() []*model.Post {
	posts := make([]*model.Post, 0, len(r.posts))
	for _, post := range r.posts {
		post := post
		posts = append(posts, &post)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (r *fakePostRepo) get(id uuid.UUID) model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posts[id]
}

// fakeCache is an in-memory redisrepo.Default.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration

	getCalls     int
	setCalls     int
	delCalls     int
	patternCalls int

	failWith error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCalls++
	if c.failWith != nil {
		return c.failWith
	}
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, valueJSON, ttl)
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	if c.failWith != nil {
		return redis.NewStringResult("", c.failWith)
	}
	value, ok := c.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delCalls++
	if c.failWith != nil {
		return 0, c.failWith
	}
	var n int64
	for _, key := range keys {
		if _, ok := c.data[key]; ok {
			delete(c.data, key)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.patternCalls++
	if c.failWith != nil {
		return 0, c.failWith
	}
	var n int64
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.data, key)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Ping(ctx context.Context) error {
	return c.failWith
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func (c *fakeCache) keys(pattern string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func (c *fakeCache) invalidations() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delCalls, c.patternCalls
}

// fakeUserCacheRepo is an in-memory postgres.UserCache.
type fakeUserCacheRepo struct {
	mu          sync.Mutex
	users       map[uuid.UUID]model.CachedUser
	findCalls   int
	upsertCalls int
	findErr     error
	upsertErr   error
}

func newFakeUserCacheRepo() *fakeUserCacheRepo {
	return &fakeUserCacheRepo{users: make(map[uuid.UUID]model.CachedUser)}
}

func (r *fakeUserCacheRepo) Upsert(ctx context.Context, user model.CachedUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertCalls++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserCacheRepo) calls() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findCalls, r.upsertCalls
}

type testEnv struct {
	posts     *fakePostRepo
	users     *fakeUserCacheRepo
	cache     *fakeCache
	repo      *repository.Repository
	pool      *backgroundPool
	userCache *userCacheService
	svc       *postService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		posts: newFakePostRepo(),
		users: newFakeUserCacheRepo(),
		cache: newFakeCache(),
	}
	env.repo = &repository.Repository{
		Postgres: &postgres.PostgresRepository{Post: env.posts, UserCache: env.users},
		Redis:    &redisrepo.RedisRepository{Default: env.cache},
	}

	logger := zap.NewNop()
	env.pool = newBackgroundPool(logger, 4, time.Second)
	env.userCache = newUserCacheService(logger, env.repo)
	env.svc = newPostService(logger, env.repo, env.userCache, env.pool).(*postService)
	return env
}

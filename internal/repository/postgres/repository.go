package postgres

import (
	"context"

	"github.com/BloggingApp/board-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error)
	// Search returns a page of public posts, newest first, and the number of
	// public posts matching query overall. An empty query matches everything.
	Search(ctx context.Context, page int, limit int, query string) ([]*model.Post, int64, error)
	Update(ctx context.Context, post model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	RefreshAuthor(ctx context.Context, authorID uuid.UUID, email string, nickname string) (int64, error)
}

type UserCache interface {
	Upsert(ctx context.Context, user model.CachedUser) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
}

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (*model.User, error)
}

type PostgresRepository struct {
	Post
	UserCache
	User
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:      newPostRepo(db),
		UserCache: newUserCacheRepo(db),
		User:      newUserRepo(db),
	}
}

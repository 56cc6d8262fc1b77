package postgres

import (
	"context"

	"github.com/BloggingApp/board-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userCacheRepo struct {
	db *pgxpool.Pool
}

func newUserCacheRepo(db *pgxpool.Pool) UserCache {
	return &userCacheRepo{
		db: db,
	}
}

func (r *userCacheRepo) Upsert(ctx context.Context, user model.CachedUser) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO cached_users(id, email, nickname, last_synced_at) VALUES($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, nickname = EXCLUDED.nickname, last_synced_at = EXCLUDED.last_synced_at`,
		user.ID,
		user.Email,
		user.Nickname,
		user.LastSyncedAt,
	)
	return err
}

func (r *userCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	var user model.CachedUser
	if err := r.db.QueryRow(
		ctx,
		"SELECT u.id, u.email, u.nickname, u.last_synced_at FROM cached_users u WHERE u.id = $1",
		id,
	).Scan(
		&user.ID,
		&user.Email,
		&user.Nickname,
		&user.LastSyncedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

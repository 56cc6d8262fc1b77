package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/board-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) User {
	return &userRepo{
		db: db,
	}
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.CreatedAt = time.Now().UTC()
	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, email, password, nickname, created_at) VALUES($1, $2, $3, $4, $5)",
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		user.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "u.email = $1", email)
}

func (r *userRepo) findOne(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.QueryRow(
		ctx,
		"SELECT u.id, u.email, u.password, u.nickname, u.created_at FROM users u WHERE "+cond,
		arg,
	).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) UpdateNickname(ctx context.Context, id uuid.UUID, nickname string) (*model.User, error) {
	var user model.User
	if err := r.db.QueryRow(
		ctx,
		"UPDATE users SET nickname = $1 WHERE id = $2 RETURNING id, email, password, nickname, created_at",
		nickname,
		id,
	).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

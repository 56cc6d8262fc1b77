package postgres

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/BloggingApp/board-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postColumns = "p.id, p.title, p.content, p.is_public, p.author_id, p.author_email, p.author_nickname, p.created_at"

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	post.ID = uuid.New()
	post.CreatedAt = newTimestamp()
	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO posts(id, title, content, is_public, author_id, author_email, author_nickname, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		post.ID,
		post.Title,
		post.Content,
		post.IsPublic,
		post.AuthorID,
		post.AuthorEmail,
		post.AuthorNickname,
		post.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	row := r.db.QueryRow(ctx, "SELECT "+postColumns+" FROM posts p WHERE p.id = $1", id)
	return scanPost(row)
}

func (r *postRepo) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at DESC",
		authorID,
	)
	if err != nil {
		return nil, err
	}

	return scanPosts(rows)
}

func (r *postRepo) Search(ctx context.Context, page int, limit int, query string) ([]*model.Post, int64, error) {
	where := "WHERE p.is_public = true"
	args := []interface{}{}
	if query != "" {
		args = append(args, "%"+escapeLike(query)+"%")
		where += " AND (p.title ILIKE $1 OR p.content ILIKE $1)"
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts p "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	args = append(args, limit, pageOffset(page, limit))
	rows, err := r.db.Query(
		ctx,
		"SELECT "+postColumns+" FROM posts p "+where+
			" ORDER BY p.created_at DESC LIMIT $"+strconv.Itoa(n+1)+" OFFSET $"+strconv.Itoa(n+2),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *postRepo) Update(ctx context.Context, post model.Post) error {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE posts SET title = $1, content = $2, is_public = $3 WHERE id = $4",
		post.Title,
		post.Content,
		post.IsPublic,
		post.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *postRepo) RefreshAuthor(ctx context.Context, authorID uuid.UUID, email string, nickname string) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		"UPDATE posts SET author_email = $1, author_nickname = $2 WHERE author_id = $3",
		email,
		nickname,
		authorID,
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.IsPublic,
		&post.AuthorID,
		&post.AuthorEmail,
		&post.AuthorNickname,
		&post.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func scanPosts(rows pgx.Rows) ([]*model.Post, error) {
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// escapeLike makes query match literally inside an ILIKE pattern.
func escapeLike(query string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
}

// newTimestamp matches the microsecond precision postgres stores.
func newTimestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// pageOffset returns (page-1)*limit, saturating instead of overflowing.
func pageOffset(page int, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

//go:build integration

package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/BloggingApp/board-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

//go:embed testdata/schema.sql
var schema string

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "board",
			"POSTGRES_PASSWORD": "board",
			"POSTGRES_DB":       "board",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Postgres endpoint: %v", err)
	}

	pool, err := pgxpool.New(ctx, fmt.Sprintf("postgres://board:board@%s/board?sslmode=disable", endpoint))
	if err != nil {
		t.Fatalf("Failed to connect to Postgres: %v", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		container.Terminate(context.Background())
	})

	return pool
}

func TestPostRepo_Integration_Search(t *testing.T) {
	repo := New(setupPostgres(t))
	ctx := context.Background()
	author := uuid.New()

	inputs := []model.Post{
		{Title: "Hello Go", Content: "first", IsPublic: true, AuthorID: author},
		{Title: "Private", Content: "golang secrets", IsPublic: false, AuthorID: author},
		{Title: "Redis", Content: "caching with GO", IsPublic: true, AuthorID: author},
		{Title: "100% done", Content: "literal percent", IsPublic: true, AuthorID: author},
	}
	for _, p := range inputs {
		if _, err := repo.Post.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	posts, total, err := repo.Post.Search(ctx, 1, 10, "go")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Fatalf("Search(go) total=%d len=%d, want 2/2", total, len(posts))
	}
	if posts[0].Title != "Redis" || posts[1].Title != "Hello Go" {
		t.Errorf("Search(go) order = [%s, %s], want newest first", posts[0].Title, posts[1].Title)
	}

	posts, total, err = repo.Post.Search(ctx, 2, 2, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 3 || len(posts) != 1 {
		t.Fatalf("Search page 2 total=%d len=%d, want 3/1", total, len(posts))
	}

	_, total, err = repo.Post.Search(ctx, 1, 10, "%")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 {
		t.Errorf("Search(%%) total=%d, want 1", total)
	}

	mine, err := repo.Post.FindByAuthor(ctx, author)
	if err != nil {
		t.Fatalf("FindByAuthor failed: %v", err)
	}
	if len(mine) != 4 || mine[0].Title != "100% done" {
		t.Errorf("FindByAuthor returned %d posts, first %q", len(mine), mine[0].Title)
	}
}

func TestPostRepo_Integration_UpdateDelete(t *testing.T) {
	repo := New(setupPostgres(t))
	ctx := context.Background()

	created, err := repo.Post.Create(ctx, model.Post{Title: "A", Content: "B", IsPublic: true, AuthorID: uuid.New()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stored, err := repo.Post.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if !stored.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v after a round trip, Create returned %v", stored.CreatedAt, created.CreatedAt)
	}

	created.Title = "A2"
	if err := repo.Post.Update(ctx, *created); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.Post.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Title != "A2" {
		t.Errorf("Title = %s, want A2", found.Title)
	}

	if err := repo.Post.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Post.Delete(ctx, created.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("second Delete error = %v, want pgx.ErrNoRows", err)
	}
	if _, err := repo.Post.FindByID(ctx, created.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Errorf("FindByID after delete error = %v, want pgx.ErrNoRows", err)
	}
}

func TestUserRepos_Integration(t *testing.T) {
	repo := New(setupPostgres(t))
	ctx := context.Background()

	user := model.User{ID: uuid.New(), Email: "u1@example.com", PasswordHash: "hash", Nickname: "u1"}
	if _, err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	user.ID = uuid.New()
	if _, err := repo.User.Create(ctx, user); !IsUniqueViolation(err) {
		t.Errorf("duplicate email error = %v, want unique violation", err)
	}

	mirror := model.CachedUser{ID: uuid.New(), Email: "m@example.com", Nickname: "old", LastSyncedAt: time.Now().UTC()}
	if err := repo.UserCache.Upsert(ctx, mirror); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	mirror.Nickname = "new"
	if err := repo.UserCache.Upsert(ctx, mirror); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	found, err := repo.UserCache.FindByID(ctx, mirror.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Nickname != "new" {
		t.Errorf("Nickname = %s, want new", found.Nickname)
	}
}

func TestPostRepo_Integration_SearchPastLastPage(t *testing.T) {
	repo := New(setupPostgres(t))
	ctx := context.Background()

	if _, err := repo.Post.Create(ctx, model.Post{Title: "A", Content: "B", IsPublic: true, AuthorID: uuid.New()}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, page := range []int{2, math.MaxInt32, math.MaxInt} {
		posts, total, err := repo.Post.Search(ctx, page, 10, "")
		if err != nil {
			t.Fatalf("Search(page=%d) failed: %v", page, err)
		}
		if len(posts) != 0 || total != 1 {
			t.Errorf("Search(page=%d) = %d posts, total %d, want 0 and 1", page, len(posts), total)
		}
	}
}

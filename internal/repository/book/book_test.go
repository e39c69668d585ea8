package book

import (
	"context"
	"errors"
	"os"
	"testing"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_CreateListGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.Book{Title: "Go in Action", Author: "William Kennedy", Price: 45000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || !created.Active {
		t.Fatalf("unexpected created book %+v", created)
	}

	list, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 book, got %d", len(list))
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Go in Action" || got.Price != 45000 {
		t.Fatalf("unexpected book %+v", got)
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_UpdateAndDeactivate(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.Book{Title: "Learning Go", Author: "Jon Bodner", Price: 22000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Price = 25000
	updated, err := repo.Update(ctx, *created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 25000 {
		t.Fatalf("price not updated: %+v", updated)
	}

	if err := repo.Deactivate(ctx, created.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	list, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deactivated book still listed: %+v", list)
	}

	// Updating a deactivated book reads as not found.
	if _, err := repo.Update(ctx, *created); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Deactivate(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second deactivate should be ErrNotFound, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE tokens, orders, books, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

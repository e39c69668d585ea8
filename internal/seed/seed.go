package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type bookSeed struct {
	Title       string
	Author      string
	Description string
	Price       int64
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	if err := ensureAdmin(ctx, pool, "admin@bookstore.local", "changeme123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	books := []bookSeed{
		{
			Title:       "Go in Action",
			Author:      "William Kennedy",
			Description: "Hands-on introduction to Go for working developers",
			Price:       45000,
		},
		{
			Title:       "Learning Go",
			Author:      "Jon Bodner",
			Description: "Idiomatic Go from the ground up",
			Price:       22000,
		},
		{
			Title:       "The Go Programming Language",
			Author:      "Alan Donovan, Brian Kernighan",
			Description: "The standard reference",
			Price:       8100,
		},
	}

	for _, b := range books {
		if err := upsertBook(ctx, pool, b); err != nil {
			return fmt.Errorf("upsert book %q: %w", b.Title, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (id, email, password_hash, name, is_admin)
VALUES ($1, $2, $3, 'Admin', TRUE)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, uuid.NewString(), email, string(hashed))
	return err
}

func upsertBook(ctx context.Context, pool *pgxpool.Pool, b bookSeed) error {
	const q = `
INSERT INTO books (title, author, description, price, active)
SELECT $1, $2, $3, $4, TRUE
WHERE NOT EXISTS (SELECT 1 FROM books WHERE title = $1 AND author = $2)
`
	_, err := pool.Exec(ctx, q, b.Title, b.Author, b.Description, b.Price)
	return err
}

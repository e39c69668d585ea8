package book

import (
	"context"
	"errors"
	"io"
	"log"

	"bookstore-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Book, error) {
	const q = `
SELECT id, title, author, COALESCE(description, ''), price, active, created_at
FROM books
WHERE active
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("book repo: list active error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.Active, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("book repo: list active rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	const q = `
SELECT id, title, author, COALESCE(description, ''), price, active, created_at
FROM books
WHERE id = $1
`
	var b domain.Book
	err := r.pool.QueryRow(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Price, &b.Active, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("book repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) Create(ctx context.Context, book domain.Book) (*domain.Book, error) {
	const q = `
INSERT INTO books (title, author, description, price, active)
VALUES ($1, $2, NULLIF($3, ''), $4, TRUE)
RETURNING id, created_at
`
	err := r.pool.QueryRow(ctx, q, book.Title, book.Author, book.Description, book.Price).
		Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		r.logger.Printf("book repo: create title=%q error=%v", book.Title, err)
		return nil, err
	}
	book.Active = true
	r.logger.Printf("book repo: created id=%d title=%q price=%d", book.ID, book.Title, book.Price)
	return &book, nil
}

func (r *postgresRepo) Update(ctx context.Context, book domain.Book) (*domain.Book, error) {
	const q = `
UPDATE books
SET title = $2, author = $3, description = NULLIF($4, ''), price = $5
WHERE id = $1 AND active
RETURNING created_at
`
	err := r.pool.QueryRow(ctx, q, book.ID, book.Title, book.Author, book.Description, book.Price).
		Scan(&book.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("book repo: update id=%d error=%v", book.ID, err)
		return nil, err
	}
	book.Active = true
	r.logger.Printf("book repo: updated id=%d price=%d", book.ID, book.Price)
	return &book, nil
}

func (r *postgresRepo) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE books SET active = FALSE WHERE id = $1 AND active`, id)
	if err != nil {
		r.logger.Printf("book repo: deactivate id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("book repo: deactivated id=%d", id)
	return nil
}

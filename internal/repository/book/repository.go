package book

import (
	"context"

	"bookstore-api/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	Create(ctx context.Context, book domain.Book) (*domain.Book, error)
	Update(ctx context.Context, book domain.Book) (*domain.Book, error)
	Deactivate(ctx context.Context, id int64) error
}

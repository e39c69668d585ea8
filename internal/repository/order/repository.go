package order

import (
	"context"

	"bookstore-api/internal/domain"
)

// ListFilter narrows the administrative listing. Zero values mean no filter.
type ListFilter struct {
	Status string
	Page   int
	Size   int
}

type Repository interface {
	Insert(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetByRef(ctx context.Context, orderRef string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

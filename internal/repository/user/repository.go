package user

import (
	"context"

	"bookstore-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

package catalog

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"bookstore-api/internal/domain"
	bookrepo "bookstore-api/internal/repository/book"
)

// Service exposes catalog browsing and the admin mutations. Every mutation
// refreshes the master cache synchronously so checkout never validates
// against a price the admin API already replaced.
type Service struct {
	repo   bookrepo.Repository
	cache  *Cache
	logger *log.Logger
}

func New(repo bookrepo.Repository, cache *Cache, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

func (s *Service) List(ctx context.Context) ([]domain.Book, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Active {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *Service) Create(ctx context.Context, in BookInput) (*domain.Book, error) {
	if err := validateBookInput(in); err != nil {
		return nil, err
	}
	b, err := s.repo.Create(ctx, domain.Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Description: in.Description,
		Price:       in.Price,
	})
	if err != nil {
		return nil, err
	}
	if err := s.cache.Refresh(ctx); err != nil {
		s.logger.Printf("catalog: cache refresh after create id=%d error=%v", b.ID, err)
		return nil, err
	}
	return b, nil
}

func (s *Service) Update(ctx context.Context, id int64, in BookInput) (*domain.Book, error) {
	if err := validateBookInput(in); err != nil {
		return nil, err
	}
	b, err := s.repo.Update(ctx, domain.Book{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		Description: in.Description,
		Price:       in.Price,
	})
	if err != nil {
		return nil, err
	}
	if err := s.cache.Refresh(ctx); err != nil {
		s.logger.Printf("catalog: cache refresh after update id=%d error=%v", id, err)
		return nil, err
	}
	return b, nil
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Refresh(ctx); err != nil {
		s.logger.Printf("catalog: cache refresh after deactivate id=%d error=%v", id, err)
		return err
	}
	return nil
}

func validateBookInput(in BookInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return errors.New("title required")
	}
	if in.Price <= 0 {
		return errors.New("price must be positive")
	}
	return nil
}

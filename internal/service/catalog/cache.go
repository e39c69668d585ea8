package catalog

import (
	"context"
	"sync"

	"bookstore-api/internal/domain"
)

// Cache holds a snapshot of the active catalog keyed by book id. Checkout
// validation reads it for master prices, so it must be refreshed before any
// catalog mutation returns to the caller. Readers see either the pre- or
// post-refresh snapshot; refreshes are rare admin events.
type Cache struct {
	repo bookLister

	mu    sync.RWMutex
	books map[int64]domain.Book
}

type bookLister interface {
	ListActive(ctx context.Context) ([]domain.Book, error)
}

func NewCache(repo bookLister) *Cache {
	return &Cache{repo: repo, books: map[int64]domain.Book{}}
}

// Refresh replaces the snapshot with the current set of active books.
func (c *Cache) Refresh(ctx context.Context) error {
	books, err := c.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	next := make(map[int64]domain.Book, len(books))
	for _, b := range books {
		next[b.ID] = b
	}
	c.mu.Lock()
	c.books = next
	c.mu.Unlock()
	return nil
}

// Lookup returns the active book with the given id, if present. Deactivated
// and deleted books are absent because only active rows are loaded.
func (c *Cache) Lookup(id int64) (domain.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.books[id]
	return b, ok
}

// Len reports the snapshot size.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.books)
}

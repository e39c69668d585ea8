package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore-api/internal/domain"
	catalogsvc "bookstore-api/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

func listBooksHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		books, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
			return
		}
		if books == nil {
			books = []domain.Book{}
		}
		c.JSON(http.StatusOK, gin.H{"books": books})
	}
}

func getBookHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookID(c)
		if !ok {
			return
		}
		book, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load book"})
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

func createBookHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.BookInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		book, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, book)
	}
}

func updateBookHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookID(c)
		if !ok {
			return
		}
		var in catalogsvc.BookInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		book, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, book)
	}
}

func deactivateBookHandler(svc CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookID(c)
		if !ok {
			return
		}
		if err := svc.Deactivate(c.Request.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate book"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return 0, false
	}
	return id, true
}

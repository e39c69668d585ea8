package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"bookstore-api/internal/domain"
	orderrepo "bookstore-api/internal/repository/order"
	"github.com/gin-gonic/gin"
)

func listMyOrdersHandler(store OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		orders, err := store.ListByUser(c.Request.Context(), u.ID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listAllOrdersHandler(store OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status != "" && !domain.ValidOrderStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

		orders, total, err := store.List(c.Request.Context(), orderrepo.ListFilter{
			Status: status,
			Page:   page,
			Size:   size,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page})
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

func updateOrderStatusHandler(store OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
			return
		}
		err := store.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidStatus):
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
			}
			return
		}
		c.Status(http.StatusNoContent)
	}
}

package httpserver

import (
	"errors"
	"net/http"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/payment"
	checkoutsvc "bookstore-api/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

// confirmPaymentHandler drives the payment confirmation flow. The error
// shapes are deliberate: validation failures carry a generic message plus a
// machine-readable detail of server-computed facts, provider failures are
// surfaced verbatim, and a post-approval persistence failure is a 500-class
// error naming the provider reference for manual reconciliation.
func confirmPaymentHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var in checkoutsvc.ConfirmInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		res, err := svc.Confirm(c.Request.Context(), u.ID, in)
		if err != nil {
			writeConfirmError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func writeConfirmError(c *gin.Context, err error) {
	var fieldErr *checkoutsvc.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Error()})
		return
	}

	var valErr *checkoutsvc.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "order verification failed",
			"detail": valErr.Detail,
		})
		return
	}

	var provErr *payment.Error
	if errors.As(err, &provErr) {
		status := provErr.HTTPStatus
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error":   "payment confirmation failed",
			"code":    provErr.Code,
			"message": provErr.Message,
		})
		return
	}

	var persErr *checkoutsvc.PersistenceError
	if errors.As(err, &persErr) {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "order already recorded",
				"detail": "orderId " + persErr.OrderRef + " was finalized by an earlier request",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "payment approved but order could not be recorded",
			"detail": "contact support with orderId " + persErr.OrderRef,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

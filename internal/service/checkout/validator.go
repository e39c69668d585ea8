package checkout

import (
	"fmt"

	"bookstore-api/internal/domain"
)

// Free shipping applies from this subtotal up, inclusive. Below it a fixed
// surcharge is added. Amounts are integer minor currency units throughout;
// every comparison is exact because this is a trust boundary against
// tampering, not a floating-point tolerance problem.
const (
	FreeShippingThreshold = 30000
	ShippingFee           = 3000
)

// Line is one client-submitted cart line. Price is the client-asserted unit
// price and is never trusted; only the master price counts.
type Line struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"`
}

type priceLookup interface {
	Lookup(id int64) (domain.Book, bool)
}

// Validator recomputes an order total from the master catalog cache and
// compares it to the client-claimed figure.
type Validator struct {
	cache priceLookup
}

func NewValidator(cache priceLookup) *Validator {
	return &Validator{cache: cache}
}

// Validate returns the server-computed total, or a *ValidationError naming
// the first mismatch. Validating the same lines twice yields the same total.
func (v *Validator) Validate(lines []Line, claimedTotal int64) (int64, error) {
	if len(lines) == 0 {
		return 0, &ValidationError{Detail: "order has no line items"}
	}

	var subtotal int64
	for _, line := range lines {
		if line.BookID <= 0 || line.Quantity <= 0 {
			return 0, &ValidationError{
				Detail: fmt.Sprintf("invalid line item (bookId=%d quantity=%d)", line.BookID, line.Quantity),
			}
		}
		book, ok := v.cache.Lookup(line.BookID)
		if !ok {
			return 0, &ValidationError{
				Detail: fmt.Sprintf("book %d does not exist", line.BookID),
			}
		}
		if line.Price != book.Price {
			return 0, &ValidationError{
				Detail: fmt.Sprintf("price mismatch for book %d: submitted %d, actual %d", line.BookID, line.Price, book.Price),
			}
		}
		subtotal += book.Price * int64(line.Quantity)
	}

	computed := subtotal + shippingFee(subtotal)
	if computed != claimedTotal {
		return 0, &ValidationError{
			Detail:   fmt.Sprintf("amount mismatch: requested %d, computed %d", claimedTotal, computed),
			Computed: computed,
		}
	}
	return computed, nil
}

// snapshot records the validated lines with master titles and prices. Only
// called after Validate accepted, so every lookup hits.
func (v *Validator) snapshot(lines []Line) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := domain.OrderItem{BookID: l.BookID, Quantity: l.Quantity, Price: l.Price}
		if book, ok := v.cache.Lookup(l.BookID); ok {
			item.Title = book.Title
			item.Price = book.Price
		}
		items = append(items, item)
	}
	return items
}

func shippingFee(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

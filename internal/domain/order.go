package domain

import (
	"encoding/json"
	"time"
)

// Order statuses. DONE is what the payment provider reports on approval;
// the rest are administrator-initiated fulfilment states.
const (
	OrderStatusDone      = "DONE"
	OrderStatusPreparing = "PREPARING"
	OrderStatusShipping  = "SHIPPING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCanceled  = "CANCELED"
)

var orderStatuses = map[string]struct{}{
	OrderStatusDone:      {},
	OrderStatusPreparing: {},
	OrderStatusShipping:  {},
	OrderStatusDelivered: {},
	OrderStatusCanceled:  {},
}

// ValidOrderStatus reports whether s is a member of the allowed status set.
func ValidOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	OrderRef    string          `json:"orderId"`
	PaymentKey  string          `json:"paymentKey"`
	OrderName   string          `json:"orderName,omitempty"`
	TotalAmount int64           `json:"totalAmount"`
	Status      string          `json:"status"`
	Method      string          `json:"method,omitempty"`
	Items       []OrderItem     `json:"items"`
	RawPayload  json.RawMessage `json:"-"`
	ApprovedAt  time.Time       `json:"approvedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderItem is the line snapshot stored with a finalized order. Price is
// the master price that was validated, not the client-asserted one.
type OrderItem struct {
	BookID   int64  `json:"bookId"`
	Title    string `json:"title,omitempty"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

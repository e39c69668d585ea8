package checkout

import "fmt"

// ValidationError is returned when the submitted cart does not reproduce
// from the master catalog. Detail only restates server-computed facts, so it
// is safe to hand back to the caller next to the generic top-level message.
type ValidationError struct {
	Detail   string
	Computed int64
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// FieldError reports a missing or malformed request field. 400-class.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// PersistenceError means the provider approved the charge but the local
// order insert failed. Money has moved; the canonical references are kept
// so the order can be reconciled by hand.
type PersistenceError struct {
	OrderRef   string
	PaymentKey string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed after payment approval (orderId=%s paymentKey=%s): %v", e.OrderRef, e.PaymentKey, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

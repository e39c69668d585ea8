package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/payment"
	orderrepo "bookstore-api/internal/repository/order"
)

// Service sequences a payment confirmation: field checks, amount
// validation against the master cache, the provider confirm call, then a
// single order insert. Nothing is written before the provider approves, so
// a provider failure never leaves a partial order behind.
type Service struct {
	validator *Validator
	provider  confirmer
	orders    orderrepo.Repository
	logger    *log.Logger
	timeout   time.Duration
}

type confirmer interface {
	Confirm(ctx context.Context, paymentKey, orderRef string, amount int64) (*payment.Confirmation, error)
}

func New(validator *Validator, provider confirmer, orders orderrepo.Repository, timeout time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Service{
		validator: validator,
		provider:  provider,
		orders:    orders,
		logger:    logger,
		timeout:   timeout,
	}
}

// ConfirmInput mirrors the confirmation request body.
type ConfirmInput struct {
	PaymentKey string `json:"paymentKey"`
	OrderRef   string `json:"orderId"`
	Amount     int64  `json:"amount"`
	Lines      []Line `json:"items"`
}

// Result is what a completed confirmation reports back.
type Result struct {
	OrderRef    string    `json:"orderId"`
	TotalAmount int64     `json:"totalAmount"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	ApprovedAt  time.Time `json:"approvedAt"`
}

// Confirm finalizes one checkout attempt for the authenticated user.
func (s *Service) Confirm(ctx context.Context, userID string, in ConfirmInput) (*Result, error) {
	switch {
	case in.PaymentKey == "":
		return nil, &FieldError{Field: "paymentKey"}
	case in.OrderRef == "":
		return nil, &FieldError{Field: "orderId"}
	case in.Amount <= 0:
		return nil, &FieldError{Field: "amount"}
	case len(in.Lines) == 0:
		return nil, &FieldError{Field: "items"}
	}

	computed, err := s.validator.Validate(in.Lines, in.Amount)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			s.logger.Printf("checkout: validation failed user_id=%s order_ref=%s requested=%d computed=%d detail=%q items=%+v",
				userID, in.OrderRef, in.Amount, vErr.Computed, vErr.Detail, in.Lines)
		}
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Forward the request values untouched; the provider holds the
	// authoritative charge amount and gates its own side.
	conf, err := s.provider.Confirm(callCtx, in.PaymentKey, in.OrderRef, in.Amount)
	if err != nil {
		s.logger.Printf("checkout: provider confirm failed user_id=%s order_ref=%s error=%v", userID, in.OrderRef, err)
		return nil, err
	}

	order := domain.Order{
		UserID:      userID,
		OrderRef:    conf.OrderRef,
		PaymentKey:  conf.PaymentKey,
		OrderName:   conf.OrderName,
		TotalAmount: conf.TotalAmount,
		Status:      conf.Status,
		Method:      conf.Method,
		Items:       s.validator.snapshot(in.Lines),
		RawPayload:  conf.Raw,
		ApprovedAt:  conf.ApprovedAt,
	}
	saved, err := s.orders.Insert(ctx, order)
	if err != nil {
		s.logger.Printf("checkout: order insert failed after payment approval user_id=%s order_ref=%s payment_key=%s error=%v",
			userID, conf.OrderRef, conf.PaymentKey, err)
		return nil, &PersistenceError{OrderRef: conf.OrderRef, PaymentKey: conf.PaymentKey, Err: err}
	}

	s.logger.Printf("checkout: completed user_id=%s order_ref=%s amount=%d items=%d", userID, saved.OrderRef, computed, len(in.Lines))
	return &Result{
		OrderRef:    saved.OrderRef,
		TotalAmount: saved.TotalAmount,
		Method:      saved.Method,
		Status:      saved.Status,
		ApprovedAt:  saved.ApprovedAt,
	}, nil
}

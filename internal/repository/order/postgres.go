package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"bookstore-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

// Insert appends a finalized order. Uniqueness of order_ref and payment_key
// is enforced by the table; a violation surfaces as domain.ErrAlreadyExists.
func (r *postgresRepo) Insert(ctx context.Context, o domain.Order) (*domain.Order, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	payload := o.RawPayload
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	const q = `
INSERT INTO orders (user_id, order_ref, payment_key, order_name, total_amount, status, method, items, raw_payload, approved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text, created_at
`
	err = r.pool.QueryRow(ctx, q,
		o.UserID,
		o.OrderRef,
		o.PaymentKey,
		o.OrderName,
		o.TotalAmount,
		o.Status,
		o.Method,
		itemsJSON,
		payload,
		o.ApprovedAt,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Printf("order repo: duplicate order_ref=%s payment_key=%s", o.OrderRef, o.PaymentKey)
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert order_ref=%s error=%v", o.OrderRef, err)
		return nil, err
	}
	r.logger.Printf("order repo: inserted id=%s order_ref=%s total=%d", o.ID, o.OrderRef, o.TotalAmount)
	return &o, nil
}

func (r *postgresRepo) GetByRef(ctx context.Context, orderRef string) (*domain.Order, error) {
	const q = selectColumns + `
FROM orders
WHERE order_ref = $1
LIMIT 1
`
	return r.scanOrder(r.pool.QueryRow(ctx, q, orderRef))
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	const q = selectColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Order, int64, error) {
	size := filter.Size
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * size

	var (
		total int64
		rows  pgx.Rows
		err   error
	)
	if filter.Status != "" {
		if err = r.pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE status = $1`, filter.Status).Scan(&total); err != nil {
			return nil, 0, err
		}
		const q = selectColumns + `
FROM orders
WHERE status = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
		rows, err = r.pool.Query(ctx, q, filter.Status, size, offset)
	} else {
		if err = r.pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
			return nil, 0, err
		}
		const q = selectColumns + `
FROM orders
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`
		rows, err = r.pool.Query(ctx, q, size, offset)
	}
	if err != nil {
		r.logger.Printf("order repo: list status=%q page=%d error=%v", filter.Status, page, err)
		return nil, 0, err
	}
	defer rows.Close()

	orders, err := r.collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus sets a new status. Membership in the allowed set is the only
// rule; there is no enforced transition graph.
func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !domain.ValidOrderStatus(status) {
		return domain.ErrInvalidStatus
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Printf("order repo: update status id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: status id=%s -> %s", id, status)
	return nil
}

const selectColumns = `
SELECT id::text, user_id::text, order_ref, payment_key, order_name, total_amount, status, method, items, raw_payload, approved_at, created_at`

func (r *postgresRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var itemsJSON []byte
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderRef,
		&o.PaymentKey,
		&o.OrderName,
		&o.TotalAmount,
		&o.Status,
		&o.Method,
		&itemsJSON,
		&o.RawPayload,
		&o.ApprovedAt,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			r.logger.Printf("order repo: decode items id=%s err=%v", o.ID, err)
			return nil, err
		}
	}
	return &o, nil
}

func (r *postgresRepo) collect(rows pgx.Rows) ([]domain.Order, error) {
	var result []domain.Order
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

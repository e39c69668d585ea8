package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Confirmation is the provider's canonical record of an approved payment.
// The provider holds the authoritative charge amount; these fields are what
// gets persisted, not the client-submitted request.
type Confirmation struct {
	OrderRef    string
	PaymentKey  string
	OrderName   string
	Status      string
	Method      string
	TotalAmount int64
	ApprovedAt  time.Time
	Raw         json.RawMessage
}

// Error carries the provider's rejection verbatim.
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("payment provider: %s (%s, http %d)", e.Message, e.Code, e.HTTPStatus)
}

// Client talks to the payment provider's confirm endpoint.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(baseURL, secretKey string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type confirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type confirmResponse struct {
	OrderID     string `json:"orderId"`
	PaymentKey  string `json:"paymentKey"`
	OrderName   string `json:"orderName"`
	Status      string `json:"status"`
	Method      string `json:"method"`
	TotalAmount int64  `json:"totalAmount"`
	ApprovedAt  string `json:"approvedAt"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Confirm asks the provider to finalize the payment identified by paymentKey.
// The amount is forwarded exactly as received; the provider independently
// verifies it against the charge it holds.
func (c *Client) Confirm(ctx context.Context, paymentKey, orderRef string, amount int64) (*Confirmation, error) {
	body, err := json.Marshal(confirmRequest{PaymentKey: paymentKey, OrderID: orderRef, Amount: amount})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments/confirm", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.secretKey+":")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("payment client: confirm order_ref=%s error=%v", orderRef, err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e errorResponse
		if err := json.Unmarshal(raw, &e); err != nil || e.Code == "" {
			e = errorResponse{Code: "UNKNOWN", Message: http.StatusText(resp.StatusCode)}
		}
		c.logger.Printf("payment client: confirm rejected order_ref=%s status=%d code=%s", orderRef, resp.StatusCode, e.Code)
		return nil, &Error{HTTPStatus: resp.StatusCode, Code: e.Code, Message: e.Message}
	}

	var ok confirmResponse
	if err := json.Unmarshal(raw, &ok); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	approvedAt, err := time.Parse(time.RFC3339, ok.ApprovedAt)
	if err != nil {
		approvedAt = time.Now().UTC()
	}

	c.logger.Printf("payment client: confirmed order_ref=%s amount=%d method=%s", ok.OrderID, ok.TotalAmount, ok.Method)
	return &Confirmation{
		OrderRef:    ok.OrderID,
		PaymentKey:  ok.PaymentKey,
		OrderName:   ok.OrderName,
		Status:      ok.Status,
		Method:      ok.Method,
		TotalAmount: ok.TotalAmount,
		ApprovedAt:  approvedAt,
		Raw:         raw,
	}, nil
}

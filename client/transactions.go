package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Paulndambo/nismart-go/api"
)

// NewIdempotencyKey mints a fresh idempotency key for one logical attempt at
// a mutating call. Retrying the same attempt must reuse the same key so the
// server can deduplicate it; a brand-new user-initiated attempt must mint a
// new one. The client never reuses a key across calls it did not itself
// resubmit.
func NewIdempotencyKey() string {
	return fmt.Sprintf("idemp_%d_%s", time.Now().UnixMilli(), uuid.NewString())
}

// DepositRequest is the body of POST /deposit/. Amount is a decimal string
// such as "250.00".
type DepositRequest struct {
	AccountID      int    `json:"account_id"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

// WithdrawRequest is the body of POST /withdraw/.
type WithdrawRequest struct {
	AccountID      int    `json:"account_id"`
	Amount         string `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

// TransferRequest is the body of POST /transfer/.
type TransferRequest struct {
	SourceAccountID      int    `json:"source_account_id"`
	DestinationAccountID int    `json:"destination_account_id"`
	Amount               string `json:"amount"`
	IdempotencyKey       string `json:"idempotency_key"`
}

// Deposit credits an account. Failures propagate so the caller can show an
// actionable message; a deposit must never fail silently.
func (c *Client) Deposit(ctx context.Context, req DepositRequest) (*api.Transaction, error) {
	if req.IdempotencyKey == "" {
		return nil, errors.New("[Client.Deposit] idempotency key is required")
	}
	var tx api.Transaction
	if err := c.postJSON(ctx, "/deposit/", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Withdraw debits an account.
func (c *Client) Withdraw(ctx context.Context, req WithdrawRequest) (*api.Transaction, error) {
	if req.IdempotencyKey == "" {
		return nil, errors.New("[Client.Withdraw] idempotency key is required")
	}
	var tx api.Transaction
	if err := c.postJSON(ctx, "/withdraw/", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Transfer moves funds between two accounts.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*api.Transaction, error) {
	if req.IdempotencyKey == "" {
		return nil, errors.New("[Client.Transfer] idempotency key is required")
	}
	if req.SourceAccountID == req.DestinationAccountID {
		return nil, errors.New("[Client.Transfer] source and destination accounts cannot be the same")
	}
	var tx api.Transaction
	if err := c.postJSON(ctx, "/transfer/", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// TransactionHistory lists a user's transactions, newest first. A null or
// malformed body reads as an empty history, never as a nil slice.
func (c *Client) TransactionHistory(ctx context.Context, userID int) ([]api.Transaction, error) {
	path := fmt.Sprintf("/transactions/%d/", userID)
	data, err := c.call(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return []api.Transaction{}, err
	}
	return api.ToSlice[api.Transaction](data), nil
}

package api

import "time"

// Transaction types returned by the Nismart ledger.
const (
	TransactionTypeDeposit    = "DEPOSIT"
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeTransfer   = "TRANSFER"
)

// Transaction statuses.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// User is the server's projection of a user record. The client treats it as
// an opaque value object: it is overwritten wholesale after login or a
// profile fetch and never mutated field by field.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IsStaff     bool   `json:"is_staff"`
	DateJoined  string `json:"date_joined,omitempty"`
}

// FullName returns the user's display name, falling back to the username.
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Tokens is the credential pair issued by login, registration, and refresh.
// Both values are opaque to the client.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Credentials is the response body of POST /auth/login/ and /auth/register/.
type Credentials struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Balance is the response body of GET /balance/{userId}/.
// Amounts are decimal strings as serialized by the server; the client never
// does arithmetic on them.
type Balance struct {
	AccountID int    `json:"account_id"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
	User      *User  `json:"user,omitempty"`
	UserID    int    `json:"user_id"`
}

// Transaction is a single ledger entry. Source and destination account ids
// are pointers because deposits have no source and withdrawals no destination.
type Transaction struct {
	ID                      int            `json:"id"`
	TransactionType         string         `json:"transaction_type"`
	Amount                  string         `json:"amount"`
	SourceAccount           *int           `json:"source_account"`
	DestinationAccount      *int           `json:"destination_account"`
	SourceAccountEmail      string         `json:"source_account_email,omitempty"`
	DestinationAccountEmail string         `json:"destination_account_email,omitempty"`
	Status                  string         `json:"status"`
	IdempotencyKey          string         `json:"idempotency_key,omitempty"`
	Metadata                map[string]any `json:"metadata,omitempty"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

// AdminStats is the aggregate counter set for the staff dashboard.
type AdminStats struct {
	TotalUsers        int    `json:"total_users"`
	TotalWalletsValue string `json:"total_wallets_value"`
	TotalTransfers    int    `json:"total_transfers"`
	TotalWithdrawals  int    `json:"total_withdrawals"`
	TotalDeposits     int    `json:"total_deposits"`
	TotalTransactions int    `json:"total_transactions"`
}

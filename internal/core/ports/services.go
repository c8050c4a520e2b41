package ports

import (
	"context"

	"github.com/google/uuid"
)

// UserVerifier is the external user-existence oracle. Implementations must
// fail closed: any transport error or non-200 reply reports false.
type UserVerifier interface {
	Exists(ctx context.Context, userID string) bool
}

// WalletInfo is the wallet view returned by every lifecycle operation, with
// the balance computed live from the operation log.
type WalletInfo struct {
	ID      uuid.UUID `json:"id"`
	UserID  string    `json:"userId"`
	Balance int64     `json:"balance"`
}

// OperationRequest holds validated input for deposit and withdraw.
// TraceID is carried explicitly through the call chain; it is recorded on the
// ledger entry and never consulted for business decisions.
type OperationRequest struct {
	UserID              string
	Amount              int64
	ExternalOperationID string
	Reason              string
	TraceID             string
}

// WalletService defines the wallet lifecycle business logic.
type WalletService interface {
	// CreateWallet provisions an empty wallet for an existing user.
	CreateWallet(ctx context.Context, userID string) (*WalletInfo, error)
	// GetWallet returns the wallet with its balance computed live.
	GetWallet(ctx context.Context, userID string) (*WalletInfo, error)
	// Deposit appends a DEPOSIT operation, creating the wallet implicitly if
	// the user has none yet.
	Deposit(ctx context.Context, req OperationRequest) (*WalletInfo, error)
	// Withdraw appends a WITHDRAW operation; it never creates a wallet and
	// never lets the balance go negative.
	Withdraw(ctx context.Context, req OperationRequest) (*WalletInfo, error)
	// DeleteWallet removes the wallet row once its balance is exactly zero.
	// Historical operations are retained.
	DeleteWallet(ctx context.Context, userID string) error
}

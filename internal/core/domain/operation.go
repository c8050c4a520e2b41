package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperationType represents the direction of a ledger entry.
type OperationType string

const (
	OperationTypeDeposit  OperationType = "DEPOSIT"
	OperationTypeWithdraw OperationType = "WITHDRAW"
)

// Operation is an immutable ledger entry. Amount is signed: positive for
// deposits, negative for withdrawals. Rows are append-only and are never
// updated or deleted, even when the owning wallet is removed.
type Operation struct {
	ID                  uuid.UUID     `json:"id"`
	WalletID            uuid.UUID     `json:"wallet_id"`
	Amount              int64         `json:"amount"`
	Type                OperationType `json:"type"`
	Reason              string        `json:"reason"`
	ExternalOperationID string        `json:"external_operation_id"`
	TraceID             string        `json:"trace_id"`
	CreatedAt           time.Time     `json:"created_at"`
}

// NewDeposit builds a DEPOSIT entry for the given wallet. amount must be the
// caller-supplied positive magnitude.
func NewDeposit(walletID uuid.UUID, amount int64, externalID, reason, traceID string, now time.Time) *Operation {
	return &Operation{
		ID:                  uuid.New(),
		WalletID:            walletID,
		Amount:              amount,
		Type:                OperationTypeDeposit,
		Reason:              reason,
		ExternalOperationID: externalID,
		TraceID:             traceID,
		CreatedAt:           now,
	}
}

// NewWithdrawal builds a WITHDRAW entry. The stored amount is negated so that
// the wallet balance is always the plain sum of its operations.
func NewWithdrawal(walletID uuid.UUID, amount int64, externalID, reason, traceID string, now time.Time) *Operation {
	return &Operation{
		ID:                  uuid.New(),
		WalletID:            walletID,
		Amount:              -amount,
		Type:                OperationTypeWithdraw,
		Reason:              reason,
		ExternalOperationID: externalID,
		TraceID:             traceID,
		CreatedAt:           now,
	}
}

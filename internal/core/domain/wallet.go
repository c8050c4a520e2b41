package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a single user's ledger anchor. Balance is never stored here;
// it is derived from the wallet's operations at read time.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for transaction timestamps (second resolution).
const DateLayout = "2006-01-02 15:04:05"

// TransactionType is the closed set of ledger event kinds.
type TransactionType string

const (
	TypeCredit   TransactionType = "CREDIT"   // funds added to an account
	TypeDebit    TransactionType = "DEBIT"    // funds removed from an account
	TypeSend     TransactionType = "SEND"     // sender side of a transfer
	TypeReceive  TransactionType = "RECEIVE"  // receiver side of a transfer
	TypeInterest TransactionType = "INTEREST" // accrued interest credit
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeCredit, TypeDebit, TypeSend, TypeReceive, TypeInterest:
		return true
	}
	return false
}

// TransactionDB represents a row in the transactions table. Rows are
// append-only: once written they are never updated or deleted.
type TransactionDB struct {
	ID     int64           `json:"id" db:"id"`                             // Primary key, monotonically assigned
	UserID int64           `json:"user_id" db:"user_id"`                   // Owning account
	Type   TransactionType `json:"transaction_type" db:"transaction_type"` // Ledger event kind
	Amount decimal.Decimal `json:"amount" db:"amount"`                     // Positive magnitude for the direction implied by Type
	Date   time.Time       `json:"date" db:"date"`                         // Commit time, second resolution
}

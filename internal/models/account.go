package models

import "github.com/shopspring/decimal"

// AccountDB represents an account row in the users table
type AccountDB struct {
	ID      int64           `json:"id" db:"id"`                 // Primary key, assigned on creation
	Name    string          `json:"name" db:"name"`             // Account holder name
	Phone   string          `json:"phone" db:"phone"`           // 10-digit phone, unique
	Email   string          `json:"email" db:"email"`           // Email, unique
	PINHash string          `json:"-" db:"pin_hash"`            // bcrypt hash of the 4-digit PIN
	Balance decimal.Decimal `json:"balance" db:"balance"`       // Current balance, never negative
}

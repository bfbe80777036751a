package domain

import (
	"time" // Calendar date of the transaction

	"github.com/shopspring/decimal" // Exact decimal amounts
)

// Kind discriminates income from expense rows
type Kind string

const (
	KindIncome  Kind = "income"  // Money in
	KindExpense Kind = "expense" // Money out
)

// DateLayout is the wire format of transaction dates
const DateLayout = "2006-01-02"

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction Model
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`                  // Primary key, also the insertion order
	Type        Kind            `gorm:"size:10;not null;index"`      // income or expense
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"` // Strictly positive amount
	Category    string          `gorm:"size:50;not null;index"`      // Free-text category label
	Description string          `gorm:"size:200"`                    // Optional description
	Date        time.Time       `gorm:"type:date;not null;index"`    // Calendar date, time of day is always midnight UTC
	UserID      uint            `gorm:"not null;index"`              // Owning user
	CreatedAt   int64           `gorm:"autoCreateTime:milli"`        // Timestamp of creation in milliseconds
}

// Signed returns the amount as it affects the balance
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

package service

import (
	"context" // Request-scoped cancellation
	"fmt"     // Error wrapping
	"strings" // String manipulation
	"time"    // Calendar dates

	"finance_tracker/internal/apperr" // Error taxonomy
	"finance_tracker/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact amounts
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // GORM ORM library
)

// Column limits of domain.Transaction
const (
	maxCategoryLen    = 50
	maxDescriptionLen = 200
)

// maxAmount is the first value that no longer fits decimal(12,2)
var maxAmount = decimal.New(1, 10)

// CreateTransactionInput carries a new ledger entry.
type CreateTransactionInput struct {
	Type        domain.Kind
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}

// Ledger records and lists a user's transactions.
type Ledger struct {
	db *gorm.DB
}

// NewLedger returns a ledger backed by db.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, strings.TrimSpace(s)) // Strict calendar date
	if err != nil {
		return time.Time{}, apperr.Validation("Date must be formatted as YYYY-MM-DD")
	}
	return d, nil
}

// Create validates the input and stores a transaction owned by userID.
func (l *Ledger) Create(ctx context.Context, userID uint, in CreateTransactionInput) (*domain.Transaction, error) {
	if !in.Type.Valid() {
		return nil, apperr.Validation("Type must be income or expense")
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("Amount must be greater than zero")
	}
	if in.Amount.GreaterThanOrEqual(maxAmount) {
		return nil, apperr.Validation("Amount must be less than 10000000000")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, apperr.Validation("Category is required")
	}
	// Limits count characters, not bytes
	if !withinLength(category, maxCategoryLen) {
		return nil, apperr.Validation("Category must be at most 50 characters")
	}
	description := strings.TrimSpace(in.Description)
	if !withinLength(description, maxDescriptionLen) {
		return nil, apperr.Validation("Description must be at most 200 characters")
	}
	if in.Date.IsZero() {
		return nil, apperr.Validation("Date is required")
	}
	amount := in.Amount.Round(2) // Amounts are stored with two decimal places
	// Check the amount again after rounding
	if !amount.IsPositive() {
		return nil, apperr.Validation("Amount must be greater than zero")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return nil, apperr.Validation("Amount must be less than 10000000000")
	}

	t := domain.Transaction{
		Type:        in.Type,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        calendarDate(in.Date),
		UserID:      userID,
	}
	// Insert inside a transaction so a failure leaves no row behind
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&t).Error
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"type":    in.Type,
			"error":   err.Error(),
		}).Error("Create transaction failed")
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        userID,
		"transaction_id": t.ID,
		"type":           t.Type,
		"amount":         t.Amount.String(),
	}).Info("Transaction recorded")
	return &t, nil
}

// List returns the user's transactions, newest date first. Rows sharing a
// date keep their insertion order.
func (l *Ledger) List(ctx context.Context, userID uint) ([]domain.Transaction, error) {
	txs := []domain.Transaction{} // Never nil, so an empty ledger encodes as []
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("id ASC").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// withinLength reports whether s has at most n characters.
func withinLength(s string, n int) bool {
	return validate.Var(s, fmt.Sprintf("max=%d", n)) == nil // validator counts runes
}

// calendarDate drops the time of day, keeping the calendar date as seen in t's location.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

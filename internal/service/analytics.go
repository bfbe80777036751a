package service

import (
	"context" // Request-scoped cancellation
	"fmt"     // Error wrapping
	"time"    // Transaction dates

	"finance_tracker/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// topCategoryLimit caps the number of categories reported by Trends.
const topCategoryLimit = 5

// Summary holds the all-time totals of a user.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	Balance          decimal.Decimal
	CategoryExpenses map[string]decimal.Decimal
}

// MonthTotals holds the income and expense sums of one calendar month.
type MonthTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// CategoryTotal is the summed expense of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Trends holds the per-transaction averages, the top expense categories and
// the income/expense ratio.
type Trends struct {
	AvgMonthlyIncome     decimal.Decimal
	AvgMonthlyExpense    decimal.Decimal
	TopExpenseCategories []CategoryTotal
	IncomeExpenseRatio   decimal.Decimal
}

// CashflowPoint is one transaction with the running balance after it.
type CashflowPoint struct {
	Date              time.Time
	Type              domain.Kind
	Amount            decimal.Decimal
	CumulativeBalance decimal.Decimal
}

// Analytics computes read-only views over a user's transactions. Every view
// runs inside one store transaction so it sees a consistent snapshot.
type Analytics struct {
	db *gorm.DB
}

// NewAnalytics returns an analytics engine reading from db.
func NewAnalytics(db *gorm.DB) *Analytics {
	return &Analytics{db: db}
}

type kindTotal struct {
	Type  domain.Kind
	Total decimal.Decimal
	Count int64
}

type categoryRow struct {
	Category string
	Total    decimal.Decimal
}

type monthRow struct {
	Period string
	Type   domain.Kind
	Total  decimal.Decimal
}

func (a *Analytics) snapshot(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return a.db.WithContext(ctx).Transaction(fn)
}

func userTransactions(tx *gorm.DB, userID uint) *gorm.DB {
	return tx.Model(&domain.Transaction{}).Where("user_id = ?", userID)
}

// totalsByKind sums amounts per kind. Kinds without rows are absent.
func totalsByKind(tx *gorm.DB, userID uint) (map[domain.Kind]kindTotal, error) {
	var rows []kindTotal
	err := userTransactions(tx, userID).
		Select("type, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum by kind: %w", err)
	}
	out := make(map[domain.Kind]kindTotal, len(rows))
	for _, r := range rows {
		r.Total = r.Total.Round(2)
		out[r.Type] = r
	}
	return out, nil
}

// expenseByCategory sums expenses per category, largest first. Equal sums keep
// the order in which their categories first appeared. limit <= 0 means no limit.
func expenseByCategory(tx *gorm.DB, userID uint, limit int) ([]CategoryTotal, error) {
	var rows []categoryRow
	q := userTransactions(tx, userID).
		Select("category, SUM(amount) AS total").
		Where("type = ?", domain.KindExpense).
		Group("category").
		Order("total DESC").
		Order("MIN(id) ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	out := make([]CategoryTotal, len(rows))
	for i, r := range rows {
		out[i] = CategoryTotal{Category: r.Category, Total: r.Total.Round(2)}
	}
	return out, nil
}

// Summary returns total income, total expenses, the balance and the expense
// sum of every category.
func (a *Analytics) Summary(ctx context.Context, userID uint) (*Summary, error) {
	s := &Summary{CategoryExpenses: map[string]decimal.Decimal{}}
	err := a.snapshot(ctx, func(tx *gorm.DB) error {
		totals, err := totalsByKind(tx, userID)
		if err != nil {
			return err
		}
		categories, err := expenseByCategory(tx, userID, 0)
		if err != nil {
			return err
		}
		s.TotalIncome = totals[domain.KindIncome].Total
		s.TotalExpenses = totals[domain.KindExpense].Total
		for _, c := range categories {
			s.CategoryExpenses[c.Category] = c.Total
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses) // Balance is income minus expenses
	return s, nil
}

// Monthly returns income and expense sums keyed by "YYYY-MM". Only months
// holding at least one transaction appear.
func (a *Analytics) Monthly(ctx context.Context, userID uint) (map[string]MonthTotals, error) {
	out := map[string]MonthTotals{}
	err := a.snapshot(ctx, func(tx *gorm.DB) error {
		var rows []monthRow
		err := userTransactions(tx, userID).
			Select(monthExpr(tx) + " AS period, type, SUM(amount) AS total").
			Group("period").
			Group("type").
			Order("period").
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("sum by month: %w", err)
		}
		for _, r := range rows {
			m := out[r.Period] // Zero totals until the row for the other kind arrives
			switch r.Type {
			case domain.KindIncome:
				m.Income = r.Total.Round(2)
			case domain.KindExpense:
				m.Expense = r.Total.Round(2)
			}
			out[r.Period] = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// monthExpr formats the transaction date as YYYY-MM in the store's dialect.
func monthExpr(tx *gorm.DB) string {
	if tx.Dialector.Name() == "mysql" {
		return "DATE_FORMAT(date, '%Y-%m')"
	}
	return "strftime('%Y-%m', date)"
}

// Trends returns the averages, the five largest expense categories and the
// income/expense ratio.
//
// The averages are means over individual transactions, not over calendar
// months. The ratio treats missing income as 1 and a zero expense total as 1
// so it is always defined.
func (a *Analytics) Trends(ctx context.Context, userID uint) (*Trends, error) {
	t := &Trends{}
	err := a.snapshot(ctx, func(tx *gorm.DB) error {
		totals, err := totalsByKind(tx, userID)
		if err != nil {
			return err
		}
		top, err := expenseByCategory(tx, userID, topCategoryLimit)
		if err != nil {
			return err
		}
		income, expense := totals[domain.KindIncome], totals[domain.KindExpense]
		t.AvgMonthlyIncome = mean(income)
		t.AvgMonthlyExpense = mean(expense)
		t.TopExpenseCategories = top

		numerator := income.Total // No income counts as 1
		if income.Count == 0 || numerator.IsZero() {
			numerator = decimal.NewFromInt(1)
		}
		denominator := expense.Total
		if denominator.IsZero() {
			denominator = decimal.NewFromInt(1)
		}
		t.IncomeExpenseRatio = numerator.Div(denominator)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// mean is the per-transaction average of a kind, zero without transactions
func mean(k kindTotal) decimal.Decimal {
	if k.Count == 0 {
		return decimal.Zero
	}
	return k.Total.Div(decimal.NewFromInt(k.Count))
}

// Cashflow returns every transaction in date order, oldest first, with the
// running balance after it. Rows sharing a date keep their insertion order.
func (a *Analytics) Cashflow(ctx context.Context, userID uint) ([]CashflowPoint, error) {
	var txs []domain.Transaction
	err := a.snapshot(ctx, func(tx *gorm.DB) error {
		return userTransactions(tx, userID).Order("date ASC").Order("id ASC").Find(&txs).Error
	})
	if err != nil {
		return nil, fmt.Errorf("load cashflow: %w", err)
	}
	points := make([]CashflowPoint, len(txs))
	balance := decimal.Zero
	for i, t := range txs {
		balance = balance.Add(t.Signed()) // Expenses are negated by Signed
		points[i] = CashflowPoint{
			Date:              t.Date,
			Type:              t.Type,
			Amount:            t.Amount,
			CumulativeBalance: balance,
		}
	}
	return points, nil
}

package api

import (
	"bytes"         // Ordered object encoding
	"encoding/json" // JSON encoding
	"net/http"      // HTTP status codes

	"finance_tracker/internal/domain"     // Date layout
	"finance_tracker/internal/middleware" // Context keys
	"finance_tracker/internal/service"    // Analytics engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// SummaryResponse holds the all-time totals
type SummaryResponse struct {
	TotalIncome      float64            `json:"total_income"`      // Sum of income
	TotalExpenses    float64            `json:"total_expenses"`    // Sum of expenses
	Balance          float64            `json:"balance"`           // Income minus expenses
	CategoryExpenses map[string]float64 `json:"category_expenses"` // Expense sum per category
}

// MonthResponse holds one month of the monthly breakdown
type MonthResponse struct {
	Income  float64 `json:"income"`  // Income in the month
	Expense float64 `json:"expense"` // Expenses in the month
}

// TrendsResponse holds the trend metrics
type TrendsResponse struct {
	AvgMonthlyIncome     float64      `json:"avg_monthly_income"`     // Mean income transaction
	AvgMonthlyExpense    float64      `json:"avg_monthly_expense"`    // Mean expense transaction
	TopExpenseCategories RankedTotals `json:"top_expense_categories"` // Largest categories, in order
	IncomeExpenseRatio   float64      `json:"income_expense_ratio"`   // Income over expenses
}

// CashflowResponse is one step of the running balance
type CashflowResponse struct {
	Date              string  `json:"date"`               // YYYY-MM-DD
	Type              string  `json:"type"`               // income or expense
	Amount            float64 `json:"amount"`             // Transaction amount
	CumulativeBalance float64 `json:"cumulative_balance"` // Balance after this transaction
}

// RankedTotals encodes as a JSON object whose keys keep the slice order
type RankedTotals []service.CategoryTotal

// MarshalJSON writes {"category": total, ...} in slice order
func (r RankedTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ct := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ct.Category) // Quoted, escaped key
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(ct.Total.InexactFloat64()) // Numeric value
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NewSummaryResponse converts a summary to its JSON shape
func NewSummaryResponse(s *service.Summary) SummaryResponse {
	categories := make(map[string]float64, len(s.CategoryExpenses)) // Empty object, never null
	for name, total := range s.CategoryExpenses {
		categories[name] = total.InexactFloat64()
	}
	return SummaryResponse{
		TotalIncome:      s.TotalIncome.InexactFloat64(),
		TotalExpenses:    s.TotalExpenses.InexactFloat64(),
		Balance:          s.Balance.InexactFloat64(),
		CategoryExpenses: categories,
	}
}

// NewMonthlyResponse converts the monthly breakdown to its JSON shape.
// encoding/json emits the keys in ascending order.
func NewMonthlyResponse(months map[string]service.MonthTotals) map[string]MonthResponse {
	resp := make(map[string]MonthResponse, len(months))
	for key, m := range months {
		resp[key] = MonthResponse{Income: m.Income.InexactFloat64(), Expense: m.Expense.InexactFloat64()}
	}
	return resp
}

// NewTrendsResponse converts trend metrics to their JSON shape
func NewTrendsResponse(t *service.Trends) TrendsResponse {
	return TrendsResponse{
		AvgMonthlyIncome:     t.AvgMonthlyIncome.InexactFloat64(),
		AvgMonthlyExpense:    t.AvgMonthlyExpense.InexactFloat64(),
		TopExpenseCategories: RankedTotals(t.TopExpenseCategories),
		IncomeExpenseRatio:   t.IncomeExpenseRatio.InexactFloat64(),
	}
}

// NewCashflowResponse converts cashflow points to their JSON shape
func NewCashflowResponse(points []service.CashflowPoint) []CashflowResponse {
	resp := make([]CashflowResponse, len(points)) // Never null in JSON
	for i, p := range points {
		resp[i] = CashflowResponse{
			Date:              p.Date.Format(domain.DateLayout),
			Type:              string(p.Type),
			Amount:            p.Amount.InexactFloat64(),
			CumulativeBalance: p.CumulativeBalance.InexactFloat64(),
		}
	}
	return resp
}

// SummaryHandler returns total income, total expenses, balance and per-category expenses
func SummaryHandler(analytics *service.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.UserIDKey) // Get userID from context
		s, err := analytics.Summary(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "analytics_summary")
			return
		}
		c.JSON(http.StatusOK, NewSummaryResponse(s))
	}
}

// MonthlyHandler returns income and expenses per "YYYY-MM"
func MonthlyHandler(analytics *service.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.UserIDKey) // Get userID from context
		months, err := analytics.Monthly(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "analytics_monthly")
			return
		}
		c.JSON(http.StatusOK, NewMonthlyResponse(months))
	}
}

// TrendsHandler returns averages, top expense categories and the income/expense ratio
func TrendsHandler(analytics *service.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.UserIDKey) // Get userID from context
		t, err := analytics.Trends(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "analytics_trends")
			return
		}
		c.JSON(http.StatusOK, NewTrendsResponse(t))
	}
}

// CashflowHandler returns the running balance in date order
func CashflowHandler(analytics *service.Analytics) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.UserIDKey) // Get userID from context
		points, err := analytics.Cashflow(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "analytics_cashflow")
			return
		}
		c.JSON(http.StatusOK, NewCashflowResponse(points))
	}
}

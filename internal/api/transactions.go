package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/domain"     // Importing domain models
	"finance_tracker/internal/middleware" // Context keys
	"finance_tracker/internal/service"    // Transaction ledger

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact amounts
)

// CreateTransactionRequest represents a new income or expense
type CreateTransactionRequest struct {
	Type        string          `json:"type"`        // income or expense
	Amount      decimal.Decimal `json:"amount"`      // JSON number or numeric string
	Category    string          `json:"category"`    // Category label
	Description string          `json:"description"` // Optional description
	Date        string          `json:"date"`        // YYYY-MM-DD
}

// TransactionResponse is a ledger row as returned to clients
type TransactionResponse struct {
	ID          uint    `json:"id"`          // Transaction ID
	Type        string  `json:"type"`        // income or expense
	Amount      float64 `json:"amount"`      // Amount
	Category    string  `json:"category"`    // Category label
	Description string  `json:"description"` // Description, empty when omitted
	Date        string  `json:"date"`        // YYYY-MM-DD
}

// newTransactionResponse maps a domain transaction to its JSON shape
func newTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.InexactFloat64(),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(domain.DateLayout),
	}
}

// CreateTransactionHandler records a transaction for the authenticated user
func CreateTransactionHandler(ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.UserIDKey) // Get userID from context
		var req CreateTransactionRequest          // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		date, err := service.ParseDate(req.Date) // Parse the calendar date
		if err != nil {
			respondError(c, err, "create_transaction")
			return
		}
		// Validate and persist in one store transaction
		_, err = ledger.Create(c.Request.Context(), userID, service.CreateTransactionInput{
			Type:        domain.Kind(req.Type), // Kind, checked by the ledger
			Amount:      req.Amount,            // Must be positive
			Category:    req.Category,          // Category label
			Description: req.Description,       // Optional
			Date:        date,                  // Calendar date
		})
		if err != nil {
			respondError(c, err, "create_transaction")
			return
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Transaction added successfully"})
	}
}

// ListTransactionsHandler returns the authenticated user's transactions, newest first
func ListTransactionsHandler(ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middleware.UserIDKey)            // Get userID from context
		txs, err := ledger.List(c.Request.Context(), userID) // Only this user's rows
		if err != nil {
			respondError(c, err, "list_transactions")
			return
		}
		resp := make([]TransactionResponse, len(txs)) // Never null in JSON
		for i, t := range txs {
			resp[i] = newTransactionResponse(t)
		}
		c.JSON(http.StatusOK, resp)
	}
}

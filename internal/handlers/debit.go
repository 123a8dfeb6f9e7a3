package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// Debiter defines the interface that the service must implement.
type Debiter interface {
	Debit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
}

// DebitRequest represents the JSON body for debiting funds
// swagger:model DebitRequest
type DebitRequest struct {
	// Amount to debit
	// required: true
	// default: 50.0
	Amount float64 `json:"amount"`
}

// DebitResponse represents a successful debit response
// swagger:model DebitResponse
type DebitResponse struct {
	// Success message
	// default: Amount debited successfully
	Message string `json:"message"`

	// New balance after the debit
	NewBalance string `json:"new_balance"`
}

// DebitErrorResponse represents an error response for debit
// swagger:model DebitErrorResponse
type DebitErrorResponse struct {
	// Error message
	// default: Insufficient funds
	Error string `json:"error"`
}

// NewDebitHandler returns an HTTP handler for debiting the account.
// @Summary Debit funds
// @Description Removes funds from the authenticated account and appends a DEBIT record, committed as one unit. Overdraft is never allowed.
// @Tags ledger
// @Accept json
// @Produce json
// @Param request body handlers.DebitRequest true "Debit Request"
// @Success 200 {object} handlers.DebitResponse "Amount debited successfully"
// @Failure 400 {object} handlers.DebitErrorResponse "Invalid amount or insufficient funds"
// @Failure 401 {object} handlers.DebitErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.DebitErrorResponse "Account not found"
// @Router /wallet/debit [post]
// @Security BearerAuth
func NewDebitHandler(svc Debiter, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := accountIDFromRequest(ctx, r, tokener)
		if err != nil {
			logger.Log.Errorw("failed to resolve account from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DebitErrorResponse{Error: "Unauthorized"})
			return
		}

		var req DebitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode debit request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DebitErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Amount <= 0 {
			logger.Log.Warnw("invalid debit amount", "amount", req.Amount)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(DebitErrorResponse{Error: "Invalid amount"})
			return
		}

		newBalance, err := svc.Debit(ctx, accountID, decimal.NewFromFloat(req.Amount))
		if err != nil {
			switch err {
			case services.ErrInvalidAmount:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(DebitErrorResponse{Error: "Invalid amount"})
			case services.ErrInsufficientFunds:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(DebitErrorResponse{Error: "Insufficient funds"})
			case services.ErrAccountNotFound:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(DebitErrorResponse{Error: "Account not found"})
			default:
				logger.Log.Errorw("failed to debit", "accountID", accountID, "amount", req.Amount, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DebitErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DebitResponse{
			Message:    "Amount debited successfully",
			NewBalance: newBalance.StringFixed(2),
		})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// Crediter defines the interface that the service must implement.
type Crediter interface {
	Credit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
}

// CreditRequest represents the JSON body for crediting funds
// swagger:model CreditRequest
type CreditRequest struct {
	// Amount to credit
	// required: true
	// default: 100.0
	Amount float64 `json:"amount"`
}

// CreditResponse represents a successful credit response
// swagger:model CreditResponse
type CreditResponse struct {
	// Success message
	// default: Amount credited successfully
	Message string `json:"message"`

	// New balance after the credit
	NewBalance string `json:"new_balance"`
}

// CreditErrorResponse represents an error response for credit
// swagger:model CreditErrorResponse
type CreditErrorResponse struct {
	// Error message
	// default: Invalid amount
	Error string `json:"error"`
}

// NewCreditHandler returns an HTTP handler for crediting the account.
// @Summary Credit funds
// @Description Adds funds to the authenticated account and appends a CREDIT record, committed as one unit.
// @Tags ledger
// @Accept json
// @Produce json
// @Param request body handlers.CreditRequest true "Credit Request"
// @Success 200 {object} handlers.CreditResponse "Amount credited successfully"
// @Failure 400 {object} handlers.CreditErrorResponse "Invalid amount"
// @Failure 401 {object} handlers.CreditErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.CreditErrorResponse "Account not found"
// @Router /wallet/credit [post]
// @Security BearerAuth
func NewCreditHandler(svc Crediter, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := accountIDFromRequest(ctx, r, tokener)
		if err != nil {
			logger.Log.Errorw("failed to resolve account from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CreditErrorResponse{Error: "Unauthorized"})
			return
		}

		var req CreditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode credit request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreditErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Amount <= 0 {
			logger.Log.Warnw("invalid credit amount", "amount", req.Amount)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreditErrorResponse{Error: "Invalid amount"})
			return
		}

		newBalance, err := svc.Credit(ctx, accountID, decimal.NewFromFloat(req.Amount))
		if err != nil {
			switch err {
			case services.ErrInvalidAmount:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CreditErrorResponse{Error: "Invalid amount"})
			case services.ErrAccountNotFound:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(CreditErrorResponse{Error: "Account not found"})
			default:
				logger.Log.Errorw("failed to credit", "accountID", accountID, "amount", req.Amount, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CreditErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CreditResponse{
			Message:    "Amount credited successfully",
			NewBalance: newBalance.StringFixed(2),
		})
	}
}

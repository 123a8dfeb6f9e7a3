package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// InterestAccruer defines the interface that the service must implement.
type InterestAccruer interface {
	AccrueInterest(ctx context.Context, accountID int64, annualRatePercent float64) (*services.InterestResult, error)
}

// InterestResponse represents a successful interest accrual response
// swagger:model InterestResponse
type InterestResponse struct {
	// Success message
	// default: Interest applied successfully
	Message string `json:"message"`

	// Interest credited this accrual
	Interest string `json:"interest"`

	// New balance after the accrual
	NewBalance string `json:"new_balance"`
}

// InterestErrorResponse represents an error response for interest accrual
// swagger:model InterestErrorResponse
type InterestErrorResponse struct {
	// Error message
	// default: Not enough time has passed, interest is calculated daily
	Error string `json:"error"`
}

// NewInterestHandler returns an HTTP handler that accrues interest on the
// authenticated account at the service-wide annual rate.
// @Summary Accrue interest
// @Description Credits simple daily pro-rated interest for the whole days elapsed since the account's most recent transaction, and appends an INTEREST record.
// @Tags ledger
// @Produce json
// @Success 200 {object} handlers.InterestResponse "Interest applied successfully"
// @Failure 400 {object} handlers.InterestErrorResponse "No history or accrued too recently"
// @Failure 401 {object} handlers.InterestErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.InterestErrorResponse "Account not found"
// @Router /wallet/interest [post]
// @Security BearerAuth
func NewInterestHandler(svc InterestAccruer, tokener Tokener, annualRatePercent float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := accountIDFromRequest(ctx, r, tokener)
		if err != nil {
			logger.Log.Errorw("failed to resolve account from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(InterestErrorResponse{Error: "Unauthorized"})
			return
		}

		result, err := svc.AccrueInterest(ctx, accountID, annualRatePercent)
		if err != nil {
			switch err {
			case services.ErrNoHistory:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(InterestErrorResponse{Error: "No transactions found, cannot calculate interest"})
			case services.ErrTooSoon:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(InterestErrorResponse{Error: "Not enough time has passed, interest is calculated daily"})
			case services.ErrAccountNotFound:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(InterestErrorResponse{Error: "Account not found"})
			default:
				logger.Log.Errorw("failed to accrue interest", "accountID", accountID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(InterestErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(InterestResponse{
			Message:    "Interest applied successfully",
			Interest:   result.Interest.StringFixed(2),
			NewBalance: result.NewBalance.StringFixed(2),
		})
	}
}

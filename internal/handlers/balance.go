package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// BalanceReader defines the interface that the service must implement.
// Checking the balance first runs an interest accrual, so the figure
// shown always includes interest due up to today.
type BalanceReader interface {
	AccrueInterest(ctx context.Context, accountID int64, annualRatePercent float64) (*services.InterestResult, error)
	GetAccount(ctx context.Context, accountID int64) (*models.AccountDB, error)
}

// BalanceResponse represents the account balance
// swagger:model BalanceResponse
type BalanceResponse struct {
	// Account holder name
	Name string `json:"name"`

	// Current balance
	Balance string `json:"balance"`
}

// BalanceErrorResponse represents an error response for the balance endpoint
// swagger:model BalanceErrorResponse
type BalanceErrorResponse struct {
	// Error message
	// default: Account not found
	Error string `json:"error"`
}

// NewBalanceHandler returns an HTTP handler showing the current balance.
// @Summary Check balance
// @Description Accrues any due interest at the configured annual rate, then returns the account holder name and current balance.
// @Tags ledger
// @Produce json
// @Success 200 {object} handlers.BalanceResponse "Current balance"
// @Failure 401 {object} handlers.BalanceErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.BalanceErrorResponse "Account not found"
// @Router /balance [get]
// @Security BearerAuth
func NewBalanceHandler(svc BalanceReader, tokener Tokener, annualRatePercent float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := accountIDFromRequest(ctx, r, tokener)
		if err != nil {
			logger.Log.Errorw("failed to resolve account from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Unauthorized"})
			return
		}

		// NoHistory and TooSoon are expected outcomes here, not failures.
		if _, err := svc.AccrueInterest(ctx, accountID, annualRatePercent); err != nil &&
			!errors.Is(err, services.ErrNoHistory) && !errors.Is(err, services.ErrTooSoon) &&
			!errors.Is(err, services.ErrAccountNotFound) {
			logger.Log.Errorw("failed to accrue interest before balance", "accountID", accountID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Internal server error"})
			return
		}

		account, err := svc.GetAccount(ctx, accountID)
		if err != nil {
			switch err {
			case services.ErrAccountNotFound:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Account not found"})
			default:
				logger.Log.Errorw("failed to get account", "accountID", accountID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(BalanceResponse{
			Name:    account.Name,
			Balance: account.Balance.StringFixed(2),
		})
	}
}

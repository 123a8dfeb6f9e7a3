package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// HistoryReader defines the interface that the service must implement.
type HistoryReader interface {
	RecentTransactions(ctx context.Context, accountID int64, limit int) ([]models.TransactionDB, error)
}

// HistoryRecord represents one transaction in the history listing
// swagger:model HistoryRecord
type HistoryRecord struct {
	// Transaction type: CREDIT, DEBIT, SEND, RECEIVE or INTEREST
	Type string `json:"transaction_type"`

	// Amount of the transaction
	Amount string `json:"amount"`

	// Commit timestamp
	Date string `json:"date"`
}

// HistoryResponse represents the transaction history
// swagger:model HistoryResponse
type HistoryResponse struct {
	Transactions []HistoryRecord `json:"transactions"`
}

// HistoryErrorResponse represents an error response for the history endpoint
// swagger:model HistoryErrorResponse
type HistoryErrorResponse struct {
	// Error message
	// default: Account not found
	Error string `json:"error"`
}

// NewHistoryHandler returns an HTTP handler listing recent transactions.
// @Summary Transaction history
// @Description Returns the account's most recent transactions, newest first. The limit query parameter defaults to 10.
// @Tags ledger
// @Produce json
// @Param limit query int false "Maximum number of records" default(10)
// @Success 200 {object} handlers.HistoryResponse "Recent transactions"
// @Failure 401 {object} handlers.HistoryErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.HistoryErrorResponse "Account not found"
// @Router /transactions [get]
// @Security BearerAuth
func NewHistoryHandler(svc HistoryReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := accountIDFromRequest(ctx, r, tokener)
		if err != nil {
			logger.Log.Errorw("failed to resolve account from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(HistoryErrorResponse{Error: "Unauthorized"})
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(HistoryErrorResponse{Error: "Invalid limit"})
				return
			}
		}

		records, err := svc.RecentTransactions(ctx, accountID, limit)
		if err != nil {
			switch err {
			case services.ErrAccountNotFound:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(HistoryErrorResponse{Error: "Account not found"})
			default:
				logger.Log.Errorw("failed to list transactions", "accountID", accountID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(HistoryErrorResponse{Error: "Internal server error"})
			}
			return
		}

		resp := HistoryResponse{Transactions: make([]HistoryRecord, 0, len(records))}
		for _, rec := range records {
			resp.Transactions = append(resp.Transactions, HistoryRecord{
				Type:   string(rec.Type),
				Amount: rec.Amount.StringFixed(2),
				Date:   rec.Date.Format(models.DateLayout),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}

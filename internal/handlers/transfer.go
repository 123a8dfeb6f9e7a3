package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// Transferer defines the interface that the service must implement.
type Transferer interface {
	Transfer(ctx context.Context, senderID, receiverID int64, amount decimal.Decimal) (*services.TransferResult, error)
}

// TransferRequest represents the JSON body for sending money
// swagger:model TransferRequest
type TransferRequest struct {
	// Receiver account id
	// required: true
	// default: 2
	ReceiverID int64 `json:"receiver_id"`

	// Amount to transfer
	// required: true
	// default: 30.0
	Amount float64 `json:"amount"`
}

// TransferResponse represents a successful transfer response
// swagger:model TransferResponse
type TransferResponse struct {
	// Success message
	// default: Transfer successful
	Message string `json:"message"`

	// Sender balance after the transfer
	YourBalance string `json:"your_balance"`

	// Receiver balance after the transfer
	ReceiverBalance string `json:"receiver_balance"`

	// Shared timestamp of the paired SEND/RECEIVE records
	Timestamp string `json:"timestamp"`
}

// TransferErrorResponse represents an error response for transfer
// swagger:model TransferErrorResponse
type TransferErrorResponse struct {
	// Error message
	// default: Insufficient funds
	Error string `json:"error"`
}

// NewTransferHandler returns an HTTP handler for transferring money.
// @Summary Send money to another account
// @Description Moves funds from the authenticated account to the receiver. Two balance updates and the paired SEND/RECEIVE records commit as one unit; partial transfers are never observable.
// @Tags ledger
// @Accept json
// @Produce json
// @Param request body handlers.TransferRequest true "Transfer Request"
// @Success 200 {object} handlers.TransferResponse "Transfer successful"
// @Failure 400 {object} handlers.TransferErrorResponse "Invalid amount, self transfer or insufficient funds"
// @Failure 401 {object} handlers.TransferErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TransferErrorResponse "Account not found"
// @Router /wallet/transfer [post]
// @Security BearerAuth
func NewTransferHandler(svc Transferer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		senderID, err := accountIDFromRequest(ctx, r, tokener)
		if err != nil {
			logger.Log.Errorw("failed to resolve account from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Unauthorized"})
			return
		}

		var req TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode transfer request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Amount <= 0 {
			logger.Log.Warnw("invalid transfer amount", "amount", req.Amount)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid amount"})
			return
		}

		result, err := svc.Transfer(ctx, senderID, req.ReceiverID, decimal.NewFromFloat(req.Amount))
		if err != nil {
			switch err {
			case services.ErrInvalidAmount:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid amount"})
			case services.ErrSameAccount:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Sender and receiver cannot be the same account"})
			case services.ErrInsufficientFunds:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Insufficient funds"})
			case services.ErrAccountNotFound:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Account not found"})
			default:
				logger.Log.Errorw("failed to transfer", "senderID", senderID, "receiverID", req.ReceiverID, "amount", req.Amount, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransferResponse{
			Message:         "Transfer successful",
			YourBalance:     result.SenderBalance.StringFixed(2),
			ReceiverBalance: result.ReceiverBalance.StringFixed(2),
			Timestamp:       result.Timestamp.Format(models.DateLayout),
		})
	}
}

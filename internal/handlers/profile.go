package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// ProfileReader defines the interface that the service must implement.
type ProfileReader interface {
	GetAccount(ctx context.Context, accountID int64) (*models.AccountDB, error)
}

// ProfileResponse represents the account profile
// swagger:model ProfileResponse
type ProfileResponse struct {
	UserID  int64  `json:"user_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Balance string `json:"balance"`
}

// ProfileErrorResponse represents an error response for the profile endpoint
// swagger:model ProfileErrorResponse
type ProfileErrorResponse struct {
	// Error message
	// default: Account not found
	Error string `json:"error"`
}

// NewProfileHandler returns an HTTP handler showing the account profile.
// @Summary View profile
// @Description Returns the authenticated account's id, contact details and balance.
// @Tags account
// @Produce json
// @Success 200 {object} handlers.ProfileResponse "Account profile"
// @Failure 401 {object} handlers.ProfileErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ProfileErrorResponse "Account not found"
// @Router /profile [get]
// @Security BearerAuth
func NewProfileHandler(svc ProfileReader, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		accountID, err := accountIDFromRequest(ctx, r, tokener)
		if err != nil {
			logger.Log.Errorw("failed to resolve account from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Unauthorized"})
			return
		}

		account, err := svc.GetAccount(ctx, accountID)
		if err != nil {
			switch err {
			case services.ErrAccountNotFound:
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Account not found"})
			default:
				logger.Log.Errorw("failed to get account", "accountID", accountID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProfileResponse{
			UserID:  account.ID,
			Name:    account.Name,
			Phone:   account.Phone,
			Email:   account.Email,
			Balance: account.Balance.StringFixed(2),
		})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// Loginer defines the interface that the service must implement.
type Loginer interface {
	Login(ctx context.Context, accountID int64, pin string) (string, error)
}

// LoginRequest represents the JSON body for login
// swagger:model LoginRequest
type LoginRequest struct {
	// Account id returned at registration
	// required: true
	// default: 1
	UserID int64 `json:"user_id"`

	// 4-digit PIN
	// required: true
	// default: 1234
	PIN string `json:"pin"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// JWT token for the Authorization header
	Token string `json:"token"`
}

// LoginErrorResponse represents an error response for login
// swagger:model LoginErrorResponse
type LoginErrorResponse struct {
	// Error message
	// default: Invalid account id or PIN
	Error string `json:"error"`
}

// NewLoginHandler returns an HTTP handler for account login.
// @Summary Log in with account id and PIN
// @Description Verifies the PIN against the stored hash and returns a JWT token. Three failed attempts lock the account out for the limiter window.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse "Token issued"
// @Failure 401 {object} handlers.LoginErrorResponse "Invalid account id or PIN"
// @Failure 429 {object} handlers.LoginErrorResponse "Too many failed attempts"
// @Router /login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(LoginErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		token, err := svc.Login(r.Context(), req.UserID, req.PIN)
		if err != nil {
			switch err {
			case services.ErrInvalidCredentials:
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Error: "Invalid account id or PIN",
				})
			case services.ErrTooManyAttempts:
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Error: "Too many failed attempts, try again later",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LoginResponse{Token: token})
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/omcpatel18/Bank-Management-system/internal/logger"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, name, phone, email, pin string) (int64, error)
}

// RegisterRequest represents the JSON body for account registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Account holder name (letters only)
	// required: true
	// default: John
	Name string `json:"name"`

	// Phone number, exactly 10 digits, unique
	// required: true
	// default: 9876543210
	Phone string `json:"phone"`

	// Email address, unique
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// 4-digit PIN
	// required: true
	// default: 1234
	PIN string `json:"pin"`
}

// RegisterResponse represents a successful registration response
// swagger:model RegisterResponse
type RegisterResponse struct {
	// Success message
	// default: Account created successfully
	Message string `json:"message"`

	// Generated account id, needed to log in
	UserID int64 `json:"user_id"`
}

// RegisterErrorResponse represents an error response for registration
// swagger:model RegisterErrorResponse
type RegisterErrorResponse struct {
	// Error message
	// default: Phone or email already registered
	Error string `json:"error"`
}

// NewRegisterHandler returns an HTTP handler for account registration.
// @Summary Register a new account
// @Description Creates a new account with zero balance. Validates name, phone, email and PIN, ensures unique phone and email. The PIN is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "Account registration request"
// @Success 201 {object} handlers.RegisterResponse "Account successfully created"
// @Failure 400 {object} handlers.RegisterErrorResponse "Invalid details or phone/email already registered"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RegisterErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		id, err := svc.Register(r.Context(), req.Name, req.Phone, req.Email, req.PIN)
		if err != nil {
			switch err {
			case services.ErrDuplicateContact:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "Phone or email already registered",
				})
			case services.ErrInvalidRegistration:
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "Invalid registration details",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(RegisterErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(RegisterResponse{
			Message: "Account created successfully",
			UserID:  id,
		})
	}
}

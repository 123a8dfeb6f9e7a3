package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/omcpatel18/Bank-Management-system/internal/models"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

func TestBalanceHandler(t *testing.T) {
	account := &models.AccountDB{
		ID:      1,
		Name:    "Alice",
		Balance: decimal.RequireFromString("1100"),
	}

	tests := []struct {
		name               string
		svc                *fakeLedgerReader
		tokener            *fakeTokener
		expectedStatusCode int
		expectedKey        string
	}{
		{
			name: "balance after accrual",
			svc: &fakeLedgerReader{
				account:  account,
				interest: &services.InterestResult{},
			},
			tokener:            authedTokener(1),
			expectedStatusCode: http.StatusOK,
			expectedKey:        "balance",
		},
		{
			name: "no history still returns balance",
			svc: &fakeLedgerReader{
				account:     account,
				interestErr: services.ErrNoHistory,
			},
			tokener:            authedTokener(1),
			expectedStatusCode: http.StatusOK,
			expectedKey:        "balance",
		},
		{
			name: "too soon still returns balance",
			svc: &fakeLedgerReader{
				account:     account,
				interestErr: services.ErrTooSoon,
			},
			tokener:            authedTokener(1),
			expectedStatusCode: http.StatusOK,
			expectedKey:        "balance",
		},
		{
			name: "account not found",
			svc: &fakeLedgerReader{
				interestErr: services.ErrAccountNotFound,
				accountErr:  services.ErrAccountNotFound,
			},
			tokener:            authedTokener(99),
			expectedStatusCode: http.StatusNotFound,
			expectedKey:        "error",
		},
		{
			name: "accrual failure",
			svc: &fakeLedgerReader{
				account:     account,
				interestErr: assert.AnError,
			},
			tokener:            authedTokener(1),
			expectedStatusCode: http.StatusInternalServerError,
			expectedKey:        "error",
		},
		{
			name:               "bad token",
			svc:                &fakeLedgerReader{},
			tokener:            &fakeTokener{claimsErr: assert.AnError},
			expectedStatusCode: http.StatusUnauthorized,
			expectedKey:        "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/balance", nil)
			w := httptest.NewRecorder()

			NewBalanceHandler(tt.svc, tt.tokener, 10)(w, r)

			assert.Equal(t, tt.expectedStatusCode, w.Code)

			var resp map[string]any
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp, tt.expectedKey)
		})
	}
}

func TestBalanceHandler_ResponseBody(t *testing.T) {
	svc := &fakeLedgerReader{
		account: &models.AccountDB{
			ID:      1,
			Name:    "Alice",
			Balance: decimal.RequireFromString("1100"),
		},
		interest: &services.InterestResult{},
	}

	r := httptest.NewRequest(http.MethodGet, "/balance", nil)
	w := httptest.NewRecorder()

	NewBalanceHandler(svc, authedTokener(1), 10)(w, r)

	var resp BalanceResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "1100.00", resp.Balance)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/omcpatel18/Bank-Management-system/internal/jwt"
	"github.com/omcpatel18/Bank-Management-system/internal/models"
	"github.com/omcpatel18/Bank-Management-system/internal/services"
)

// fakeTokener satisfies Tokener for handler tests.
type fakeTokener struct {
	claims    *jwt.Claims
	tokenErr  error
	claimsErr error
}

func (f *fakeTokener) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "valid-token", nil
}

func (f *fakeTokener) GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	if f.claimsErr != nil {
		return nil, f.claimsErr
	}
	return f.claims, nil
}

func authedTokener(userID int64) *fakeTokener {
	return &fakeTokener{claims: &jwt.Claims{UserID: userID}}
}

type fakeRegisterer struct {
	id  int64
	err error
}

func (f *fakeRegisterer) Register(ctx context.Context, name, phone, email, pin string) (int64, error) {
	return f.id, f.err
}

type fakeLoginer struct {
	token string
	err   error
}

func (f *fakeLoginer) Login(ctx context.Context, accountID int64, pin string) (string, error) {
	return f.token, f.err
}

type fakeCrediter struct {
	balance decimal.Decimal
	err     error

	gotAccountID int64
	gotAmount    decimal.Decimal
}

func (f *fakeCrediter) Credit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	f.gotAccountID = accountID
	f.gotAmount = amount
	return f.balance, f.err
}

type fakeDebiter struct {
	balance decimal.Decimal
	err     error
}

func (f *fakeDebiter) Debit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	return f.balance, f.err
}

type fakeTransferer struct {
	result *services.TransferResult
	err    error
}

func (f *fakeTransferer) Transfer(ctx context.Context, senderID, receiverID int64, amount decimal.Decimal) (*services.TransferResult, error) {
	return f.result, f.err
}

type fakeLedgerReader struct {
	account  *models.AccountDB
	interest *services.InterestResult
	records  []models.TransactionDB

	accountErr  error
	interestErr error
	recordsErr  error
}

func (f *fakeLedgerReader) GetAccount(ctx context.Context, accountID int64) (*models.AccountDB, error) {
	return f.account, f.accountErr
}

func (f *fakeLedgerReader) AccrueInterest(ctx context.Context, accountID int64, annualRatePercent float64) (*services.InterestResult, error) {
	return f.interest, f.interestErr
}

func (f *fakeLedgerReader) RecentTransactions(ctx context.Context, accountID int64, limit int) ([]models.TransactionDB, error) {
	return f.records, f.recordsErr
}

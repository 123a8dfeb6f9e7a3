package handlers

import (
	"context"
	"net/http"

	"github.com/omcpatel18/Bank-Management-system/internal/jwt"
)

// Tokener extracts and parses the bearer token for protected handlers.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// accountIDFromRequest resolves the authenticated account id from the request token.
func accountIDFromRequest(ctx context.Context, r *http.Request, tokener Tokener) (int64, error) {
	tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		return 0, err
	}

	claims, err := tokener.GetClaims(ctx, tokenStr)
	if err != nil {
		return 0, err
	}

	return claims.UserID, nil
}

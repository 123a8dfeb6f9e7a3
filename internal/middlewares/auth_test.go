package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTokener struct {
	tokenErr    error
	validateErr error
}

func (f *fakeTokener) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	if f.tokenErr != nil {
		return "", f.tokenErr
	}
	return "valid-token", nil
}

func (f *fakeTokener) Validate(ctx context.Context, tokenString string) error {
	return f.validateErr
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name               string
		tokener            *fakeTokener
		expectedStatusCode int
		expectNextCalled   bool
	}{
		{
			name:               "valid token",
			tokener:            &fakeTokener{},
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "missing token",
			tokener:            &fakeTokener{tokenErr: assert.AnError},
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "invalid token",
			tokener:            &fakeTokener{validateErr: assert.AnError},
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/balance", nil)
			w := httptest.NewRecorder()

			AuthMiddleware(tt.tokener)(next).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatusCode, w.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
		})
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"task-manager/backend/models"
	"task-manager/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTokenChecker struct {
	revoked bool
	err     error
}

func (f *fakeTokenChecker) IsRevoked(ctx context.Context, token string) (bool, error) {
	return f.revoked, f.err
}

func okHandler(sawRequester *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := RequesterFromContext(r.Context()); ok {
			*sawRequester = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID.Hex(), "john@example.com", models.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		checker    *fakeTokenChecker
		wantStatus int
		wantPass   bool
	}{
		{"missing header", "", &fakeTokenChecker{}, http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", &fakeTokenChecker{}, http.StatusUnauthorized, false},
		{"garbage token", "Bearer nope", &fakeTokenChecker{}, http.StatusUnauthorized, false},
		{"valid token", "Bearer " + token, &fakeTokenChecker{}, http.StatusOK, true},
		{"revoked token", "Bearer " + token, &fakeTokenChecker{revoked: true}, http.StatusUnauthorized, false},
		{"revocation check failure", "Bearer " + token, &fakeTokenChecker{err: errors.New("redis down")}, http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sawRequester := false
			handler := JWTAuthMiddleware(tt.checker)(okHandler(&sawRequester))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if sawRequester != tt.wantPass {
				t.Errorf("request passed through = %v, want %v", sawRequester, tt.wantPass)
			}
		})
	}
}

func TestJWTAuthMiddlewareStoresIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	token, err := utils.GenerateToken(userID.Hex(), "admin@taskmanager.com", models.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	handler := JWTAuthMiddleware(&fakeTokenChecker{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requester, ok := RequesterFromContext(r.Context())
		if !ok {
			t.Fatal("requester missing from context")
		}
		if requester.ID != userID {
			t.Errorf("requester.ID = %v, want %v", requester.ID, userID)
		}
		if !requester.IsAdmin() {
			t.Error("requester should be admin")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRecoverTurnsPanicsIntoGeneric500(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Something went wrong!") || strings.Contains(body, "boom") {
		t.Errorf("body should be generic, got %q", body)
	}
}

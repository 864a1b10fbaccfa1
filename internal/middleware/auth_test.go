package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shelby-backend/internal/auth"
)

func newAuthStack(t *testing.T) (*auth.Manager, http.Handler) {
	t.Helper()
	manager := &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "shelby-backend"}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return manager, RequireAuth(manager)(RequireAdmin(inner))
}

func TestAdminRouteAccess(t *testing.T) {
	manager, handler := newAuthStack(t)

	adminToken, err := manager.NewToken("admin-1", true)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	customerToken, err := manager.NewToken("user-1", false)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"customer token", "Bearer " + customerToken, http.StatusForbidden},
		{"admin token", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/bookings/admin", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestClaimsFromContextRoundTrip(t *testing.T) {
	manager := &auth.Manager{Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "shelby-backend"}
	token, err := manager.NewToken("user-9", false)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	var got *auth.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	RequireAuth(manager)(inner).ServeHTTP(rec, req)

	if got == nil || got.UserID != "user-9" || got.IsAdmin {
		t.Fatalf("claims = %+v, want user-9 non-admin", got)
	}
}

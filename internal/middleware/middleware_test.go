package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/middleware"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/session"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestRequestIDIsPropagated(t *testing.T) {
	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if seen != "abc" || w.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("expected incoming id to be reused, got %q", seen)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if seen == "" || seen == "abc" {
		t.Errorf("expected a fresh id, got %q", seen)
	}
}

func TestRecovererReturns500(t *testing.T) {
	h := middleware.Recoverer(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestRequireSessionAndRole(t *testing.T) {
	store := session.NewStore(time.Hour)
	staff := store.Create(model.User{ID: "s", Role: model.RoleStaff})
	admin := store.Create(model.User{ID: "a", Role: model.RoleAdmin})

	h := middleware.RequireSession(store)(middleware.RequireRole(model.RoleAdmin)(http.HandlerFunc(ok)))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"staff", "Bearer " + staff.Token, http.StatusForbidden},
		{"admin", "bearer " + admin.Token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/users", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}
}

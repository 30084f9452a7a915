package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unclebandit/ggph-smms/internal/cache"
	"github.com/unclebandit/ggph-smms/internal/controller"
	"github.com/unclebandit/ggph-smms/internal/handler"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/service"
	"github.com/unclebandit/ggph-smms/internal/session"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	t        *testing.T
	handler  http.Handler
	sessions *session.Store
	admin    string
	staff    string
}

// newTestServer wires the real router over memory repositories.
func newTestServer(t *testing.T, campaigns repository.CampaignRepositoryInterface) *testServer {
	t.Helper()
	log := zap.NewNop()
	hash, _ := service.HashPassword("pw", bcrypt.MinCost)
	users := repository.NewMemoryUserRepository(
		model.User{ID: "u-admin", Username: "admin", Name: "Admin", Role: model.RoleAdmin, PasswordHash: hash},
		model.User{ID: "u-staff", Username: "staff", Name: "Staff", Role: model.RoleStaff, PasswordHash: hash},
	)
	branches := repository.NewMemoryBranchRepository(model.Branch{ID: "kl", Name: "Kuala Lumpur"})
	sessions := session.NewStore(time.Hour)

	loader := &service.SnapshotLoader{
		Campaigns:  campaigns,
		Branches:   branches,
		Categories: repository.NewMemoryCategoryRepository(),
		EventTypes: repository.NewMemoryEventTypeRepository(),
		Users:      users,
		Log:        log,
	}
	dashboard := &service.DashboardService{
		Loader: loader, Cache: cache.NewLRUCache[service.DashboardView](16, time.Minute),
		Location: time.UTC, Currency: "RM", Log: log,
	}
	calendar := &service.CalendarService{Loader: loader, Location: time.UTC}
	campaignSvc := &service.CampaignService{CampaignRepo: campaigns, AuditRepo: repository.NewMemoryAuditRepository(), Dashboards: dashboard, Location: time.UTC, Log: log}
	adminSvc := &service.AdminService{
		Branches: branches, Categories: loader.Categories, EventTypes: loader.EventTypes, Users: users,
		Sessions: sessions, Dashboards: dashboard, Log: log, HashCost: bcrypt.MinCost,
	}

	h := controller.NewRouter(controller.Routes{
		Auth:      &controller.AuthController{AuthService: &service.AuthService{Users: users, Sessions: sessions, Log: log}},
		Dashboard: &controller.DashboardController{DashboardService: dashboard, CalendarService: calendar, Location: time.UTC, Now: func() time.Time { return testNow }},
		Campaign:  &controller.CampaignController{CampaignService: campaignSvc},
		Admin:     &controller.AdminController{AdminService: adminSvc},
		Export:    &handler.ExportHandler{Dashboard: dashboard, Calendar: calendar, Location: time.UTC, Now: func() time.Time { return testNow }, Log: log},
		Sessions:  sessions,
		Log:       log,
	})

	s := &testServer{t: t, handler: h, sessions: sessions}
	admin, _ := users.GetByID(context.Background(), "u-admin")
	staff, _ := users.GetByID(context.Background(), "u-staff")
	s.admin = sessions.Create(*admin).Token
	s.staff = sessions.Create(*staff).Token
	return s
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

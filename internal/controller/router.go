// internal/controller/router.go
package controller

import (
    "net/http"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"

    "github.com/unclebandit/ggph-smms/internal/handler"
    "github.com/unclebandit/ggph-smms/internal/metrics"
    "github.com/unclebandit/ggph-smms/internal/middleware"
    "github.com/unclebandit/ggph-smms/internal/model"
)

type Routes struct {
    Auth      *AuthController
    Dashboard *DashboardController
    Campaign  *CampaignController
    Admin     *AdminController
    Export    *handler.ExportHandler
    Sessions  middleware.SessionLookup
    Log       *zap.Logger
}

// NewRouter wires every endpoint. Only /healthz, /metrics and /login are
// reachable without a session.
func NewRouter(rt Routes) http.Handler {
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.Logger(rt.Log))
    r.Use(middleware.Recoverer(rt.Log))

    r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.Write([]byte("ok"))
    })
    r.Handle("/metrics", metrics.Handler())
    r.Post("/login", rt.Auth.Login)

    r.Group(func(r chi.Router) {
        r.Use(middleware.RequireSession(rt.Sessions))

        r.Post("/logout", rt.Auth.Logout)
        r.Get("/me", rt.Auth.Me)

        // Dashboard routes
        r.Get("/dashboard", rt.Dashboard.Dashboard)
        r.Get("/dashboard/export.xlsx", rt.Export.DashboardXLSX)

        // Calendar routes
        r.Get("/calendar/{year}/events", rt.Dashboard.YearEvents)
        r.Get("/calendar/{year}/export.xlsx", rt.Export.YearEventsXLSX)
        r.Get("/calendar/{year}/{month}", rt.Dashboard.MonthGrid)

        // Campaign routes
        r.Get("/campaigns", rt.Campaign.ListCampaigns)
        r.Post("/campaigns", rt.Campaign.CreateCampaign)
        r.Get("/campaigns/{id}", rt.Campaign.GetCampaign)
        r.Put("/campaigns/{id}", rt.Campaign.UpdateCampaign)
        r.Delete("/campaigns/{id}", rt.Campaign.DeleteCampaign)
        r.Put("/campaigns/{id}/status", rt.Campaign.SetStatus)
        r.Post("/campaigns/{id}/status/next", rt.Campaign.AdvanceStatus)
        r.Get("/campaigns/{id}/history", rt.Campaign.History)
        r.Post("/campaigns/{id}/plans", rt.Campaign.AddPlan)
        r.Put("/campaigns/{id}/plans/{planID}", rt.Campaign.UpdatePlan)
        r.Delete("/campaigns/{id}/plans/{planID}", rt.Campaign.DeletePlan)
        r.Post("/campaigns/{id}/plans/{planID}/status/next", rt.Campaign.AdvancePlanStatus)

        rt.Admin.Routes(r, middleware.RequireRole(model.RoleAdmin))
    })
    return r
}

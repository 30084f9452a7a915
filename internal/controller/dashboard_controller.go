// internal/controller/dashboard_controller.go
package controller

import (
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"

    "github.com/unclebandit/ggph-smms/internal/handler"
    "github.com/unclebandit/ggph-smms/internal/service"
)

type DashboardController struct {
    DashboardService *service.DashboardService
    CalendarService  *service.CalendarService
    Location         *time.Location
    Now              func() time.Time
}

func (c *DashboardController) now() time.Time {
    if c.Now != nil {
        return c.Now()
    }
    return time.Now()
}

func (c *DashboardController) Dashboard(w http.ResponseWriter, r *http.Request) {
    branch, f := handler.DashboardQuery(r, c.Location, c.now())
    view, err := c.DashboardService.Dashboard(r.Context(), branch, f)
    if err != nil {
        writeFetchFailure(w, err, view)
        return
    }
    json200(w, view)
}

// YearEvents serves the calendar's year list.
func (c *DashboardController) YearEvents(w http.ResponseWriter, r *http.Request) {
    year, err := strconv.Atoi(chi.URLParam(r, "year"))
    if err != nil {
        http.Error(w, "invalid year", http.StatusBadRequest)
        return
    }
    view, err := c.CalendarService.Year(r.Context(), year, handler.CampaignQuery(r))
    if err != nil {
        writeFetchFailure(w, err, view)
        return
    }
    json200(w, view)
}

// MonthGrid serves one month of the calendar; month is 0-11.
func (c *DashboardController) MonthGrid(w http.ResponseWriter, r *http.Request) {
    year, err := strconv.Atoi(chi.URLParam(r, "year"))
    if err != nil {
        http.Error(w, "invalid year", http.StatusBadRequest)
        return
    }
    month, err := strconv.Atoi(chi.URLParam(r, "month"))
    if err != nil || month < 0 || month > 11 {
        http.Error(w, "month must be 0-11", http.StatusBadRequest)
        return
    }
    q := handler.CampaignQuery(r)
    q.Year, q.Month = nil, nil
    view, err := c.CalendarService.Month(r.Context(), year, month, q)
    if err != nil {
        writeFetchFailure(w, err, view)
        return
    }
    json200(w, view)
}

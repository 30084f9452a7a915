package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/export"
	"github.com/unclebandit/ggph-smms/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the spreadsheet downloads.
type ExportHandler struct {
	Dashboard *service.DashboardService
	Calendar  *service.CalendarService
	Location  *time.Location
	Now       func() time.Time
	Log       *zap.Logger
}

func (h *ExportHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// DashboardXLSX takes the same query as GET /dashboard.
func (h *ExportHandler) DashboardXLSX(w http.ResponseWriter, r *http.Request) {
	branch, f := DashboardQuery(r, h.Location, h.now())
	view, err := h.Dashboard.Dashboard(r.Context(), branch, f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	wb, err := export.DashboardWorkbook(view.Dashboard)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.send(w, wb, export.Filename("dashboard", view.Branch, view.Start, view.End))
}

func (h *ExportHandler) YearEventsXLSX(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	view, err := h.Calendar.Year(r.Context(), year, CampaignQuery(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	wb, err := export.YearEventsWorkbook(year, view.Events)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.send(w, wb, export.Filename("calendar", strconv.Itoa(year), view.Branch))
}

func (h *ExportHandler) send(w http.ResponseWriter, wb *export.Workbook, name string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := wb.Write(w); err != nil {
		h.Log.Error("failed to write workbook", zap.String("file", name), zap.Error(err))
	}
}

func (h *ExportHandler) fail(w http.ResponseWriter, err error) {
	h.Log.Error("failed to build workbook", zap.Error(err))
	http.Error(w, "export failed", http.StatusInternalServerError)
}

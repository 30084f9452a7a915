package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/unclebandit/ggph-smms/internal/analytics"
)

// DashboardQuery reads ?branch=&mode=&month=&year=&start=&end=. Month and year
// default to now in loc. Unparseable numbers become out-of-range values so
// the resolver reports an invalid range instead of silently picking a month.
func DashboardQuery(r *http.Request, loc *time.Location, now time.Time) (string, analytics.Filter) {
	q := r.URL.Query()
	now = now.In(loc)

	year := intParam(q.Get("year"), now.Year())
	month := intParam(q.Get("month"), int(now.Month())-1)
	if year < 0 {
		month = -1
	}
	f := analytics.MonthFilter(year, month, loc)
	if month < 0 || month > 11 {
		f = analytics.Filter{Mode: analytics.ModeMonth, Year: year, Month: month}
	}
	if analytics.Mode(q.Get("mode")) == analytics.ModeRange {
		f = f.RangeFilter(q.Get("start"), q.Get("end"))
	}
	return q.Get("branch"), f
}

// CampaignQuery reads the list filter bar: ?branch=&category=&year=&month=.
// "all" or empty leaves a field unrestricted.
func CampaignQuery(r *http.Request) analytics.CampaignQuery {
	q := r.URL.Query()
	out := analytics.CampaignQuery{BranchID: q.Get("branch"), CategoryID: q.Get("category")}
	if y, err := strconv.Atoi(q.Get("year")); err == nil {
		out.Year = &y
		if m, err := strconv.Atoi(q.Get("month")); err == nil {
			out.Month = &m
		}
	}
	return out
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return v
}

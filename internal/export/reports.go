package export

import (
	"fmt"
	"strings"

	"github.com/unclebandit/ggph-smms/internal/analytics"
)

// DashboardWorkbook exports one dashboard selection.
func DashboardWorkbook(d analytics.Dashboard) (*Workbook, error) {
	kpis := SheetSpec{
		Title:  "KPIs",
		Header: []string{"Metric", "Value", "Display"},
		Rows: [][]any{
			{"Branch", d.Branch, d.Branch},
			{"Start", d.Start, d.Start},
			{"End", d.End, d.End},
		},
	}
	for _, k := range d.KPIs {
		kpis.Rows = append(kpis.Rows, []any{k.Label, k.Value, k.Display})
	}
	kpis.Rows = append(kpis.Rows, []any{"ROAS", d.Summary.ROAS, ""})

	campaigns := SheetSpec{
		Title:  "Campaigns",
		Header: []string{"ID", "Name", "Branch", "Start", "End", "Status", "Target Revenue", "Actual Revenue", "Plans"},
		Rows:   make([][]any, 0, len(d.Campaigns)),
	}
	for _, c := range d.Campaigns {
		campaigns.Rows = append(campaigns.Rows, []any{
			c.ID, c.Name, c.BranchID, c.StartDate, c.EndDate, string(c.Status),
			c.TargetRevenue, c.ActualRevenue, len(c.Plans),
		})
	}

	plans := SheetSpec{
		Title:  "Plans",
		Header: []string{"ID", "Title", "Campaign", "Scheduled", "Status", "Platforms", "Budget", "Cost"},
		Rows:   make([][]any, 0, len(d.Plans)),
	}
	for _, p := range d.Plans {
		plans.Rows = append(plans.Rows, []any{
			p.Plan.ID, p.Plan.Title, p.CampaignName, p.Plan.ScheduledDate, string(p.Plan.Status),
			strings.Join(p.Plan.Platform, ", "), p.Plan.Budget, p.Plan.Cost,
		})
	}

	platforms := SheetSpec{Title: "Platforms", Header: []string{"Platform", "Plans"}}
	for _, s := range d.Platforms {
		platforms.Rows = append(platforms.Rows, []any{s.Name, s.Value})
	}

	return NewWorkbook([]SheetSpec{kpis, campaigns, plans, platforms})
}

// YearEventsWorkbook exports the calendar's year list.
func YearEventsWorkbook(year int, events []analytics.YearEvent) (*Workbook, error) {
	sheet := SheetSpec{
		Title:  fmt.Sprintf("Events %d", year),
		Header: []string{"Date", "Type", "Title", "Details", "Status", "Campaign ID"},
		Rows:   make([][]any, 0, len(events)),
	}
	for _, e := range events {
		sheet.Rows = append(sheet.Rows, []any{e.Day, string(e.Kind), e.Title, e.Subtitle, e.Status, e.CampaignID})
	}
	return NewWorkbook([]SheetSpec{sheet})
}

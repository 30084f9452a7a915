package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/unclebandit/ggph-smms/internal/model"
)

type EventKind string

const (
	EventCampaign EventKind = "campaign"
	EventPlan     EventKind = "plan"
)

// YearEvent is one row of the calendar list view. Date is the sort key: the
// plan's scheduled date, or the campaign's start clamped to Jan 1.
type YearEvent struct {
	Date       time.Time `json:"-"`
	Day        string    `json:"date"`
	Kind       EventKind `json:"type"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Status     string    `json:"status"`
	CampaignID string    `json:"campaignId"`
}

// YearEvents lists every campaign overlapping year and every plan scheduled
// in it, ascending by sort key. Equal keys keep encounter order: all
// campaigns first, then plans, each in input order.
func YearEvents(campaigns []model.Campaign, year int, loc *time.Location) []YearEvent {
	yr := YearInterval(year, loc)
	events := []YearEvent{}

	for _, c := range campaigns {
		start, end, ok := campaignSpan(c, yr.location())
		if !ok {
			continue
		}
		if start.After(yr.End) || end.Before(yr.Start) {
			continue
		}
		key := start
		if start.Before(yr.Start) {
			key = yr.Start
		}
		events = append(events, YearEvent{
			Date:       key,
			Day:        formatDate(key),
			Kind:       EventCampaign,
			ID:         c.ID,
			Title:      c.Name,
			Subtitle:   "Active: " + c.StartDate + " to " + c.EndDate,
			Status:     string(c.Status),
			CampaignID: c.ID,
		})
	}

	for _, c := range campaigns {
		for _, p := range c.Plans {
			d, err := ParseDate(p.ScheduledDate, yr.location())
			if err != nil || d.Year() != year {
				continue
			}
			events = append(events, YearEvent{
				Date:       d,
				Day:        formatDate(d),
				Kind:       EventPlan,
				ID:         p.ID,
				Title:      p.Title,
				Subtitle:   c.Name + " • " + strings.Join(p.Platform, ", "),
				Status:     string(p.Status),
				CampaignID: c.ID,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

// CampaignsOnDay returns the campaigns whose whole-day span contains day.
func CampaignsOnDay(campaigns []model.Campaign, day time.Time) []model.Campaign {
	out := []model.Campaign{}
	for _, c := range campaigns {
		start, end, ok := campaignSpan(c, day.Location())
		if !ok {
			continue
		}
		span := Interval{Start: StartOfDay(start), End: EndOfDay(end)}
		if span.Contains(day) {
			out = append(out, c)
		}
	}
	return out
}

// PlansOnDay returns the plans scheduled on day's calendar date.
func PlansOnDay(campaigns []model.Campaign, day time.Time) []PlanRef {
	iv := DayInterval(day)
	return ExtractPlans(campaigns, &iv)
}

// CampaignRef is the slim campaign bar drawn on a calendar day.
type CampaignRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// DayCell is one square of the month grid.
type DayCell struct {
	Date      string        `json:"date"`
	Campaigns []CampaignRef `json:"campaigns"`
	Plans     []PlanRef     `json:"plans"`
}

// MonthGrid builds one cell per day of month (0-11) of year.
func MonthGrid(campaigns []model.Campaign, year, month int, loc *time.Location) []DayCell {
	if month < 0 || month > 11 {
		return []DayCell{}
	}
	iv := MonthInterval(year, month, loc)
	cells := []DayCell{}
	for day := iv.Start; !day.After(iv.End); day = day.AddDate(0, 0, 1) {
		cell := DayCell{Date: formatDate(day), Campaigns: []CampaignRef{}, Plans: PlansOnDay(campaigns, day)}
		for _, c := range CampaignsOnDay(campaigns, day) {
			cell.Campaigns = append(cell.Campaigns, CampaignRef{ID: c.ID, Name: c.Name, Status: string(c.Status)})
		}
		cells = append(cells, cell)
	}
	return cells
}

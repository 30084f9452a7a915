package analytics

import "github.com/unclebandit/ggph-smms/internal/model"

// Dashboard is everything the dashboard screen renders for one selection.
type Dashboard struct {
	Branch       string           `json:"branch"`
	Start        string           `json:"startDate"`
	End          string           `json:"endDate"`
	InvalidRange bool             `json:"invalidRange,omitempty"`
	Campaigns    []model.Campaign `json:"campaigns"`
	Plans        []PlanRef        `json:"plans"`
	Summary      Summary          `json:"summary"`
	KPIs         []KPI            `json:"kpis"`
	Financial    []FinancialPoint `json:"revenueData"`
	Platforms    []PlatformSlice  `json:"platformData"`
}

// BuildDashboard runs branch filter, overlap filter and plan extraction, then
// aggregates. Plans are taken from every branch-matching campaign, not only
// the overlapping ones, so a plan can be counted for a window its campaign
// does not overlap. An invalid iv yields an empty dashboard.
func BuildDashboard(campaigns []model.Campaign, branch string, iv Interval, currency string) Dashboard {
	d := Dashboard{
		Branch:    branch,
		Start:     iv.StartDate(),
		End:       iv.EndDate(),
		Campaigns: []model.Campaign{},
		Plans:     []PlanRef{},
	}
	if iv.Valid() {
		relevant := FilterByBranch(campaigns, branch)
		d.Campaigns = FilterCampaigns(relevant, AllBranches, iv)
		d.Plans = ExtractPlans(relevant, &iv)
	} else {
		d.InvalidRange = true
	}
	d.Summary = Summarize(d.Campaigns, d.Plans)
	d.KPIs = d.Summary.KPIs(currency)
	d.Financial = FinancialSeries(d.Campaigns, d.Plans)
	d.Platforms = PlatformDistribution(d.Plans)
	return d
}

// EmptyDashboard is what a screen shows when its data could not be loaded.
func EmptyDashboard(branch string, iv Interval, currency string) Dashboard {
	return BuildDashboard(nil, branch, iv, currency)
}

package analytics

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/unclebandit/ggph-smms/internal/model"
)

// Summary holds the dashboard metrics for one window.
type Summary struct {
	// Revenue is the full actualRevenue of every overlapping campaign, however
	// little of the campaign falls inside the window.
	Revenue float64 `json:"revenue"`
	// Spend only counts plans scheduled inside the window.
	Spend        float64   `json:"spend"`
	ROAS         float64   `json:"roas"`
	ActivePlans  []PlanRef `json:"activePlans"`
	PendingTasks []PlanRef `json:"pendingTasks"`
}

// Summarize reduces the window's campaigns and plans into metrics. The
// campaigns must already be branch and overlap filtered; the plans must be
// interval filtered.
func Summarize(campaigns []model.Campaign, plans []PlanRef) Summary {
	revenue := decimal.Zero
	for _, c := range campaigns {
		revenue = revenue.Add(decimal.NewFromFloat(c.ActualRevenue))
	}
	spend := sumCost(plans)

	s := Summary{
		Revenue: revenue.InexactFloat64(),
		Spend:   spend.InexactFloat64(),
		ActivePlans: FilterPlans(plans, func(p model.MarketingPlan) bool {
			return p.Status != model.PlanDraft
		}),
		PendingTasks: FilterPlans(plans, func(p model.MarketingPlan) bool {
			return p.Status != model.PlanPublished
		}),
	}
	if !spend.IsZero() {
		s.ROAS = revenue.DivRound(spend, 2).InexactFloat64()
	}
	return s
}

func sumCost(plans []PlanRef) decimal.Decimal {
	total := decimal.Zero
	for _, r := range plans {
		total = total.Add(decimal.NewFromFloat(r.Plan.Cost))
	}
	return total
}

// KPI is one dashboard card. Clickable cards carry their drill-down items.
type KPI struct {
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Display   string    `json:"display"`
	Clickable bool      `json:"clickable"`
	Items     []PlanRef `json:"items,omitempty"`
}

// KPIs renders the four dashboard cards in display order.
func (s Summary) KPIs(currency string) []KPI {
	return []KPI{
		{Label: "Revenue (Campaigns)", Value: s.Revenue, Display: FormatMoney(currency, s.Revenue)},
		{Label: "Marketing Spend", Value: s.Spend, Display: FormatMoney(currency, s.Spend)},
		{
			Label:     "Active Plans",
			Value:     float64(len(s.ActivePlans)),
			Display:   strconv.Itoa(len(s.ActivePlans)),
			Clickable: true,
			Items:     s.ActivePlans,
		},
		{
			Label:     "Pending Tasks",
			Value:     float64(len(s.PendingTasks)),
			Display:   strconv.Itoa(len(s.PendingTasks)),
			Clickable: true,
			Items:     s.PendingTasks,
		},
	}
}

// FormatMoney renders an amount with thousands separators and at most three
// fraction digits, e.g. "RM 12,500".
func FormatMoney(currency string, v float64) string {
	rounded := decimal.NewFromFloat(v).Round(3).InexactFloat64()
	s := humanize.Commaf(rounded)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

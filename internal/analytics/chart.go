package analytics

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/unclebandit/ggph-smms/internal/model"
)

// FinancialPoint is one bar pair of the revenue vs spend chart.
type FinancialPoint struct {
	Label   string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Spend   float64 `json:"spend"`
}

// ShortName keeps the first two whitespace separated words of a campaign name.
func ShortName(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

// FinancialSeries emits one point per campaign, in campaign order. Spend is
// the cost of that campaign's plans present in the filtered plan list.
func FinancialSeries(campaigns []model.Campaign, plans []PlanRef) []FinancialPoint {
	spendByCampaign := map[string]decimal.Decimal{}
	for _, r := range plans {
		spendByCampaign[r.CampaignID] = spendByCampaign[r.CampaignID].Add(decimal.NewFromFloat(r.Plan.Cost))
	}

	out := make([]FinancialPoint, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, FinancialPoint{
			Label:   ShortName(c.Name),
			Revenue: c.ActualRevenue,
			Spend:   spendByCampaign[c.ID].InexactFloat64(),
		})
	}
	return out
}

// PlatformSlice is one wedge of the platform distribution chart.
type PlatformSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PlatformDistribution counts plans per platform label. A plan listing n
// platforms adds one to each of the n buckets. Slices come out in order of
// first appearance so repeated calls render identically.
func PlatformDistribution(plans []PlanRef) []PlatformSlice {
	index := map[string]int{}
	out := []PlatformSlice{}
	for _, r := range plans {
		for _, platform := range r.Plan.Platform {
			i, ok := index[platform]
			if !ok {
				i = len(out)
				index[platform] = i
				out = append(out, PlatformSlice{Name: platform})
			}
			out[i].Value++
		}
	}
	return out
}

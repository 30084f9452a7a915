package analytics

import "github.com/unclebandit/ggph-smms/internal/model"

// PlanRef is a plan flattened out of its campaign, keeping the parent's
// identity for drill-down navigation.
type PlanRef struct {
	Plan         model.MarketingPlan `json:"plan"`
	CampaignName string              `json:"campaignName"`
	CampaignID   string              `json:"campaignId"`
}

// ExtractPlans flattens every plan of every campaign in campaign order then
// plan order. When iv is non-nil only plans scheduled inside it are kept; an
// invalid iv keeps nothing, as does a missing or unparseable scheduled date.
func ExtractPlans(campaigns []model.Campaign, iv *Interval) []PlanRef {
	out := []PlanRef{}
	if iv != nil && !iv.Valid() {
		return out
	}
	for _, c := range campaigns {
		for _, p := range c.Plans {
			if iv != nil {
				d, err := ParseDate(p.ScheduledDate, iv.location())
				if err != nil || !iv.Contains(d) {
					continue
				}
			}
			out = append(out, PlanRef{Plan: p, CampaignName: c.Name, CampaignID: c.ID})
		}
	}
	return out
}

// FilterPlans keeps the refs for which keep returns true, preserving order.
func FilterPlans(refs []PlanRef, keep func(model.MarketingPlan) bool) []PlanRef {
	out := []PlanRef{}
	for _, r := range refs {
		if keep(r.Plan) {
			out = append(out, r)
		}
	}
	return out
}

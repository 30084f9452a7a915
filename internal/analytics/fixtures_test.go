package analytics_test

import "github.com/unclebandit/ggph-smms/internal/model"

func strPtr(s string) *string { return &s }

func plan(id, date string, status model.PlanStatus, cost float64, platforms ...string) model.MarketingPlan {
	return model.MarketingPlan{
		ID:            id,
		Title:         "Plan " + id,
		Platform:      platforms,
		ScheduledDate: date,
		Status:        status,
		Cost:          cost,
	}
}

func campaign(id, branch, start, end string, revenue float64, plans ...model.MarketingPlan) model.Campaign {
	return model.Campaign{
		ID:            id,
		BranchID:      branch,
		Name:          "Campaign " + id,
		StartDate:     start,
		EndDate:       end,
		Status:        model.CampaignActive,
		ActualRevenue: revenue,
		Plans:         plans,
	}
}

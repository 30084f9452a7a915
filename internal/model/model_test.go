package model_test

import (
	"testing"

	"github.com/unclebandit/ggph-smms/internal/model"
)

func TestCampaignStatusNextCycles(t *testing.T) {
	want := []model.CampaignStatus{
		model.CampaignActive,
		model.CampaignCompleted,
		model.CampaignOnHold,
		model.CampaignCancelled,
		model.CampaignPlanning,
	}
	s := model.CampaignPlanning
	for i, w := range want {
		s = s.Next()
		if s != w {
			t.Fatalf("step %d: expected %q, got %q", i, w, s)
		}
	}
	if got := model.CampaignStatus("bogus").Next(); got != model.CampaignPlanning {
		t.Errorf("unknown status should restart at Planning, got %q", got)
	}
}

func TestPlanStatusNextCycles(t *testing.T) {
	if got := model.PlanCancelled.Next(); got != model.PlanDraft {
		t.Errorf("expected Draft after Cancelled, got %q", got)
	}
	if got := model.PlanScheduled.Next(); got != model.PlanPublished {
		t.Errorf("expected Published after Scheduled, got %q", got)
	}
}

func TestCampaignCloneDoesNotAlias(t *testing.T) {
	desc := "summer"
	c := model.Campaign{
		ID:          "c1",
		Description: &desc,
		Plans: []model.MarketingPlan{
			{ID: "p1", Platform: []string{"TikTok"}},
		},
	}
	cp := c.Clone()
	cp.Plans[0].Platform[0] = "Email"
	*cp.Description = "winter"

	if c.Plans[0].Platform[0] != "TikTok" {
		t.Errorf("clone aliased platform slice")
	}
	if *c.Description != "summer" {
		t.Errorf("clone aliased description")
	}
	if c.PlanIndex("p1") != 0 || c.PlanIndex("nope") != -1 {
		t.Errorf("unexpected PlanIndex results")
	}
}

package analytics_test

import (
	"testing"

	"github.com/unclebandit/ggph-smms/internal/analytics"
	"github.com/unclebandit/ggph-smms/internal/model"
)

func TestSummarizeRevenueAttributesWholeCampaign(t *testing.T) {
	campaigns := []model.Campaign{
		campaign("long", "b1", "2023-01-01", "2025-12-31", 1000),
		campaign("short", "b1", "2024-05-10", "2024-05-11", 250.5),
		campaign("outside", "b1", "2024-07-01", "2024-07-31", 99999),
	}
	iv := rangeOf(t, "2024-05-01", "2024-05-31")

	d := analytics.BuildDashboard(campaigns, "all", iv, "RM")
	if d.Summary.Revenue != 1250.5 {
		t.Errorf("expected revenue 1250.5, got %v", d.Summary.Revenue)
	}
}

func TestSummarizeCountsAndDrillDown(t *testing.T) {
	plans := analytics.ExtractPlans([]model.Campaign{
		campaign("c1", "b1", "2024-01-01", "2024-12-31", 0,
			plan("draft", "2024-05-01", model.PlanDraft, 10),
			plan("sched", "2024-05-02", model.PlanScheduled, 20),
			plan("pub", "2024-05-03", model.PlanPublished, 30),
			plan("canc", "2024-05-04", model.PlanCancelled, 40),
		),
	}, nil)

	s := analytics.Summarize(nil, plans)
	if s.Spend != 100 {
		t.Errorf("expected spend 100, got %v", s.Spend)
	}
	if len(s.ActivePlans) != 3 || s.ActivePlans[0].Plan.ID != "sched" {
		t.Errorf("active plans should exclude Draft only, got %+v", s.ActivePlans)
	}
	if len(s.PendingTasks) != 3 || s.PendingTasks[2].Plan.ID != "canc" {
		t.Errorf("pending tasks should exclude Published only, got %+v", s.PendingTasks)
	}
	if s.Revenue != 0 || s.ROAS != 0 {
		t.Errorf("no campaigns should give zero revenue and ROAS, got %v / %v", s.Revenue, s.ROAS)
	}
}

func TestSummarizeEmptyIsZero(t *testing.T) {
	s := analytics.Summarize(nil, nil)
	if s.Revenue != 0 || s.Spend != 0 || s.ROAS != 0 {
		t.Errorf("expected zeros, got %+v", s)
	}
	if s.ActivePlans == nil || s.PendingTasks == nil {
		t.Errorf("drill-down lists must be empty, not nil")
	}
	kpis := s.KPIs("RM")
	if len(kpis) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(kpis))
	}
	if kpis[0].Display != "RM 0" || kpis[2].Display != "0" {
		t.Errorf("unexpected displays %q / %q", kpis[0].Display, kpis[2].Display)
	}
}

func TestSummarizeSumsWithoutFloatDrift(t *testing.T) {
	plans := analytics.ExtractPlans([]model.Campaign{
		campaign("c1", "b1", "2024-01-01", "2024-12-31", 0,
			plan("a", "2024-05-01", model.PlanDraft, 0.1),
			plan("b", "2024-05-01", model.PlanDraft, 0.2),
		),
	}, nil)
	if got := analytics.Summarize(nil, plans).Spend; got != 0.3 {
		t.Errorf("expected 0.3, got %v", got)
	}
}

func TestSummarizeROAS(t *testing.T) {
	c := campaign("c1", "b1", "2024-05-01", "2024-05-31", 1000, plan("p", "2024-05-02", model.PlanDraft, 400))
	plans := analytics.ExtractPlans([]model.Campaign{c}, nil)
	if got := analytics.Summarize([]model.Campaign{c}, plans).ROAS; got != 2.5 {
		t.Errorf("expected ROAS 2.5, got %v", got)
	}
}

func TestKPICards(t *testing.T) {
	c := campaign("c1", "b1", "2024-05-01", "2024-05-31", 12500, plan("p", "2024-05-02", model.PlanScheduled, 1234.5))
	plans := analytics.ExtractPlans([]model.Campaign{c}, nil)
	kpis := analytics.Summarize([]model.Campaign{c}, plans).KPIs("RM")

	if kpis[0].Label != "Revenue (Campaigns)" || kpis[0].Display != "RM 12,500" || kpis[0].Clickable {
		t.Errorf("unexpected revenue card %+v", kpis[0])
	}
	if kpis[1].Display != "RM 1,234.5" {
		t.Errorf("unexpected spend display %q", kpis[1].Display)
	}
	if !kpis[2].Clickable || len(kpis[2].Items) != 1 || kpis[2].Value != 1 {
		t.Errorf("active plans card should drill down to one plan, got %+v", kpis[2])
	}
	if !kpis[3].Clickable || len(kpis[3].Items) != 1 {
		t.Errorf("pending tasks card should drill down to one plan, got %+v", kpis[3])
	}
}

package analytics_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/unclebandit/ggph-smms/internal/analytics"
	"github.com/unclebandit/ggph-smms/internal/model"
)

func TestBuildDashboardScenario(t *testing.T) {
	campaigns := []model.Campaign{
		campaign("c1", "b1", "2024-05-01", "2024-06-30", 12500,
			plan("p1", "2024-05-02", model.PlanPublished, 200, "TikTok"),
		),
	}
	iv := rangeOf(t, "2024-05-01", "2024-05-31")

	d := analytics.BuildDashboard(campaigns, "all", iv, "RM")
	if d.Summary.Revenue != 12500 {
		t.Errorf("expected revenue 12500, got %v", d.Summary.Revenue)
	}
	if d.Summary.Spend != 200 {
		t.Errorf("expected spend 200, got %v", d.Summary.Spend)
	}
	if len(d.Platforms) != 1 || d.Platforms[0] != (analytics.PlatformSlice{Name: "TikTok", Value: 1}) {
		t.Errorf("unexpected platform data %+v", d.Platforms)
	}
	if len(d.Summary.PendingTasks) != 0 || len(d.Summary.ActivePlans) != 1 {
		t.Errorf("published plan is active and not pending, got %+v", d.Summary)
	}
}

func TestBuildDashboardPlansComeFromBranchNotOverlap(t *testing.T) {
	// The campaign ends before May but one of its plans is scheduled in May.
	campaigns := []model.Campaign{
		campaign("c1", "b1", "2024-04-01", "2024-04-30", 900,
			plan("p1", "2024-05-03", model.PlanDraft, 40),
		),
		campaign("c2", "b2", "2024-05-01", "2024-05-31", 100,
			plan("p2", "2024-05-03", model.PlanDraft, 60),
		),
	}
	iv := analytics.MonthInterval(2024, 4, time.UTC)

	d := analytics.BuildDashboard(campaigns, "b1", iv, "RM")
	if len(d.Campaigns) != 0 || d.Summary.Revenue != 0 {
		t.Errorf("c1 does not overlap May, got %+v", d.Campaigns)
	}
	if d.Summary.Spend != 40 || len(d.Plans) != 1 {
		t.Errorf("plan p1 is scheduled in May and should count, got spend %v", d.Summary.Spend)
	}
}

func TestBuildDashboardInvalidRangeIsEmpty(t *testing.T) {
	campaigns := []model.Campaign{
		campaign("c1", "b1", "2024-05-01", "2024-06-30", 12500, plan("p1", "2024-05-02", model.PlanDraft, 200, "TikTok")),
	}
	d := analytics.BuildDashboard(campaigns, "all", analytics.Interval{}, "RM")
	if !d.InvalidRange {
		t.Errorf("expected InvalidRange flag")
	}
	if len(d.Campaigns) != 0 || len(d.Plans) != 0 || len(d.Platforms) != 0 || d.Summary.Revenue != 0 {
		t.Errorf("expected empty dashboard, got %+v", d)
	}
}

func TestBuildDashboardIsDeterministic(t *testing.T) {
	campaigns := []model.Campaign{
		campaign("c1", "b1", "2024-05-01", "2024-06-30", 12500,
			plan("p1", "2024-05-02", model.PlanPublished, 200, "TikTok", "Email"),
			plan("p2", "2024-05-09", model.PlanDraft, 15.75, "Facebook", "TikTok"),
		),
		campaign("c2", "b2", "2024-04-01", "2024-05-02", 300,
			plan("p3", "2024-05-01", model.PlanScheduled, 5, "Instagram"),
		),
	}
	iv := analytics.MonthInterval(2024, 4, time.UTC)

	first, err := json.Marshal(analytics.BuildDashboard(campaigns, "all", iv, "RM"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := json.Marshal(analytics.BuildDashboard(campaigns, "all", iv, "RM"))
		if err != nil {
			t.Fatal(err)
		}
		if string(again) != string(first) {
			t.Fatalf("run %d produced different output", i)
		}
	}
}

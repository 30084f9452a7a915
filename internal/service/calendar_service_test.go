package service_test

import (
	"context"
	"testing"

	"github.com/unclebandit/ggph-smms/internal/analytics"
	"github.com/unclebandit/ggph-smms/internal/service"
)

func TestCalendarYearFiltersBranchAndCategory(t *testing.T) {
	f := newFixture()
	svc := &service.CalendarService{Loader: f.loader, Location: f.loc}

	all, err := svc.Year(context.Background(), 2024, analytics.CampaignQuery{})
	if err != nil {
		t.Fatal(err)
	}
	// two campaigns and one plan
	if len(all.Events) != 3 {
		t.Errorf("expected 3 events, got %d", len(all.Events))
	}

	food, _ := svc.Year(context.Background(), 2024, analytics.CampaignQuery{CategoryID: "food"})
	if len(food.Events) != 1 || food.Events[0].CampaignID != "c2" {
		t.Errorf("expected only c2 for category food, got %+v", food.Events)
	}

	kl, _ := svc.Year(context.Background(), 2024, analytics.CampaignQuery{BranchID: "kl"})
	if kl.Branch != "kl" || len(kl.Events) != 2 {
		t.Errorf("expected c1 and its plan for kl, got %+v", kl.Events)
	}
}

func TestCalendarMonthGrid(t *testing.T) {
	f := newFixture()
	svc := &service.CalendarService{Loader: f.loader, Location: f.loc}

	view, err := svc.Month(context.Background(), 2024, 3, analytics.CampaignQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Days) != 30 {
		t.Fatalf("April has 30 days, got %d", len(view.Days))
	}
	if got := len(view.Days[14].Campaigns); got != 1 {
		t.Errorf("expected Penang Fest on 15 April, got %d campaigns", got)
	}
	if got := len(view.Days[0].Campaigns); got != 0 {
		t.Errorf("expected nothing on 1 April, got %d", got)
	}
}

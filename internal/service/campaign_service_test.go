package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/unclebandit/ggph-smms/internal/analytics"
	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/service"
)

var fixedNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newCampaignService(f *fixture) *service.CampaignService {
	return &service.CampaignService{
		CampaignRepo: f.campaigns,
		AuditRepo:    repository.NewMemoryAuditRepository(),
		Queue:        f.queue,
		Location:     f.loc,
		Now:          func() time.Time { return fixedNow },
	}
}

func TestCreateCampaignDefaults(t *testing.T) {
	f := newFixture()
	svc := newCampaignService(f)
	active := model.CampaignActive

	c, err := svc.CreateCampaign(context.Background(), service.CampaignInput{
		BranchID:   "kl",
		Name:       "  Merdeka Sale ",
		CategoryID: strPtr(""),
		Status:     &active,
		StartDate:  "2024-08-01",
		EndDate:    "2024-08-31",
	}, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == "" || c.Status != model.CampaignPlanning || c.Name != "Merdeka Sale" {
		t.Errorf("unexpected campaign %+v", c)
	}
	if c.Plans == nil || len(c.Plans) != 0 {
		t.Errorf("plans must start empty, got %v", c.Plans)
	}
	if c.CategoryID == nil || *c.CategoryID != "" {
		t.Errorf("explicitly blank category must stay distinct from unset")
	}
	if c.EventTypeID != nil {
		t.Errorf("unset event type must stay nil")
	}

	events := f.queue.changeEvents()
	if len(events) != 1 || events[0].Op != queue.OpCreated || events[0].CampaignID != c.ID || !events[0].At.Equal(fixedNow) {
		t.Errorf("unexpected change events %+v", events)
	}
}

func TestCreateCampaignRequiresNameAndBranch(t *testing.T) {
	f := newFixture()
	svc := newCampaignService(f)

	for _, in := range []service.CampaignInput{{BranchID: "kl"}, {Name: "x"}} {
		_, err := svc.CreateCampaign(context.Background(), in, "admin")
		var ve *appErrors.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%+v: expected ValidationError, got %v", in, err)
		}
	}
	if len(f.queue.changeEvents()) != 0 {
		t.Errorf("rejected writes must not publish")
	}
}

func TestUpdateCampaignKeepsPlansAndStatus(t *testing.T) {
	f := newFixture()
	svc := newCampaignService(f)

	c, err := svc.UpdateCampaign(context.Background(), "c1", service.CampaignInput{
		BranchID: "kl", Name: "Raya Promo II", StartDate: "2024-03-01", EndDate: "2024-04-15", ActualRevenue: 15000,
	}, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if c.Status != model.CampaignActive || len(c.Plans) != 1 || c.ActualRevenue != 15000 {
		t.Errorf("unexpected update result %+v", c)
	}

	_, err = svc.UpdateCampaign(context.Background(), "missing", service.CampaignInput{BranchID: "kl", Name: "x"}, "admin")
	if !appErrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestAdvanceStatusCycles(t *testing.T) {
	f := newFixture()
	svc := newCampaignService(f)

	want := []model.CampaignStatus{model.CampaignCompleted, model.CampaignOnHold, model.CampaignCancelled, model.CampaignPlanning, model.CampaignActive}
	for _, w := range want {
		got, err := svc.AdvanceStatus(context.Background(), "c1", "admin")
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Fatalf("expected %s, got %s", w, got)
		}
	}

	if err := svc.SetStatus(context.Background(), "c1", "Archived", "admin"); err == nil {
		t.Errorf("expected unknown status to be rejected")
	}
}

func TestPlanLifecycle(t *testing.T) {
	f := newFixture()
	svc := newCampaignService(f)
	ctx := context.Background()

	p, err := svc.AddPlan(ctx, "c2", service.PlanInput{Title: "Banner", ScheduledDate: "2024-04-12", Budget: 800, Cost: 650}, "staff")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Platform) != 1 || p.Platform[0] != model.DefaultPlatform || p.Status != model.PlanDraft {
		t.Errorf("unexpected plan defaults %+v", p)
	}

	scheduled := model.PlanScheduled
	updated, err := svc.UpdatePlan(ctx, "c2", p.ID, service.PlanInput{Title: "Banner v2", Platform: []string{"Instagram"}, Status: &scheduled}, "staff")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Banner v2" || updated.Status != model.PlanScheduled || updated.Platform[0] != "Instagram" {
		t.Errorf("unexpected update %+v", updated)
	}

	next, err := svc.AdvancePlanStatus(ctx, "c2", p.ID, "staff")
	if err != nil || next != model.PlanPublished {
		t.Errorf("expected Published, got %s %v", next, err)
	}

	if _, err := svc.UpdatePlan(ctx, "c2", "nope", service.PlanInput{Title: "x"}, "staff"); !appErrors.IsNotFound(err) {
		t.Errorf("expected plan not found, got %v", err)
	}
	if _, err := svc.AddPlan(ctx, "c2", service.PlanInput{}, "staff"); err == nil {
		t.Errorf("expected missing title to be rejected")
	}

	if err := svc.DeletePlan(ctx, "c2", p.ID, "staff"); err != nil {
		t.Fatal(err)
	}
	c, _ := svc.GetCampaign(ctx, "c2")
	if len(c.Plans) != 0 {
		t.Errorf("expected plan removed, got %+v", c.Plans)
	}

	ops := []queue.Op{}
	for _, ev := range f.queue.changeEvents() {
		ops = append(ops, ev.Op)
	}
	want := []queue.Op{queue.OpPlanAdded, queue.OpPlanUpdated, queue.OpPlanStatus, queue.OpPlanDeleted}
	if len(ops) != len(want) {
		t.Fatalf("expected ops %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Errorf("op %d: expected %s, got %s", i, want[i], ops[i])
		}
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture()
	f.queue.err = errors.New("broker gone")
	svc := newCampaignService(f)

	if err := svc.DeleteCampaign(context.Background(), "c1", "admin"); err != nil {
		t.Fatalf("delete should succeed, got %v", err)
	}
	if _, err := svc.GetCampaign(context.Background(), "c1"); !appErrors.IsNotFound(err) {
		t.Errorf("expected campaign gone, got %v", err)
	}
}

func TestListCampaignsPagination(t *testing.T) {
	f := newFixture()
	svc := newCampaignService(f)

	page, pagination, err := svc.ListCampaigns(context.Background(), analytics.CampaignQuery{}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].ID != "c2" {
		t.Errorf("expected c2 on page 2, got %+v", page)
	}
	if pagination["total_count"] != 2 || pagination["total_pages"] != 2 || pagination["page"] != 2 {
		t.Errorf("unexpected pagination %v", pagination)
	}

	year, month := 2024, 3
	page, pagination, _ = svc.ListCampaigns(context.Background(), analytics.CampaignQuery{Year: &year, Month: &month}, 0, 500)
	if len(page) != 1 || page[0].ID != "c2" || pagination["page_size"] != 100 {
		t.Errorf("unexpected April listing %+v %v", page, pagination)
	}
}

func TestHistoryFromAuditRepo(t *testing.T) {
	f := newFixture()
	svc := newCampaignService(f)
	_ = svc.AuditRepo.Append(context.Background(), &model.AuditEntry{CampaignID: "c1", Op: "created", OccurredAt: fixedNow})

	entries, err := svc.History(context.Background(), "c1")
	if err != nil || len(entries) != 1 {
		t.Errorf("expected one entry, got %v %v", entries, err)
	}

	svc.AuditRepo = nil
	entries, _ = svc.History(context.Background(), "c1")
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty history without audit repo")
	}
}

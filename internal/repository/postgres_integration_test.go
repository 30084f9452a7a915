//go:build testutil

package repository_test

import (
    "context"
    "errors"
    "testing"

    appErrors "github.com/unclebandit/ggph-smms/internal/errors"
    "github.com/unclebandit/ggph-smms/internal/model"
    "github.com/unclebandit/ggph-smms/internal/repository"
    "github.com/unclebandit/ggph-smms/internal/testutil/testdb"
)

func TestPostgresRepositories(t *testing.T) {
    ctx := context.Background()
    h, err := testdb.Start(ctx)
    if err != nil {
        t.Skipf("postgres container unavailable: %v", err)
    }
    defer h.Close()

    campaigns := &repository.CampaignRepository{DB: h.DB}
    desc := "weekend promo"
    c := &model.Campaign{
        ID: "c1", BranchID: "b1", Name: "Mother's Day Brunch", StartDate: "2024-05-01", EndDate: "not-a-date",
        Status: model.CampaignPlanning, ActualRevenue: 12500, Description: &desc,
        Plans: []model.MarketingPlan{{ID: "p1", Title: "Reel", Platform: []string{"TikTok"}, ScheduledDate: "2024-05-02", Status: model.PlanDraft, Cost: 200}},
    }
    if err := campaigns.Create(ctx, c); err != nil {
        t.Fatal(err)
    }
    got, err := campaigns.GetByID(ctx, "c1")
    if err != nil {
        t.Fatal(err)
    }
    if got.EndDate != "not-a-date" {
        t.Errorf("malformed dates must survive storage, got %q", got.EndDate)
    }
    if len(got.Plans) != 1 || got.Plans[0].Platform[0] != "TikTok" || got.Plans[0].Cost != 200 {
        t.Errorf("plans did not round trip: %+v", got.Plans)
    }
    if got.CategoryID != nil || got.Description == nil || *got.Description != desc {
        t.Errorf("nullable columns mishandled: %+v", got)
    }

    got.Plans = append(got.Plans, model.MarketingPlan{ID: "p2", Title: "Post", Platform: []string{"Offline"}})
    if err := campaigns.Update(ctx, got); err != nil {
        t.Fatal(err)
    }
    if err := campaigns.UpdateStatus(ctx, "c1", model.CampaignActive); err != nil {
        t.Fatal(err)
    }
    list, err := campaigns.ListCampaigns(ctx)
    if err != nil || len(list) != 1 || len(list[0].Plans) != 2 || list[0].Status != model.CampaignActive {
        t.Fatalf("unexpected list %+v %v", list, err)
    }
    // A row whose plans are valid JSON but not a plan list drops out of the
    // list on its own; GetByID still reports it.
    if _, err := h.DB.ExecContext(ctx, `INSERT INTO campaigns (id, branch_id, name, start_date, end_date, status, plans, created_at)
        VALUES ('bad', 'b1', 'Broken', '2024-05-01', '2024-05-31', 'Planning', '{"title":"not a list"}'::jsonb, NOW())`); err != nil {
        t.Fatal(err)
    }
    list, err = campaigns.ListCampaigns(ctx)
    if err != nil || len(list) != 1 || list[0].ID != "c1" {
        t.Errorf("expected the unreadable row to be skipped, got %+v %v", list, err)
    }
    if _, err := campaigns.GetByID(ctx, "bad"); err == nil {
        t.Errorf("expected decode error for the unreadable row")
    }

    var nf *appErrors.ErrCampaignNotFound
    if err := campaigns.Delete(ctx, "missing"); !errors.As(err, &nf) {
        t.Errorf("expected campaign not found, got %v", err)
    }

    users := &repository.UserRepository{DB: h.DB}
    if err := users.Create(ctx, &model.User{ID: "u1", Username: "admin", Name: "Admin", Role: model.RoleAdmin, PasswordHash: "x"}); err != nil {
        t.Fatal(err)
    }
    var conflict *appErrors.ErrConflict
    if err := users.Create(ctx, &model.User{ID: "u2", Username: "admin", Name: "Dup", Role: model.RoleStaff, PasswordHash: "x"}); !errors.As(err, &conflict) {
        t.Errorf("expected conflict on duplicate username, got %v", err)
    }

    categories := &repository.CategoryRepository{DB: h.DB}
    _ = categories.Create(ctx, &model.Category{ID: "k2", Name: "Seasonal"})
    _ = categories.Create(ctx, &model.Category{ID: "k1", Name: "Festive"})
    cats, err := categories.List(ctx)
    if err != nil || len(cats) != 2 || cats[0].Name != "Festive" {
        t.Errorf("expected categories sorted by name, got %+v %v", cats, err)
    }

    audit := &repository.AuditRepository{DB: h.DB}
    entry := &model.AuditEntry{CampaignID: "c1", Op: "status", Status: "Active"}
    if err := audit.Append(ctx, entry); err != nil || entry.ID == 0 {
        t.Fatalf("append failed: %v", err)
    }
    history, err := audit.ListByCampaign(ctx, "c1")
    if err != nil || len(history) != 1 || history[0].PlanID != "" || history[0].Status != "Active" {
        t.Errorf("unexpected history %+v %v", history, err)
    }
}

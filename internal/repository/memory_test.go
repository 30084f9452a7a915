package repository_test

import (
    "context"
    "errors"
    "testing"

    appErrors "github.com/unclebandit/ggph-smms/internal/errors"
    "github.com/unclebandit/ggph-smms/internal/model"
    "github.com/unclebandit/ggph-smms/internal/repository"
)

func TestMemoryCampaignsAreCopied(t *testing.T) {
    ctx := context.Background()
    repo := repository.NewMemoryCampaignRepository()
    c := model.Campaign{ID: "c1", Name: "Ramadan Buffet", Plans: []model.MarketingPlan{{ID: "p1", Platform: []string{"TikTok"}}}}
    if err := repo.Create(ctx, &c); err != nil {
        t.Fatal(err)
    }
    c.Plans[0].Platform[0] = "mutated"

    got, err := repo.GetByID(ctx, "c1")
    if err != nil {
        t.Fatal(err)
    }
    if got.Plans[0].Platform[0] != "TikTok" {
        t.Errorf("stored campaign aliased the caller's slice")
    }
    got.Plans = nil
    again, _ := repo.GetByID(ctx, "c1")
    if len(again.Plans) != 1 {
        t.Errorf("returned campaign aliased the stored one")
    }
}

func TestMemoryCampaignLifecycle(t *testing.T) {
    ctx := context.Background()
    repo := repository.NewMemoryCampaignRepository(
        model.Campaign{ID: "a", Name: "A"},
        model.Campaign{ID: "b", Name: "B"},
        model.Campaign{ID: "c", Name: "C"},
    )

    if err := repo.UpdateStatus(ctx, "b", model.CampaignActive); err != nil {
        t.Fatal(err)
    }
    if err := repo.Delete(ctx, "a"); err != nil {
        t.Fatal(err)
    }
    list, _ := repo.ListCampaigns(ctx)
    if len(list) != 2 || list[0].ID != "b" || list[1].ID != "c" {
        t.Fatalf("expected insertion order [b c], got %+v", list)
    }
    if list[0].Status != model.CampaignActive {
        t.Errorf("status not updated")
    }

    var nf *appErrors.ErrCampaignNotFound
    if err := repo.Update(ctx, &model.Campaign{ID: "zzz"}); !errors.As(err, &nf) {
        t.Errorf("expected campaign not found, got %v", err)
    }
    if err := repo.Delete(ctx, "a"); !appErrors.IsNotFound(err) {
        t.Errorf("expected not found on second delete, got %v", err)
    }
}

func TestMemoryUsersRejectDuplicateUsername(t *testing.T) {
    ctx := context.Background()
    repo := repository.NewMemoryUserRepository(model.User{ID: "u1", Username: "admin"})

    var conflict *appErrors.ErrConflict
    if err := repo.Create(ctx, &model.User{ID: "u2", Username: "admin"}); !errors.As(err, &conflict) {
        t.Errorf("expected conflict, got %v", err)
    }
    if err := repo.Create(ctx, &model.User{ID: "u2", Username: "staff"}); err != nil {
        t.Fatal(err)
    }
    if err := repo.Update(ctx, &model.User{ID: "u2", Username: "admin"}); !errors.As(err, &conflict) {
        t.Errorf("rename onto a taken username should conflict, got %v", err)
    }
    if err := repo.Update(ctx, &model.User{ID: "u1", Username: "admin", Name: "Root"}); err != nil {
        t.Errorf("keeping your own username is fine: %v", err)
    }
    u, err := repo.GetByUsername(ctx, "staff")
    if err != nil || u.ID != "u2" {
        t.Errorf("lookup by username failed: %+v %v", u, err)
    }
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    repo := repository.NewMemoryBranchRepository(model.Branch{ID: "b1"})
    if _, err := repo.List(ctx); !errors.Is(err, context.Canceled) {
        t.Errorf("expected context.Canceled, got %v", err)
    }
}

func TestMemoryAudit(t *testing.T) {
    ctx := context.Background()
    repo := repository.NewMemoryAuditRepository()
    _ = repo.Append(ctx, &model.AuditEntry{CampaignID: "c1", Op: "created"})
    _ = repo.Append(ctx, &model.AuditEntry{CampaignID: "c2", Op: "created"})
    e := &model.AuditEntry{CampaignID: "c1", Op: "status", Status: "Active"}
    _ = repo.Append(ctx, e)

    if e.ID != 3 || e.OccurredAt.IsZero() {
        t.Errorf("expected id and timestamp to be filled, got %+v", e)
    }
    got, _ := repo.ListByCampaign(ctx, "c1")
    if len(got) != 2 || got[1].Op != "status" {
        t.Errorf("unexpected history %+v", got)
    }
}

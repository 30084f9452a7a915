package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/service"
)

type failingAuditRepo struct{}

func (failingAuditRepo) Append(ctx context.Context, e *model.AuditEntry) error {
	return errors.New("disk full")
}

func (failingAuditRepo) ListByCampaign(ctx context.Context, id string) ([]model.AuditEntry, error) {
	return nil, nil
}

func TestAuditRecorderAppendsEvents(t *testing.T) {
	repo := repository.NewMemoryAuditRepository()
	w := service.NewAuditRecorder(repo, zap.NewNop())

	body, _ := json.Marshal(queue.ChangeEvent{CampaignID: "c1", PlanID: "p1", Op: queue.OpPlanStatus, Status: "Published", Actor: "aina", At: fixedNow})
	if err := w.Handle(body); err != nil {
		t.Fatal(err)
	}
	if err := w.Handle(queue.ChangeEvent{CampaignID: "c1", Op: queue.OpUpdated, At: fixedNow.Add(1)}); err != nil {
		t.Fatal(err)
	}

	entries, _ := repo.ListByCampaign(context.Background(), "c1")
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].PlanID != "p1" || entries[0].Status != "Published" || entries[0].Actor != "aina" || !entries[0].OccurredAt.Equal(fixedNow) {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestAuditRecorderErrors(t *testing.T) {
	w := service.NewAuditRecorder(repository.NewMemoryAuditRepository(), zap.NewNop())
	if err := w.Handle([]byte("{")); !errors.Is(err, queue.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	w = service.NewAuditRecorder(failingAuditRepo{}, zap.NewNop())
	err := w.Handle(queue.ChangeEvent{CampaignID: "c1", Op: queue.OpCreated})
	if err == nil || errors.Is(err, queue.ErrMalformed) {
		t.Errorf("expected a retryable store error, got %v", err)
	}
}

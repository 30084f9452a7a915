package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/repository"
	"github.com/unclebandit/ggph-smms/internal/service"
)

// --- Mock Repositories ---

// countingCampaignRepo wraps a memory repo and counts list calls. A non-nil
// listErr fails every list.
type countingCampaignRepo struct {
	*repository.MemoryCampaignRepository
	mu      sync.Mutex
	lists   int
	listErr error
}

func (m *countingCampaignRepo) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	m.mu.Lock()
	m.lists++
	err := m.listErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.MemoryCampaignRepository.ListCampaigns(ctx)
}

func (m *countingCampaignRepo) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

// blockingBranchRepo never answers until ctx is done.
type blockingBranchRepo struct {
	*repository.MemoryBranchRepository
}

func (m *blockingBranchRepo) List(ctx context.Context) ([]model.Branch, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type failingBranchRepo struct {
	*repository.MemoryBranchRepository
}

func (m *failingBranchRepo) List(ctx context.Context) ([]model.Branch, error) {
	return nil, errors.New("connection refused")
}

// --- Mock Queue ---

type recordingQueue struct {
	mu        sync.Mutex
	published []any
	topics    []string
	err       error
}

func (q *recordingQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.topics = append(q.topics, topic)
	q.published = append(q.published, payload)
	return q.err
}

func (q *recordingQueue) Subscribe(topic string, handler func(payload any) error) error { return nil }

func (q *recordingQueue) changeEvents() []queue.ChangeEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []queue.ChangeEvent
	for _, p := range q.published {
		if ev, ok := p.(queue.ChangeEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}

// --- Fixtures ---

func strPtr(s string) *string { return &s }

func seedCampaigns() []model.Campaign {
	return []model.Campaign{
		{
			ID: "c1", BranchID: "kl", Name: "Raya Promo", StartDate: "2024-03-01", EndDate: "2024-03-31",
			Status: model.CampaignActive, TargetRevenue: 20000, ActualRevenue: 12500,
			Plans: []model.MarketingPlan{
				{ID: "p1", Title: "FB post", Platform: []string{"Facebook"}, ScheduledDate: "2024-03-05", Status: model.PlanScheduled, Budget: 500, Cost: 300},
			},
		},
		{
			ID: "c2", BranchID: "pg", CategoryID: strPtr("food"), Name: "Penang Fest", StartDate: "2024-04-10", EndDate: "2024-04-20",
			Status: model.CampaignPlanning, Plans: []model.MarketingPlan{},
		},
	}
}

func seedBranches() []model.Branch {
	return []model.Branch{{ID: "kl", Name: "Kuala Lumpur"}, {ID: "pg", Name: "Penang"}}
}

type fixture struct {
	campaigns *countingCampaignRepo
	branches  *repository.MemoryBranchRepository
	loader    *service.SnapshotLoader
	queue     *recordingQueue
	loc       *time.Location
}

func newFixture() *fixture {
	f := &fixture{
		campaigns: &countingCampaignRepo{MemoryCampaignRepository: repository.NewMemoryCampaignRepository(seedCampaigns()...)},
		branches:  repository.NewMemoryBranchRepository(seedBranches()...),
		queue:     &recordingQueue{},
		loc:       time.UTC,
	}
	f.loader = &service.SnapshotLoader{
		Campaigns:  f.campaigns,
		Branches:   f.branches,
		Categories: repository.NewMemoryCategoryRepository(),
		EventTypes: repository.NewMemoryEventTypeRepository(),
		Users:      repository.NewMemoryUserRepository(),
		Timeout:    time.Second,
	}
	return f
}

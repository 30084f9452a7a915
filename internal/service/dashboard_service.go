package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/analytics"
	"github.com/unclebandit/ggph-smms/internal/cache"
	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
	"github.com/unclebandit/ggph-smms/internal/metrics"
	"github.com/unclebandit/ggph-smms/internal/model"
)

// DashboardView is the dashboard plus the branch list for its selector.
type DashboardView struct {
	analytics.Dashboard
	Branches []model.Branch `json:"branches"`
}

type DashboardService struct {
	Loader   *SnapshotLoader
	Cache    *cache.LRUCache[DashboardView] // optional
	Location *time.Location
	Currency string
	Log      *zap.Logger

	// gen counts purges. A load only lands in the cache when no purge
	// happened while it ran.
	mu  sync.Mutex
	gen uint64
}

// Invalidator drops memoized views after a write.
type Invalidator interface {
	Purge()
}

// Dashboard resolves f, loads campaigns and branches together and
// aggregates. An unresolvable filter yields the empty dashboard with
// InvalidRange set. On a failed load the empty dashboard is returned
// alongside the *appErrors.FetchError.
func (s *DashboardService) Dashboard(ctx context.Context, branch string, f analytics.Filter) (DashboardView, error) {
	if branch == "" {
		branch = analytics.AllBranches
	}
	iv, err := analytics.Resolve(f, s.Location)
	if err != nil {
		iv = analytics.Interval{}
	}

	key := ""
	if iv.Valid() && s.Cache != nil {
		key = fmt.Sprintf("%s|%s|%s", branch, iv.Start.Format(time.RFC3339Nano), iv.End.Format(time.RFC3339Nano))
		if v, ok := s.Cache.Get(key); ok {
			metrics.DashboardCache.WithLabelValues("hit").Inc()
			return v, nil
		}
		metrics.DashboardCache.WithLabelValues("miss").Inc()
	}
	gen := s.generation()

	snap, err := s.Loader.Load(ctx, PartCampaigns|PartBranches)
	if err != nil {
		empty := DashboardView{Dashboard: analytics.EmptyDashboard(branch, iv, s.Currency), Branches: []model.Branch{}}
		var fe *appErrors.FetchError
		if errors.As(err, &fe) {
			orNop(s.Log).Warn("dashboard shows empty state", zap.String("source", fe.Source), zap.Error(fe.Err))
		}
		return empty, err
	}

	view := DashboardView{
		Dashboard: analytics.BuildDashboard(snap.Campaigns, branch, iv, s.Currency),
		Branches:  snap.Branches,
	}
	metrics.DashboardBuilds.Inc()
	if key != "" {
		s.store(key, gen, view)
	}
	return view, nil
}

// Purge drops every memoized dashboard and voids loads still in flight.
func (s *DashboardService) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.Cache != nil {
		s.Cache.Purge()
	}
}

func (s *DashboardService) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *DashboardService) store(key string, gen uint64, view DashboardView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		metrics.DashboardCache.WithLabelValues("stale").Inc()
		return
	}
	s.Cache.Set(key, view)
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
	"github.com/unclebandit/ggph-smms/internal/metrics"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/repository"
)

// Part selects which collections a screen needs.
type Part uint8

const (
	PartCampaigns Part = 1 << iota
	PartBranches
	PartCategories
	PartEventTypes
	PartUsers
)

// Snapshot is one screen's independent copy of the data store.
type Snapshot struct {
	Campaigns  []model.Campaign
	Branches   []model.Branch
	Categories []model.Category
	EventTypes []model.EventType
	Users      []model.User
}

// SnapshotLoader fans out one load per requested part and joins them. The
// first failure cancels the rest and the whole snapshot is discarded.
type SnapshotLoader struct {
	Campaigns  repository.CampaignRepositoryInterface
	Branches   repository.BranchRepositoryInterface
	Categories repository.CategoryRepositoryInterface
	EventTypes repository.EventTypeRepositoryInterface
	Users      repository.UserRepositoryInterface
	Timeout    time.Duration
	Log        *zap.Logger
}

// Load returns a *appErrors.FetchError naming the failed source, or the
// caller's context error when the caller went away mid-fetch.
func (l *SnapshotLoader) Load(ctx context.Context, parts Part) (*Snapshot, error) {
	loadCtx := ctx
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	g, gctx := errgroup.WithContext(loadCtx)
	snap := &Snapshot{}
	start := time.Now()

	fetch := func(part Part, source string, fn func(context.Context) error) {
		if parts&part == 0 {
			return
		}
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				return &appErrors.FetchError{Source: source, Err: err}
			}
			return nil
		})
	}

	fetch(PartCampaigns, "campaigns", func(ctx context.Context) (err error) {
		snap.Campaigns, err = l.Campaigns.ListCampaigns(ctx)
		return err
	})
	fetch(PartBranches, "branches", func(ctx context.Context) (err error) {
		snap.Branches, err = l.Branches.List(ctx)
		return err
	})
	fetch(PartCategories, "categories", func(ctx context.Context) (err error) {
		snap.Categories, err = l.Categories.List(ctx)
		return err
	})
	fetch(PartEventTypes, "event types", func(ctx context.Context) (err error) {
		snap.EventTypes, err = l.EventTypes.List(ctx)
		return err
	})
	fetch(PartUsers, "users", func(ctx context.Context) (err error) {
		snap.Users, err = l.Users.List(ctx)
		return err
	})

	err := g.Wait()
	metrics.ObserveFetch(time.Since(start))
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		var fe *appErrors.FetchError
		if errors.As(err, &fe) {
			metrics.FetchErrors.WithLabelValues(fe.Source).Inc()
		}
		orNop(l.Log).Warn("snapshot load failed", zap.Error(err))
		return nil, err
	}
	return snap, nil
}

func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

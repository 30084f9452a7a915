package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/repository"
)

// AuditRecorder turns campaign change events into audit rows.
type AuditRecorder struct {
	AuditRepo repository.AuditRepositoryInterface
	Timeout   time.Duration
	Log       *zap.Logger
}

func NewAuditRecorder(repo repository.AuditRepositoryInterface, log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{
		AuditRepo: repo,
		Timeout:   5 * time.Second,
		Log:       log,
	}
}

// Handle decodes one change event and appends it. Malformed payloads return
// queue.ErrMalformed so consumers can drop them instead of retrying.
func (w *AuditRecorder) Handle(payload any) error {
	ev, err := queue.DecodeChangeEvent(payload)
	if err != nil {
		orNop(w.Log).Warn("dropping malformed change event", zap.Error(err))
		return err
	}

	ctx := context.Background()
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	entry := &model.AuditEntry{
		CampaignID: ev.CampaignID,
		PlanID:     ev.PlanID,
		Op:         string(ev.Op),
		Status:     ev.Status,
		Actor:      ev.Actor,
		OccurredAt: ev.At,
	}
	if err := w.AuditRepo.Append(ctx, entry); err != nil {
		orNop(w.Log).Error("failed to record change event",
			zap.String("campaign", ev.CampaignID),
			zap.String("op", string(ev.Op)),
			zap.Error(err))
		return err
	}
	return nil
}

// Start subscribes the recorder to the in-process change topic.
func (w *AuditRecorder) Start(q queue.Queue) error {
	return q.Subscribe(queue.TopicCampaignChanges, w.Handle)
}

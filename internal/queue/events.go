package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Op string

const (
	OpCreated     Op = "created"
	OpUpdated     Op = "updated"
	OpDeleted     Op = "deleted"
	OpStatus      Op = "status"
	OpPlanAdded   Op = "plan_added"
	OpPlanUpdated Op = "plan_updated"
	OpPlanDeleted Op = "plan_deleted"
	OpPlanStatus  Op = "plan_status"
)

// ChangeEvent announces that a campaign, or one of its plans, was written.
type ChangeEvent struct {
	CampaignID string    `json:"campaignId"`
	PlanID     string    `json:"planId,omitempty"`
	Op         Op        `json:"op"`
	Status     string    `json:"status,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	At         time.Time `json:"at"`
}

// ErrMalformed marks a message that can never be processed.
var ErrMalformed = errors.New("malformed message")

// DecodeChangeEvent accepts a ChangeEvent value or its JSON encoding.
func DecodeChangeEvent(payload any) (ChangeEvent, error) {
	switch p := payload.(type) {
	case ChangeEvent:
		return p, nil
	case *ChangeEvent:
		if p == nil {
			return ChangeEvent{}, ErrMalformed
		}
		return *p, nil
	case []byte:
		var ev ChangeEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return ChangeEvent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if ev.CampaignID == "" || ev.Op == "" {
			return ChangeEvent{}, fmt.Errorf("%w: campaignId and op are required", ErrMalformed)
		}
		return ev, nil
	default:
		return ChangeEvent{}, fmt.Errorf("%w: unexpected payload %T", ErrMalformed, payload)
	}
}

// TopicReferenceChanges carries a ReferenceEvent for every admin write to
// branches, categories, event types or users.
const TopicReferenceChanges = "reference_changes"

type ReferenceEvent struct {
	Entity string    `json:"entity"`
	ID     string    `json:"id"`
	Op     Op        `json:"op"`
	At     time.Time `json:"at"`
}

// StartCachePurger drops memoized results whenever a campaign or a piece of
// reference data changes. It runs after the write has returned, so writers
// that must be read back at once purge directly as well.
func StartCachePurger(q Queue, purge func(), log *zap.Logger) error {
	err := q.Subscribe(TopicCampaignChanges, func(payload any) error {
		ev, err := DecodeChangeEvent(payload)
		if err != nil {
			log.Warn("ignoring change event", zap.Error(err))
			return nil
		}
		purge()
		log.Debug("cache purged", zap.String("campaign", ev.CampaignID), zap.String("op", string(ev.Op)))
		return nil
	})
	if err != nil {
		return err
	}
	return q.Subscribe(TopicReferenceChanges, func(payload any) error {
		purge()
		if ev, ok := payload.(ReferenceEvent); ok {
			log.Debug("cache purged", zap.String("entity", ev.Entity), zap.String("op", string(ev.Op)))
		}
		return nil
	})
}

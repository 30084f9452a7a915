// internal/model/audit.go
package model

import "time"

// AuditEntry is one recorded campaign change.
type AuditEntry struct {
    ID         int64     `db:"id" json:"id"`
    CampaignID string    `db:"campaign_id" json:"campaignId"`
    PlanID     string    `db:"plan_id" json:"planId,omitempty"`
    Op         string    `db:"op" json:"op"`
    Status     string    `db:"status" json:"status,omitempty"`
    Actor      string    `db:"actor" json:"actor,omitempty"`
    OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`
}

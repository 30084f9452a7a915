package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/unclebandit/ggph-smms/internal/model"
)

type AuditRepositoryInterface interface {
    Append(ctx context.Context, e *model.AuditEntry) error
    ListByCampaign(ctx context.Context, campaignID string) ([]model.AuditEntry, error)
}

// AuditRepository records campaign change events written by the worker.
type AuditRepository struct {
    DB *sql.DB
}

// Append inserts the entry and fills in its generated ID.
func (r *AuditRepository) Append(ctx context.Context, e *model.AuditEntry) error {
    if e.OccurredAt.IsZero() {
        e.OccurredAt = time.Now().UTC()
    }
    query := `
        INSERT INTO campaign_audit (campaign_id, plan_id, op, status, actor, occurred_at)
        VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6)
        RETURNING id
    `
    return r.DB.QueryRowContext(ctx, query, e.CampaignID, e.PlanID, e.Op, e.Status, e.Actor, e.OccurredAt).Scan(&e.ID)
}

// ListByCampaign returns a campaign's history, oldest first.
func (r *AuditRepository) ListByCampaign(ctx context.Context, campaignID string) ([]model.AuditEntry, error) {
    query := `
        SELECT id, campaign_id, COALESCE(plan_id, ''), op, COALESCE(status, ''), COALESCE(actor, ''), occurred_at
        FROM campaign_audit
        WHERE campaign_id=$1
        ORDER BY occurred_at, id
    `
    rows, err := r.DB.QueryContext(ctx, query, campaignID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    entries := []model.AuditEntry{}
    for rows.Next() {
        var e model.AuditEntry
        if err := rows.Scan(&e.ID, &e.CampaignID, &e.PlanID, &e.Op, &e.Status, &e.Actor, &e.OccurredAt); err != nil {
            return nil, err
        }
        entries = append(entries, e)
    }
    return entries, rows.Err()
}

var _ AuditRepositoryInterface = (*AuditRepository)(nil)

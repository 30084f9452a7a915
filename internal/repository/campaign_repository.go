package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"

    "go.uber.org/zap"

    appErrors "github.com/unclebandit/ggph-smms/internal/errors"
    "github.com/unclebandit/ggph-smms/internal/model"
)

type CampaignRepositoryInterface interface {
    ListCampaigns(ctx context.Context) ([]model.Campaign, error)
    GetByID(ctx context.Context, id string) (*model.Campaign, error)
    Create(ctx context.Context, c *model.Campaign) error
    // Update replaces every field, plans included.
    Update(ctx context.Context, c *model.Campaign) error
    UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error
    Delete(ctx context.Context, id string) error
}

// CampaignRepository stores campaigns with their plans embedded as JSONB.
type CampaignRepository struct {
    DB  *sql.DB
    Log *zap.Logger // optional
}

const campaignColumns = `id, branch_id, category_id, event_type_id, name, start_date, end_date, status,
        target_revenue, actual_revenue, description, poster, plans`

type rowScanner interface {
    Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (model.Campaign, error) {
    var (
        c     model.Campaign
        plans []byte
    )
    err := row.Scan(&c.ID, &c.BranchID, &c.CategoryID, &c.EventTypeID, &c.Name, &c.StartDate, &c.EndDate, &c.Status,
        &c.TargetRevenue, &c.ActualRevenue, &c.Description, &c.Poster, &plans)
    if err != nil {
        return c, err
    }
    c.Plans = []model.MarketingPlan{}
    if len(plans) > 0 {
        if err := json.Unmarshal(plans, &c.Plans); err != nil {
            return c, &planDecodeError{CampaignID: c.ID, Err: err}
        }
    }
    return c, nil
}

// planDecodeError marks a row whose plans column does not hold a plan list.
type planDecodeError struct {
    CampaignID string
    Err        error
}

func (e *planDecodeError) Error() string {
    return fmt.Sprintf("decode plans of campaign %s: %v", e.CampaignID, e.Err)
}

func (e *planDecodeError) Unwrap() error { return e.Err }

func encodePlans(plans []model.MarketingPlan) ([]byte, error) {
    if plans == nil {
        plans = []model.MarketingPlan{}
    }
    return json.Marshal(plans)
}

// ListCampaigns returns every campaign in creation order. A row whose plans
// cannot be decoded is logged and left out.
func (r *CampaignRepository) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
    rows, err := r.DB.QueryContext(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at, id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    campaigns := []model.Campaign{}
    for rows.Next() {
        c, err := scanCampaign(rows)
        var bad *planDecodeError
        if errors.As(err, &bad) {
            if r.Log != nil {
                r.Log.Warn("skipping campaign with unreadable plans", zap.String("campaign", bad.CampaignID), zap.Error(bad.Err))
            }
            continue
        }
        if err != nil {
            return nil, err
        }
        campaigns = append(campaigns, c)
    }
    return campaigns, rows.Err()
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
    row := r.DB.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id=$1`, id)
    c, err := scanCampaign(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, appErrors.NewCampaignNotFound(id)
        }
        return nil, err
    }
    return &c, nil
}

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
    plans, err := encodePlans(c.Plans)
    if err != nil {
        return err
    }
    query := `
        INSERT INTO campaigns (id, branch_id, category_id, event_type_id, name, start_date, end_date, status,
            target_revenue, actual_revenue, description, poster, plans, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
    `
    _, err = r.DB.ExecContext(ctx, query, c.ID, c.BranchID, c.CategoryID, c.EventTypeID, c.Name, c.StartDate, c.EndDate,
        c.Status, c.TargetRevenue, c.ActualRevenue, c.Description, c.Poster, plans)
    return err
}

func (r *CampaignRepository) Update(ctx context.Context, c *model.Campaign) error {
    plans, err := encodePlans(c.Plans)
    if err != nil {
        return err
    }
    query := `
        UPDATE campaigns
        SET branch_id=$1, category_id=$2, event_type_id=$3, name=$4, start_date=$5, end_date=$6, status=$7,
            target_revenue=$8, actual_revenue=$9, description=$10, poster=$11, plans=$12, updated_at=NOW()
        WHERE id=$13
    `
    res, err := r.DB.ExecContext(ctx, query, c.BranchID, c.CategoryID, c.EventTypeID, c.Name, c.StartDate, c.EndDate,
        c.Status, c.TargetRevenue, c.ActualRevenue, c.Description, c.Poster, plans, c.ID)
    if err != nil {
        return err
    }
    return expectRow(res, appErrors.NewCampaignNotFound(c.ID))
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error {
    res, err := r.DB.ExecContext(ctx, `UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
    if err != nil {
        return err
    }
    return expectRow(res, appErrors.NewCampaignNotFound(id))
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
    res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id=$1`, id)
    if err != nil {
        return err
    }
    return expectRow(res, appErrors.NewCampaignNotFound(id))
}

// expectRow returns notFound when the statement touched no row.
func expectRow(res sql.Result, notFound error) error {
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return notFound
    }
    return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)

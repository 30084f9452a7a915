// internal/service/campaign_service.go
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/analytics"
	appErrors "github.com/unclebandit/ggph-smms/internal/errors"
	"github.com/unclebandit/ggph-smms/internal/ids"
	"github.com/unclebandit/ggph-smms/internal/metrics"
	"github.com/unclebandit/ggph-smms/internal/model"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	AuditRepo    repository.AuditRepositoryInterface // optional
	Queue        queue.Queue                         // optional
	Dashboards   Invalidator                         // optional
	Location     *time.Location
	Log          *zap.Logger
	Now          func() time.Time
}

// CampaignInput is the editable part of a campaign.
type CampaignInput struct {
	BranchID      string                `json:"branchId"`
	CategoryID    *string               `json:"categoryId"`
	EventTypeID   *string               `json:"eventTypeId"`
	Name          string                `json:"name"`
	StartDate     string                `json:"startDate"`
	EndDate       string                `json:"endDate"`
	Status        *model.CampaignStatus `json:"status"`
	TargetRevenue float64               `json:"targetRevenue"`
	ActualRevenue float64               `json:"actualRevenue"`
	Description   *string               `json:"description"`
	Poster        *string               `json:"poster"`
}

func (in CampaignInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return appErrors.Required("name")
	}
	if strings.TrimSpace(in.BranchID) == "" {
		return appErrors.Required("branchId")
	}
	if in.Status != nil && !in.Status.Valid() {
		return &appErrors.ValidationError{Field: "status", Reason: "unknown status " + string(*in.Status)}
	}
	return nil
}

func (in CampaignInput) apply(c *model.Campaign) {
	c.BranchID = in.BranchID
	c.CategoryID = in.CategoryID
	c.EventTypeID = in.EventTypeID
	c.Name = strings.TrimSpace(in.Name)
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.TargetRevenue = in.TargetRevenue
	c.ActualRevenue = in.ActualRevenue
	c.Description = in.Description
	c.Poster = in.Poster
}

// PlanInput is the editable part of a marketing plan.
type PlanInput struct {
	Title         string            `json:"title"`
	Description   *string           `json:"description"`
	Platform      []string          `json:"platform"`
	ScheduledDate string            `json:"scheduledDate"`
	Status        *model.PlanStatus `json:"status"`
	Budget        float64           `json:"budget"`
	Cost          float64           `json:"cost"`
}

func (in PlanInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return appErrors.Required("title")
	}
	if in.Status != nil && !in.Status.Valid() {
		return &appErrors.ValidationError{Field: "status", Reason: "unknown status " + string(*in.Status)}
	}
	return nil
}

func (in PlanInput) apply(p *model.MarketingPlan) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.Platform = append([]string(nil), in.Platform...)
	if len(p.Platform) == 0 {
		p.Platform = []string{model.DefaultPlatform}
	}
	p.ScheduledDate = in.ScheduledDate
	if in.Status != nil {
		p.Status = *in.Status
	} else if p.Status == "" {
		p.Status = model.PlanDraft
	}
	p.Budget = in.Budget
	p.Cost = in.Cost
}

// ListCampaigns applies the list filter, then paginates in storage order.
func (s *CampaignService) ListCampaigns(ctx context.Context, q analytics.CampaignQuery, page, pageSize int) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	all, err := s.CampaignRepo.ListCampaigns(ctx)
	if err != nil {
		return nil, nil, &appErrors.FetchError{Source: "campaigns", Err: err}
	}
	matched := analytics.QueryCampaigns(all, q, s.Location)

	total := len(matched)
	offset := (page - 1) * pageSize
	end := offset + pageSize
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": (total + pageSize - 1) / pageSize,
	}
	return matched[offset:end], pagination, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	return s.CampaignRepo.GetByID(ctx, id)
}

// CreateCampaign starts every campaign in Planning with no plans.
func (s *CampaignService) CreateCampaign(ctx context.Context, in CampaignInput, actor string) (*model.Campaign, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &model.Campaign{ID: ids.New(), Status: model.CampaignPlanning, Plans: []model.MarketingPlan{}}
	in.apply(c)
	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.publish(queue.ChangeEvent{CampaignID: c.ID, Op: queue.OpCreated, Status: string(c.Status), Actor: actor})
	return c, nil
}

// UpdateCampaign overwrites the editable fields and keeps the plans. Status
// only changes when the input names one.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id string, in CampaignInput, actor string) (*model.Campaign, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.CampaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if in.Status != nil {
		c.Status = *in.Status
	}
	if err := s.CampaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.publish(queue.ChangeEvent{CampaignID: c.ID, Op: queue.OpUpdated, Status: string(c.Status), Actor: actor})
	return c, nil
}

func (s *CampaignService) DeleteCampaign(ctx context.Context, id, actor string) error {
	if err := s.CampaignRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(queue.ChangeEvent{CampaignID: id, Op: queue.OpDeleted, Actor: actor})
	return nil
}

func (s *CampaignService) SetStatus(ctx context.Context, id string, status model.CampaignStatus, actor string) error {
	if !status.Valid() {
		return &appErrors.ValidationError{Field: "status", Reason: "unknown status " + string(status)}
	}
	if err := s.CampaignRepo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.publish(queue.ChangeEvent{CampaignID: id, Op: queue.OpStatus, Status: string(status), Actor: actor})
	return nil
}

// AdvanceStatus moves the campaign to the next status in the toggle order.
func (s *CampaignService) AdvanceStatus(ctx context.Context, id, actor string) (model.CampaignStatus, error) {
	c, err := s.CampaignRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	next := c.Status.Next()
	if err := s.SetStatus(ctx, id, next, actor); err != nil {
		return "", err
	}
	return next, nil
}

// Plan mutations are read-modify-write of the parent campaign: fetch it,
// edit its plan list, persist it whole. Concurrent edits race and the last
// write wins.
func (s *CampaignService) mutatePlans(ctx context.Context, campaignID string, edit func(c *model.Campaign) error) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Plans == nil {
		c.Plans = []model.MarketingPlan{}
	}
	if err := edit(c); err != nil {
		return nil, err
	}
	if err := s.CampaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CampaignService) AddPlan(ctx context.Context, campaignID string, in PlanInput, actor string) (*model.MarketingPlan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := model.MarketingPlan{ID: ids.New()}
	in.apply(&p)
	_, err := s.mutatePlans(ctx, campaignID, func(c *model.Campaign) error {
		c.Plans = append(c.Plans, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(queue.ChangeEvent{CampaignID: campaignID, PlanID: p.ID, Op: queue.OpPlanAdded, Status: string(p.Status), Actor: actor})
	return &p, nil
}

func (s *CampaignService) UpdatePlan(ctx context.Context, campaignID, planID string, in PlanInput, actor string) (*model.MarketingPlan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var updated model.MarketingPlan
	_, err := s.mutatePlans(ctx, campaignID, func(c *model.Campaign) error {
		i := c.PlanIndex(planID)
		if i < 0 {
			return appErrors.NewPlanNotFound(campaignID, planID)
		}
		in.apply(&c.Plans[i])
		updated = c.Plans[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(queue.ChangeEvent{CampaignID: campaignID, PlanID: planID, Op: queue.OpPlanUpdated, Status: string(updated.Status), Actor: actor})
	return &updated, nil
}

func (s *CampaignService) DeletePlan(ctx context.Context, campaignID, planID, actor string) error {
	_, err := s.mutatePlans(ctx, campaignID, func(c *model.Campaign) error {
		i := c.PlanIndex(planID)
		if i < 0 {
			return appErrors.NewPlanNotFound(campaignID, planID)
		}
		c.Plans = append(c.Plans[:i], c.Plans[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(queue.ChangeEvent{CampaignID: campaignID, PlanID: planID, Op: queue.OpPlanDeleted, Actor: actor})
	return nil
}

// AdvancePlanStatus cycles Draft, Scheduled, Published, Cancelled.
func (s *CampaignService) AdvancePlanStatus(ctx context.Context, campaignID, planID, actor string) (model.PlanStatus, error) {
	var next model.PlanStatus
	_, err := s.mutatePlans(ctx, campaignID, func(c *model.Campaign) error {
		i := c.PlanIndex(planID)
		if i < 0 {
			return appErrors.NewPlanNotFound(campaignID, planID)
		}
		next = c.Plans[i].Status.Next()
		c.Plans[i].Status = next
		return nil
	})
	if err != nil {
		return "", err
	}
	s.publish(queue.ChangeEvent{CampaignID: campaignID, PlanID: planID, Op: queue.OpPlanStatus, Status: string(next), Actor: actor})
	return next, nil
}

// History returns the recorded changes of a campaign, oldest first.
func (s *CampaignService) History(ctx context.Context, campaignID string) ([]model.AuditEntry, error) {
	if s.AuditRepo == nil {
		return []model.AuditEntry{}, nil
	}
	return s.AuditRepo.ListByCampaign(ctx, campaignID)
}

// publish never fails the write that triggered it. Memoized dashboards are
// dropped before it returns so the next read sees the write.
func (s *CampaignService) publish(ev queue.ChangeEvent) {
	if s.Dashboards != nil {
		s.Dashboards.Purge()
	}
	if s.Queue == nil {
		return
	}
	if s.Now != nil {
		ev.At = s.Now().UTC()
	} else {
		ev.At = time.Now().UTC()
	}
	metrics.ChangeEvents.WithLabelValues(string(ev.Op)).Inc()
	if err := s.Queue.Publish(queue.TopicCampaignChanges, ev); err != nil {
		orNop(s.Log).Warn("failed to publish change event", zap.String("campaign", ev.CampaignID), zap.String("op", string(ev.Op)), zap.Error(err))
	}
}

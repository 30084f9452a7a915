// internal/model/campaign.go
package model

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
    CampaignPlanning  CampaignStatus = "Planning"
    CampaignActive    CampaignStatus = "Active"
    CampaignCompleted CampaignStatus = "Completed"
    CampaignOnHold    CampaignStatus = "On Hold"
    CampaignCancelled CampaignStatus = "Cancelled"
)

var campaignStatusCycle = []CampaignStatus{
    CampaignPlanning,
    CampaignActive,
    CampaignCompleted,
    CampaignOnHold,
    CampaignCancelled,
}

// Valid reports whether s is one of the known campaign statuses.
func (s CampaignStatus) Valid() bool {
    for _, v := range campaignStatusCycle {
        if v == s {
            return true
        }
    }
    return false
}

// Next returns the status that follows s in the toggle order.
// Unknown statuses restart the cycle at Planning.
func (s CampaignStatus) Next() CampaignStatus {
    for i, v := range campaignStatusCycle {
        if v == s {
            return campaignStatusCycle[(i+1)%len(campaignStatusCycle)]
        }
    }
    return campaignStatusCycle[0]
}

// PlanStatus is the publishing state of a marketing plan.
type PlanStatus string

const (
    PlanDraft     PlanStatus = "Draft"
    PlanScheduled PlanStatus = "Scheduled"
    PlanPublished PlanStatus = "Published"
    PlanCancelled PlanStatus = "Cancelled"
)

var planStatusCycle = []PlanStatus{PlanDraft, PlanScheduled, PlanPublished, PlanCancelled}

func (s PlanStatus) Valid() bool {
    for _, v := range planStatusCycle {
        if v == s {
            return true
        }
    }
    return false
}

func (s PlanStatus) Next() PlanStatus {
    for i, v := range planStatusCycle {
        if v == s {
            return planStatusCycle[(i+1)%len(planStatusCycle)]
        }
    }
    return planStatusCycle[0]
}

// DefaultPlatform is assigned to plans saved without any platform.
const DefaultPlatform = "Offline"

// MarketingPlan is a single scheduled activity owned by a campaign.
type MarketingPlan struct {
    ID            string     `json:"id"`
    Title         string     `json:"title"`
    Description   *string    `json:"description,omitempty"`
    Platform      []string   `json:"platform"`
    ScheduledDate string     `json:"scheduledDate"`
    Status        PlanStatus `json:"status"`
    Budget        float64    `json:"budget"`
    Cost          float64    `json:"cost"`
}

// Campaign is a time-bounded initiative for one branch. Dates are kept as the
// ISO strings they were stored with so malformed values are never lost.
type Campaign struct {
    ID            string          `json:"id"`
    BranchID      string          `json:"branchId"`
    CategoryID    *string         `json:"categoryId,omitempty"`
    EventTypeID   *string         `json:"eventTypeId,omitempty"`
    Name          string          `json:"name"`
    StartDate     string          `json:"startDate"`
    EndDate       string          `json:"endDate"`
    Status        CampaignStatus  `json:"status"`
    TargetRevenue float64         `json:"targetRevenue"`
    ActualRevenue float64         `json:"actualRevenue"`
    Description   *string         `json:"description,omitempty"`
    Poster        *string         `json:"poster,omitempty"`
    Plans         []MarketingPlan `json:"plans"`
}

// PlanIndex returns the position of the plan with the given id, or -1.
func (c *Campaign) PlanIndex(planID string) int {
    for i := range c.Plans {
        if c.Plans[i].ID == planID {
            return i
        }
    }
    return -1
}

// Clone returns a deep copy so callers can edit plans without aliasing the source.
func (c Campaign) Clone() Campaign {
    out := c
    out.CategoryID = cloneStr(c.CategoryID)
    out.EventTypeID = cloneStr(c.EventTypeID)
    out.Description = cloneStr(c.Description)
    out.Poster = cloneStr(c.Poster)
    if c.Plans != nil {
        out.Plans = make([]MarketingPlan, len(c.Plans))
        for i, p := range c.Plans {
            out.Plans[i] = p.Clone()
        }
    }
    return out
}

func (p MarketingPlan) Clone() MarketingPlan {
    out := p
    out.Description = cloneStr(p.Description)
    if p.Platform != nil {
        out.Platform = append([]string(nil), p.Platform...)
    }
    return out
}

func cloneStr(s *string) *string {
    if s == nil {
        return nil
    }
    v := *s
    return &v
}

package analytics

import (
	"time"

	"github.com/unclebandit/ggph-smms/internal/model"
)

// AllBranches is the branch selector that disables branch filtering.
const AllBranches = "all"

// MatchesBranch is true when branch is empty or "all", or equals the campaign's branch.
func MatchesBranch(c model.Campaign, branch string) bool {
	return branch == "" || branch == AllBranches || c.BranchID == branch
}

// campaignSpan parses the campaign's own dates. ok is false when either is
// missing or unparseable, or when the end precedes the start.
func campaignSpan(c model.Campaign, loc *time.Location) (start, end time.Time, ok bool) {
	s, err := ParseDate(c.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	e, err := ParseDate(c.EndDate, loc)
	if err != nil || e.Before(s) {
		return time.Time{}, time.Time{}, false
	}
	return s, e, true
}

// Overlaps reports whether the campaign's [startDate, endDate] intersects iv.
// Campaigns with missing or unparseable dates never match.
func Overlaps(c model.Campaign, iv Interval) bool {
	if !iv.Valid() {
		return false
	}
	start, end, ok := campaignSpan(c, iv.location())
	if !ok {
		return false
	}
	return !start.After(iv.End) && !end.Before(iv.Start)
}

// FilterByBranch keeps campaigns for branch ("all" keeps everything).
func FilterByBranch(campaigns []model.Campaign, branch string) []model.Campaign {
	out := make([]model.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if MatchesBranch(c, branch) {
			out = append(out, c)
		}
	}
	return out
}

// FilterCampaigns applies the branch predicate and the overlap predicate.
func FilterCampaigns(campaigns []model.Campaign, branch string, iv Interval) []model.Campaign {
	out := make([]model.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if MatchesBranch(c, branch) && Overlaps(c, iv) {
			out = append(out, c)
		}
	}
	return out
}

// CampaignQuery is the filter bar of the campaigns list. Nil or "all" fields
// do not restrict.
type CampaignQuery struct {
	BranchID   string
	CategoryID string
	Year       *int
	Month      *int // 0-11, only used with Year
}

// Match applies the query to a single campaign. With a year selected the
// campaign must have valid dates overlapping that year, or that month when
// one is given. Without a year the dates are not inspected.
func (q CampaignQuery) Match(c model.Campaign, loc *time.Location) bool {
	if !MatchesBranch(c, q.BranchID) {
		return false
	}
	if q.CategoryID != "" && q.CategoryID != AllBranches {
		if c.CategoryID == nil || *c.CategoryID != q.CategoryID {
			return false
		}
	}
	if q.Year == nil {
		return true
	}
	iv := YearInterval(*q.Year, loc)
	if q.Month != nil {
		if *q.Month < 0 || *q.Month > 11 {
			return false
		}
		iv = MonthInterval(*q.Year, *q.Month, loc)
	}
	return Overlaps(c, iv)
}

// QueryCampaigns returns the campaigns matching q in input order.
func QueryCampaigns(campaigns []model.Campaign, q CampaignQuery, loc *time.Location) []model.Campaign {
	out := make([]model.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if q.Match(c, loc) {
			out = append(out, c)
		}
	}
	return out
}

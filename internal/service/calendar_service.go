package service

import (
	"context"
	"time"

	"github.com/unclebandit/ggph-smms/internal/analytics"
	"github.com/unclebandit/ggph-smms/internal/model"
)

type CalendarService struct {
	Loader   *SnapshotLoader
	Location *time.Location
}

type YearView struct {
	Year     int                   `json:"year"`
	Branch   string                `json:"branch"`
	Events   []analytics.YearEvent `json:"events"`
	Branches []model.Branch        `json:"branches"`
}

type MonthView struct {
	Year     int                 `json:"year"`
	Month    int                 `json:"month"`
	Branch   string              `json:"branch"`
	Days     []analytics.DayCell `json:"days"`
	Branches []model.Branch      `json:"branches"`
}

func (s *CalendarService) load(ctx context.Context, q analytics.CampaignQuery) ([]model.Campaign, []model.Branch, error) {
	snap, err := s.Loader.Load(ctx, PartCampaigns|PartBranches)
	if err != nil {
		return nil, nil, err
	}
	q.Year, q.Month = nil, nil
	return analytics.QueryCampaigns(snap.Campaigns, q, s.Location), snap.Branches, nil
}

// Year lists the campaigns and plans of year for the branch and category in q.
func (s *CalendarService) Year(ctx context.Context, year int, q analytics.CampaignQuery) (YearView, error) {
	v := YearView{Year: year, Branch: branchOrAll(q.BranchID), Events: []analytics.YearEvent{}, Branches: []model.Branch{}}
	campaigns, branches, err := s.load(ctx, q)
	if err != nil {
		return v, err
	}
	v.Events = analytics.YearEvents(campaigns, year, s.Location)
	v.Branches = branches
	return v, nil
}

// Month builds the day grid of month (0-11).
func (s *CalendarService) Month(ctx context.Context, year, month int, q analytics.CampaignQuery) (MonthView, error) {
	v := MonthView{Year: year, Month: month, Branch: branchOrAll(q.BranchID), Days: []analytics.DayCell{}, Branches: []model.Branch{}}
	campaigns, branches, err := s.load(ctx, q)
	if err != nil {
		return v, err
	}
	v.Days = analytics.MonthGrid(campaigns, year, month, s.Location)
	v.Branches = branches
	return v, nil
}

func branchOrAll(b string) string {
	if b == "" {
		return analytics.AllBranches
	}
	return b
}

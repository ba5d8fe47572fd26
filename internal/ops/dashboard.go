package ops

import (
	"database/sql"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/insights"
)

// DashboardOutput contains the result of the Dashboard operation.
type DashboardOutput struct {
	Summary    string       `json:"summary"`
	TodayCount int          `json:"today_count"`
	Buckets    []BucketView `json:"buckets"`
}

// Dashboard assembles the overview: the summary line over recent items,
// today's capture count, and the bucket registry with counts.
func Dashboard(database *sql.DB) (*DashboardOutput, error) {
	recent, _, err := db.ListItems(database, db.ItemFilter{}, DashboardScanLimit, 0)
	if err != nil {
		return nil, err
	}

	today, err := TodayCount(database)
	if err != nil {
		return nil, err
	}

	buckets, err := ListBuckets(database)
	if err != nil {
		return nil, err
	}

	return &DashboardOutput{
		Summary:    insights.DashboardSummary(recent),
		TodayCount: today,
		Buckets:    buckets.Buckets,
	}, nil
}

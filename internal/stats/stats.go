// Package stats computes read-only rollups for the operations dashboard.
package stats

import (
	"math"
	"time"

	"github.com/rescueops/foodledger/internal/domain"
)

const dayLayout = "2006-01-02"

// seriesDays is the length of the rescued-quantity series.
const seriesDays = 7

// Dashboard is the aggregate view of recent intake.
type Dashboard struct {
	FoodRescuedPerDay int       `json:"foodRescuedLbsPerDay"`
	TotalEntries      int       `json:"totalEntries"`
	RecentCount       int       `json:"recentCount"`
	RescuedSeries     []float64 `json:"rescuedSeries"`
}

// Compute aggregates entries created in the last seven days (by calendar
// date, UTC). The series buckets quantities per day, oldest first, and the
// per-day rate is the recent total divided by seven, rounded; an empty
// recent window reports zero rather than a rounding artifact.
func Compute(entries []*domain.Entry, now time.Time) Dashboard {
	windowStart := now.UTC().AddDate(0, 0, -seriesDays)
	startDay := windowStart.Format(dayLayout)

	byDay := make(map[string]float64, seriesDays)
	days := make([]string, seriesDays)
	for i := 0; i < seriesDays; i++ {
		day := windowStart.AddDate(0, 0, i).Format(dayLayout)
		days[i] = day
		byDay[day] = 0
	}

	var recentCount int
	var total float64
	for _, e := range entries {
		day := e.CreatedAt.UTC().Format(dayLayout)
		if day < startDay {
			continue
		}
		recentCount++
		total += e.Quantity
		if _, ok := byDay[day]; ok {
			byDay[day] += e.Quantity
		}
	}

	perDay := 0
	if recentCount > 0 {
		perDay = int(math.Round(total / seriesDays))
	}

	series := make([]float64, seriesDays)
	for i, day := range days {
		series[i] = byDay[day]
	}

	return Dashboard{
		FoodRescuedPerDay: perDay,
		TotalEntries:      len(entries),
		RecentCount:       recentCount,
		RescuedSeries:     series,
	}
}

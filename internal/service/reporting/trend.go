package reporting

import (
	"time"

	"github.com/dairydesk/backend/internal/domain/models"
)

// BuildTrendSeries left-joins sparse bucket totals onto the trend grid,
// producing exactly cfg.Length ordered points starting at cfg.Start. Buckets
// absent from raw come out zero-valued. Pure function; identical inputs
// always yield identical output.
func BuildTrendSeries(raw []models.BucketTotals, cfg TrendConfig) []models.TrendPoint {
	totalsByKey := make(map[string]models.BucketTotals, len(raw))
	for _, row := range raw {
		totalsByKey[row.DateKey] = row
	}

	series := make([]models.TrendPoint, 0, cfg.Length)
	for i := 0; i < cfg.Length; i++ {
		var current time.Time
		if cfg.Unit == "month" {
			current = cfg.Start.AddDate(0, i, 0)
		} else {
			current = cfg.Start.AddDate(0, 0, i)
		}

		key := bucketKey(current, cfg.Unit)
		entry := totalsByKey[key]
		series = append(series, models.TrendPoint{
			Date:          key,
			Label:         bucketLabel(current, cfg.Unit),
			TotalQuantity: entry.TotalQuantity,
			TotalAmount:   entry.TotalAmount,
		})
	}
	return series
}

func bucketKey(t time.Time, unit string) string {
	if unit == "month" {
		return t.UTC().Format("2006-01")
	}
	return t.UTC().Format("2006-01-02")
}

func bucketLabel(t time.Time, unit string) string {
	if unit == "month" {
		return t.UTC().Format("Jan")
	}
	return t.UTC().Format("2 Jan")
}

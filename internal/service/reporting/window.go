package reporting

import (
	"strconv"
	"strings"
	"time"
)

// Trend periods accepted by the dashboard. Anything else resolves to weekly.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

var periodLabels = map[string]string{
	PeriodWeekly:  "Weekly",
	PeriodMonthly: "Monthly",
	PeriodYearly:  "Yearly",
}

// Window is an inclusive [Start, End] instant pair in UTC, closed at
// millisecond precision.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrendConfig describes the grid a trend series is reconstructed onto.
type TrendConfig struct {
	Period string
	Label  string
	Unit   string // "day" or "month"
	Length int
	Start  time.Time
	End    time.Time
}

// MonthRange is a resolved calendar-month window.
type MonthRange struct {
	Year  int
	Month int
	Start time.Time
	End   time.Time
}

// DayWindow returns the canonical UTC day boundaries around the reference
// instant: midnight through one millisecond before the next midnight.
func DayWindow(ref time.Time) Window {
	ref = ref.UTC()
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return Window{Start: start, End: end}
}

// NormalizePeriod maps a raw trend period onto a supported one. Unrecognized
// values fall back to weekly rather than failing; report parameters are
// deliberately permissive.
func NormalizePeriod(raw string) string {
	period := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := periodLabels[period]; !ok {
		return PeriodWeekly
	}
	return period
}

// TrendWindow derives the trend grid for a period, anchored on today's day
// window: weekly is 7 daily buckets ending today, monthly 30 daily buckets,
// yearly 12 monthly buckets ending the current month.
func TrendWindow(rawPeriod string, day Window) TrendConfig {
	period := NormalizePeriod(rawPeriod)
	label := periodLabels[period]

	switch period {
	case PeriodMonthly:
		return TrendConfig{
			Period: period,
			Label:  label,
			Unit:   "day",
			Length: 30,
			Start:  day.Start.AddDate(0, 0, -29),
			End:    day.End,
		}
	case PeriodYearly:
		monthStart := time.Date(day.End.Year(), day.End.Month(), 1, 0, 0, 0, 0, time.UTC)
		return TrendConfig{
			Period: period,
			Label:  label,
			Unit:   "month",
			Length: 12,
			Start:  monthStart.AddDate(0, -11, 0),
			End:    day.End,
		}
	default:
		return TrendConfig{
			Period: period,
			Label:  label,
			Unit:   "day",
			Length: 7,
			Start:  day.Start.AddDate(0, 0, -6),
			End:    day.End,
		}
	}
}

// MonthWindow resolves a raw year and 1-12 month into a calendar-month
// window. Absent or malformed values default to the current year and month.
// When upToToday is set and the requested month is the current one, the end
// boundary clips to the end of today instead of month end.
func MonthWindow(rawYear, rawMonth string, upToToday bool, now time.Time) MonthRange {
	now = now.UTC()

	year := now.Year()
	if y, err := strconv.Atoi(strings.TrimSpace(rawYear)); err == nil && y > 0 {
		year = y
	}
	month := int(now.Month())
	if m, err := strconv.Atoi(strings.TrimSpace(rawMonth)); err == nil && m >= 1 && m <= 12 {
		month = m
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	var end time.Time
	isCurrentMonth := year == now.Year() && time.Month(month) == now.Month()
	if upToToday && isCurrentMonth {
		end = DayWindow(now).End
	} else {
		end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
	}

	return MonthRange{Year: year, Month: month, Start: start, End: end}
}

// MetadataDate formats a boundary instant for trend metadata: YYYY-MM for
// month granularity, YYYY-MM-DD otherwise.
func MetadataDate(t time.Time, unit string) string {
	if unit == "month" {
		return t.UTC().Format("2006-01")
	}
	return t.UTC().Format("2006-01-02")
}

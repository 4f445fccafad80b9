package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	ref := time.Date(2024, 3, 15, 13, 42, 7, 0, time.UTC)
	w := DayWindow(ref)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
}

func TestDayWindowConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ref := time.Date(2024, 3, 16, 2, 0, 0, 0, loc) // 2024-03-15 20:30 UTC

	w := DayWindow(ref)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), w.Start)
}

func TestNormalizePeriod(t *testing.T) {
	cases := map[string]string{
		"weekly":   PeriodWeekly,
		"Monthly":  PeriodMonthly,
		" YEARLY ": PeriodYearly,
		"biannual": PeriodWeekly,
		"":         PeriodWeekly,
		"7":        PeriodWeekly,
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizePeriod(raw), "raw=%q", raw)
	}
}

func TestTrendWindowWeekly(t *testing.T) {
	day := DayWindow(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	cfg := TrendWindow("weekly", day)

	assert.Equal(t, PeriodWeekly, cfg.Period)
	assert.Equal(t, "Weekly", cfg.Label)
	assert.Equal(t, "day", cfg.Unit)
	assert.Equal(t, 7, cfg.Length)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), cfg.Start)
	assert.Equal(t, day.End, cfg.End)
}

func TestTrendWindowMonthly(t *testing.T) {
	day := DayWindow(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	cfg := TrendWindow("monthly", day)

	assert.Equal(t, "day", cfg.Unit)
	assert.Equal(t, 30, cfg.Length)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), cfg.Start)
}

func TestTrendWindowYearly(t *testing.T) {
	day := DayWindow(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	cfg := TrendWindow("yearly", day)

	assert.Equal(t, "month", cfg.Unit)
	assert.Equal(t, 12, cfg.Length)
	assert.Equal(t, time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), cfg.Start)
	assert.Equal(t, day.End, cfg.End)
}

func TestTrendWindowUnknownPeriodFallsBackToWeekly(t *testing.T) {
	day := DayWindow(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	cfg := TrendWindow("biannual", day)

	assert.Equal(t, PeriodWeekly, cfg.Period)
	assert.Equal(t, 7, cfg.Length)
}

func TestMonthWindowExplicit(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	w := MonthWindow("2024", "2", false, now)

	require.Equal(t, 2024, w.Year)
	require.Equal(t, 2, w.Month)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
}

func TestMonthWindowDefaultsToCurrentMonth(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	for _, raw := range [][2]string{{"", ""}, {"banana", "0"}, {"-1", "13"}} {
		w := MonthWindow(raw[0], raw[1], false, now)
		assert.Equal(t, 2024, w.Year, "year=%q month=%q", raw[0], raw[1])
		assert.Equal(t, 6, w.Month, "year=%q month=%q", raw[0], raw[1])
	}
}

func TestMonthWindowClipsCurrentMonthToToday(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	clipped := MonthWindow("2024", "6", true, now)
	assert.Equal(t, DayWindow(now).End, clipped.End)

	// A past month ignores the clip flag.
	past := MonthWindow("2024", "5", true, now)
	assert.Equal(t, time.Date(2024, 5, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), past.End)
}

func TestMetadataDate(t *testing.T) {
	at := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05", MetadataDate(at, "day"))
	assert.Equal(t, "2024-03", MetadataDate(at, "month"))
}

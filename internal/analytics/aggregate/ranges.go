package aggregate

import (
	"fmt"
	"time"
)

// Range is one of the fixed dashboard time windows.
type Range string

const (
	Range7Days  Range = "7d"
	Range30Days Range = "30d"
	Range90Days Range = "90d"
	Range1Year  Range = "1y"

	DefaultRange = Range30Days
)

// ParseRange maps a query value to a Range. Unknown and empty values fall
// back to 30 days.
func ParseRange(v string) Range {
	switch r := Range(v); r {
	case Range7Days, Range30Days, Range90Days, Range1Year:
		return r
	}
	return DefaultRange
}

// Since returns the lower bound of the window ending at now. A year is a
// calendar year; the other windows subtract days.
func (r Range) Since(now time.Time) time.Time {
	switch r {
	case Range7Days:
		return now.AddDate(0, 0, -7)
	case Range90Days:
		return now.AddDate(0, 0, -90)
	case Range1Year:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// VisitGranularity is day for the short windows and month otherwise.
func (r Range) VisitGranularity() Granularity {
	if r == Range7Days || r == Range30Days {
		return GranularityDay
	}
	return GranularityMonth
}

// Granularity is the bucket size of a time series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity accepts day, week or month; empty means day.
func ParseGranularity(v string) (Granularity, error) {
	switch g := Granularity(v); g {
	case "":
		return GranularityDay, nil
	case GranularityDay, GranularityWeek, GranularityMonth:
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q", v)
}

// PeriodKey formats t as the bucket label of g: YYYY-MM-DD for days and weeks
// (weeks start on Monday), YYYY-MM for months.
func (g Granularity) PeriodKey(t time.Time) string {
	t = t.UTC()
	switch g {
	case GranularityMonth:
		return t.Format("2006-01")
	case GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		return t.AddDate(0, 0, -offset).Format(time.DateOnly)
	default:
		return t.Format(time.DateOnly)
	}
}

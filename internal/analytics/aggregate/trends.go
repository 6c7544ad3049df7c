package aggregate

import (
	"sort"
	"time"
)

// MonthlyTrendWindow is how many of the most recent months MonthlyTrends keeps.
const MonthlyTrendWindow = 6

// MonthlyTrends groups leads by creation month (YYYY-MM) and keeps the
// latest MonthlyTrendWindow months in chronological order.
func MonthlyTrends(leads []LeadSnapshot) []TrendPoint {
	points := bucketLeads(leads, GranularityMonth)
	if len(points) > MonthlyTrendWindow {
		points = points[len(points)-MonthlyTrendWindow:]
	}
	return points
}

// TimeSeries buckets the leads created in [from, to] by g.
func TimeSeries(leads []LeadSnapshot, from, to time.Time, g Granularity) []TrendPoint {
	inRange := make([]LeadSnapshot, 0, len(leads))
	for _, l := range leads {
		if l.CreatedAt.Before(from) || l.CreatedAt.After(to) {
			continue
		}
		inRange = append(inRange, l)
	}
	return bucketLeads(inRange, g)
}

func bucketLeads(leads []LeadSnapshot, g Granularity) []TrendPoint {
	byPeriod := make(map[string]*TrendPoint)
	for _, l := range leads {
		key := g.PeriodKey(l.CreatedAt)
		p, ok := byPeriod[key]
		if !ok {
			p = &TrendPoint{Period: key}
			byPeriod[key] = p
		}
		p.NewLeads++
		switch l.Status {
		case StatusContacted:
			p.Contacted++
		case StatusQualified:
			p.Qualified++
		case StatusConverted:
			p.Converted++
		}
	}

	out := make([]TrendPoint, 0, len(byPeriod))
	for _, p := range byPeriod {
		out = append(out, *p)
	}
	// Period keys are zero-padded, so lexical order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

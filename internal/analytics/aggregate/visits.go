package aggregate

import (
	"math"
	"sort"
)

// PopularPagesLimit caps the popular pages list.
const PopularPagesLimit = 10

// ComputeVisitStats summarises visits of a range. uniqueVisitors is the
// number of visitors seen in the same range.
func ComputeVisitStats(visits []Visit, uniqueVisitors int, r Range) VisitStats {
	stats := VisitStats{
		TotalVisits:    len(visits),
		UniqueVisitors: uniqueVisitors,
		PopularPages:   []PageStat{},
		VisitsOverTime: []PeriodCount{},
	}
	if uniqueVisitors > 0 {
		avg := float64(stats.TotalVisits) / float64(uniqueVisitors)
		stats.AvgVisitsPerVisitor = math.Round(avg*100) / 100
	}
	if len(visits) == 0 {
		return stats
	}

	pageCounts := make(map[string]int)
	periodCounts := make(map[string]int)
	g := r.VisitGranularity()
	for _, v := range visits {
		pageCounts[v.PagePath]++
		periodCounts[g.PeriodKey(v.CreatedAt)]++
	}

	for path, n := range pageCounts {
		stats.PopularPages = append(stats.PopularPages, PageStat{
			Path:       path,
			Count:      n,
			Percentage: float64(n) / float64(stats.TotalVisits) * 100,
		})
	}
	sort.Slice(stats.PopularPages, func(i, j int) bool {
		a, b := stats.PopularPages[i], stats.PopularPages[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Path < b.Path
	})
	if len(stats.PopularPages) > PopularPagesLimit {
		stats.PopularPages = stats.PopularPages[:PopularPagesLimit]
	}

	for period, n := range periodCounts {
		stats.VisitsOverTime = append(stats.VisitsOverTime, PeriodCount{Period: period, Count: n})
	}
	sort.Slice(stats.VisitsOverTime, func(i, j int) bool {
		return stats.VisitsOverTime[i].Period < stats.VisitsOverTime[j].Period
	})
	return stats
}

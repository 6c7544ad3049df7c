package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Conversion divides converted leads by all leads, as a percentage rounded
// to one decimal. No leads means a zero rate.
func Conversion(statuses []string) ConversionStats {
	stats := ConversionStats{TotalLeads: len(statuses)}
	for _, s := range statuses {
		if s == StatusConverted {
			stats.ConvertedLeads++
		}
	}
	if stats.TotalLeads == 0 {
		return stats
	}
	rate := float64(stats.ConvertedLeads) / float64(stats.TotalLeads) * 100
	stats.ConversionRate = math.Round(rate*10) / 10
	return stats
}

// Funnel counts statuses in fixed display order with whole-number
// percentages of the total. Unknown statuses count toward the total only.
func Funnel(statuses []string) []FunnelStage {
	counts := make(map[string]int, len(funnelOrder))
	for _, s := range statuses {
		counts[s]++
	}

	total := len(statuses)
	stages := make([]FunnelStage, 0, len(funnelOrder))
	for _, status := range funnelOrder {
		stage := FunnelStage{Status: status, Count: counts[status]}
		if total > 0 {
			stage.Percentage = int(math.Round(float64(stage.Count) / float64(total) * 100))
		}
		stages = append(stages, stage)
	}
	return stages
}

const (
	highBill       = 500000
	mediumBill     = 200000
	highBudget     = 50000000
	mediumBudget   = 20000000
	pointsPerTouch = 10
)

// HotLeadScore rates an open lead on bill, budget, engagement and recency.
// The score grows by ten points per interaction.
func HotLeadScore(lead LeadSnapshot, interactions int, now time.Time) int {
	score := 0

	switch {
	case lead.ElectricityBill > highBill:
		score += 30
	case lead.ElectricityBill > mediumBill:
		score += 20
	default:
		score += 10
	}

	var budget float64
	if lead.Budget != nil {
		budget = *lead.Budget
	}
	switch {
	case budget > highBudget:
		score += 30
	case budget > mediumBudget:
		score += 20
	case budget != 0:
		score += 10
	default:
		score += 5
	}

	score += interactions * pointsPerTouch

	hours := now.Sub(lead.CreatedAt).Hours()
	switch {
	case hours <= 24:
		score += 20
	case hours <= 48:
		score += 15
	case hours <= 168:
		score += 10
	default:
		score += 5
	}
	return score
}

// RankHotLeads scores leads and sorts them by descending score. Equal scores
// keep the input order.
func RankHotLeads(leads []LeadSnapshot, summaries map[uuid.UUID]InteractionSummary, now time.Time) []HotLead {
	out := make([]HotLead, 0, len(leads))
	for _, l := range leads {
		summary := summaries[l.ID]
		out = append(out, HotLead{
			LeadID:          l.ID,
			CompanyName:     l.CompanyName,
			ContactName:     l.ContactName,
			Email:           l.Email,
			Phone:           l.Phone,
			Status:          l.Status,
			Score:           HotLeadScore(l, summary.Count, now),
			LastInteraction: summary.LastAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

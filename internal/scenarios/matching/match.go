package matching

import (
	"sort"
	"strings"
)

// MaxResults is how many scenarios Match returns at most.
const MaxResults = 3

const (
	NeedPredictiveAI  = "IA prédictive"
	NeedRemoteControl = "Pilotage à distance"

	highBillThreshold   = 500000
	mediumBillThreshold = 200000
)

const (
	ReasonSiteType      = "Compatible avec votre type de site"
	ReasonBudget        = "Correspond à votre budget"
	ReasonHighUsage     = "Recommandé pour votre niveau de consommation"
	ReasonMediumUsage   = "Optimal pour votre consommation"
	ReasonEconomical    = "Solution économique adaptée"
	ReasonPredictiveAI  = "Inclut intelligence artificielle"
	ReasonRemoteControl = "Contrôle à distance disponible"

	reasonSeparator = ", "
)

// Match scores every scenario and returns the best MaxResults in descending
// score order. Ties keep catalog order. Answers are not validated: missing
// values simply earn nothing.
func Match(catalog []Scenario, answers Answers) []Scored {
	scored := make([]Scored, 0, len(catalog))
	for _, sc := range catalog {
		scored = append(scored, Score(sc, answers))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > MaxResults {
		scored = scored[:MaxResults]
	}
	return scored
}

// Score applies the additive rule set to a single scenario.
func Score(sc Scenario, answers Answers) Scored {
	result := Scored{Scenario: sc, Reasons: make([]string, 0, 5)}
	add := func(points int, reason string) {
		result.Score += points
		if reason != "" {
			result.Reasons = append(result.Reasons, reason)
		}
	}

	if containsString(sc.SiteTypes, answers.SiteType) {
		add(30, ReasonSiteType)
	}

	if budget := answers.BudgetValue(); budget > 0 {
		if fitsBudget(sc, budget) {
			add(25, ReasonBudget)
		}
	} else {
		add(10, "")
	}

	bill := answers.ElectricityBill
	switch {
	case bill > highBillThreshold && sc.Category == CategoryPremium:
		add(20, ReasonHighUsage)
	case bill > mediumBillThreshold && sc.Category == CategoryStandard:
		add(20, ReasonMediumUsage)
	case sc.Category == CategoryEconomique:
		add(15, ReasonEconomical)
	}

	if answers.HasNeed(NeedPredictiveAI) && sc.Category == CategoryPremium {
		add(15, ReasonPredictiveAI)
	}

	if answers.HasNeed(NeedRemoteControl) {
		add(10, ReasonRemoteControl)
	}

	return result
}

// fitsBudget treats a zero maximum like a missing one; catalog rows seeded
// without an upper bound sometimes carry 0 instead of NULL.
func fitsBudget(sc Scenario, budget float64) bool {
	if budget < sc.MinBudget {
		return false
	}
	return sc.MaxBudget == nil || *sc.MaxBudget == 0 || budget <= *sc.MaxBudget
}

func containsString(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, reasonSeparator)
}

package transport

import (
	"sakkanal_backend/internal/scenarios/matching"

	"github.com/google/uuid"
)

// ScenarioResponse is the public catalog entry.
type ScenarioResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	SiteTypes         []string  `json:"siteTypes"`
	MinBudget         float64   `json:"minBudget"`
	MaxBudget         *float64  `json:"maxBudget"`
	EstimatedSavings  float64   `json:"estimatedSavings"`
	EquipmentLifespan int       `json:"equipmentLifespan"`
	Description       string    `json:"description"`
}

// ScenarioListResponse wraps the catalog.
type ScenarioListResponse struct {
	Items []ScenarioResponse `json:"items"`
}

// MatchRequest carries the answers collected so far. Incomplete answers are
// accepted; they simply score lower.
type MatchRequest struct {
	Answers matching.Answers `json:"answers"`
}

// MatchResult is one ranked scenario with its savings outlook.
type MatchResult struct {
	Scenario    ScenarioResponse    `json:"scenario"`
	Score       int                 `json:"score"`
	MatchReason string              `json:"matchReason"`
	Savings     matching.Projection `json:"savings"`
}

// MatchResponse lists at most three results, best first.
type MatchResponse struct {
	Results []MatchResult `json:"results"`
}

// StepValidationResponse reports whether the wizard may leave a step.
type StepValidationResponse struct {
	Step    int    `json:"step"`
	Valid   bool   `json:"valid"`
	Blocked int    `json:"blockedAtStep,omitempty"`
	Message string `json:"message,omitempty"`
}

// ToScenarioResponse maps a catalog scenario for output.
func ToScenarioResponse(sc matching.Scenario) ScenarioResponse {
	siteTypes := sc.SiteTypes
	if siteTypes == nil {
		siteTypes = []string{}
	}
	return ScenarioResponse{
		ID:                sc.ID,
		Name:              sc.Name,
		Category:          string(sc.Category),
		SiteTypes:         siteTypes,
		MinBudget:         sc.MinBudget,
		MaxBudget:         sc.MaxBudget,
		EstimatedSavings:  sc.EstimatedSavings,
		EquipmentLifespan: sc.EquipmentLifespan,
		Description:       sc.Description,
	}
}

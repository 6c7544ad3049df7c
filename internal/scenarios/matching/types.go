// Package matching ranks the scenario catalog against a visitor's
// questionnaire answers and projects the savings of a chosen scenario.
// Everything here is pure: no I/O, no clocks, no shared state.
package matching

import "github.com/google/uuid"

// Category is the price tier of a scenario.
type Category string

const (
	CategoryEconomique Category = "economique"
	CategoryStandard   Category = "standard"
	CategoryPremium    Category = "premium"
)

// Valid reports whether c is one of the three known tiers.
func (c Category) Valid() bool {
	switch c {
	case CategoryEconomique, CategoryStandard, CategoryPremium:
		return true
	}
	return false
}

// Scenario is a pre-defined offer bundle from the catalog.
type Scenario struct {
	ID                uuid.UUID
	Name              string
	Category          Category
	SiteTypes         []string
	MinBudget         float64
	MaxBudget         *float64 // nil means unbounded
	EstimatedSavings  float64  // percent of the monthly bill
	EquipmentLifespan int      // years
	Description       string
}

// Answers are the questionnaire values collected by the four wizard steps.
type Answers struct {
	SiteType          string   `json:"siteType"`
	ElectricityBill   float64  `json:"electricityBill"`
	InstallationPower float64  `json:"installationPower"`
	ZonesToMonitor    []string `json:"zonesToMonitor"`
	SpecificNeeds     []string `json:"specificNeeds"`
	MeasurementPoints *int     `json:"measurementPoints,omitempty"`
	Budget            *float64 `json:"budget,omitempty"`
}

// BudgetValue returns the declared budget, 0 when unset.
func (a Answers) BudgetValue() float64 {
	if a.Budget == nil {
		return 0
	}
	return *a.Budget
}

// HasNeed reports whether need was ticked in step 4.
func (a Answers) HasNeed(need string) bool {
	for _, n := range a.SpecificNeeds {
		if n == need {
			return true
		}
	}
	return false
}

// Scored is one scenario together with its score and the reasons that produced it.
type Scored struct {
	Scenario Scenario
	Score    int
	Reasons  []string
}

// Reason joins the reasons for display.
func (s Scored) Reason() string {
	return joinReasons(s.Reasons)
}

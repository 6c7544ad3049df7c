package matching

// Projection is the savings outlook of one scenario for one electricity bill.
// Values keep full precision; rounding is a presentation concern.
type Projection struct {
	Monthly  float64 `json:"monthlySavings"`
	Annual   float64 `json:"annualSavings"`
	Lifetime float64 `json:"lifetimeSavings"`
}

// MonthlySavings is bill × pct / 100.
func MonthlySavings(bill, pct float64) float64 {
	return bill * (pct / 100)
}

// AnnualSavings is twelve months of savings.
func AnnualSavings(monthly float64) float64 {
	return monthly * 12
}

// LifetimeSavings spreads annual savings over the equipment lifespan.
func LifetimeSavings(annual float64, years int) float64 {
	return annual * float64(years)
}

// Project computes the three savings figures for sc at the given monthly bill.
func Project(bill float64, sc Scenario) Projection {
	monthly := MonthlySavings(bill, sc.EstimatedSavings)
	annual := AnnualSavings(monthly)
	return Projection{
		Monthly:  monthly,
		Annual:   annual,
		Lifetime: LifetimeSavings(annual, sc.EquipmentLifespan),
	}
}

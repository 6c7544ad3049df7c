package matching

import (
	"errors"
	"fmt"
)

// Wizard steps. Each step's checks include those of the previous steps.
const (
	StepSiteType = 1
	StepEnergy   = 2
	StepZones    = 3
	StepNeeds    = 4

	LastStep = StepNeeds
)

var (
	ErrUnknownStep      = errors.New("unknown wizard step")
	ErrSiteTypeRequired = errors.New("site type is required")
	ErrBillRequired     = errors.New("electricity bill must be greater than zero")
	ErrPowerRequired    = errors.New("installation power must be greater than zero")
	ErrZonesRequired    = errors.New("select at least one zone to monitor")
	ErrNeedsRequired    = errors.New("select at least one specific need")
)

// StepError reports which step blocked progression.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ValidateStep checks whether answers allow leaving step. Earlier steps are
// re-checked so a client cannot skip ahead.
func ValidateStep(step int, answers Answers) error {
	if step < StepSiteType || step > LastStep {
		return ErrUnknownStep
	}

	checks := []func(Answers) error{
		checkSiteType,
		checkEnergy,
		checkZones,
		checkNeeds,
	}
	for i := 0; i < step; i++ {
		if err := checks[i](answers); err != nil {
			return &StepError{Step: i + 1, Err: err}
		}
	}
	return nil
}

// ValidateComplete checks the answers are ready for submission.
func ValidateComplete(answers Answers) error {
	return ValidateStep(LastStep, answers)
}

func checkSiteType(a Answers) error {
	if a.SiteType == "" {
		return ErrSiteTypeRequired
	}
	return nil
}

func checkEnergy(a Answers) error {
	if !(a.ElectricityBill > 0) {
		return ErrBillRequired
	}
	if !(a.InstallationPower > 0) {
		return ErrPowerRequired
	}
	return nil
}

func checkZones(a Answers) error {
	if len(a.ZonesToMonitor) == 0 {
		return ErrZonesRequired
	}
	return nil
}

func checkNeeds(a Answers) error {
	if len(a.SpecificNeeds) == 0 {
		return ErrNeedsRequired
	}
	return nil
}

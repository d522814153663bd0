package calculators

import (
	"fmt"

	"github.com/epeers/eclengine/internal/amortization"
	"github.com/epeers/eclengine/internal/models"
	"github.com/epeers/eclengine/internal/params"
)

// NewNonRetailPerforming builds the calculator for non-retail performing
// (stage 1+2) exposures: multi-step PD term structures and segment/rating
// driven risk parameters, amortization per the exposure's contractual profile.
func NewNonRetailPerforming() *Calculator {
	return &Calculator{
		Class:       models.ClassNonRetail,
		Status:      models.StatusPerforming,
		implemented: true,
		caps: &capabilitySet{
			validate: func(in *ECLCalculationInputs, e *models.ExposureRecord) []string {
				return requireDrivers(e, "SEGMENT", "RATING")
			},
			residualMaturity: standardResidualMaturity,
			eadSchedule: func(in *ECLCalculationInputs, e *models.ExposureRecord, steps int) ([]float64, error) {
				policy := amortization.PolicyFor(e, models.ProfileStraightLine)
				return amortization.Amortize(e, steps, policy, in.StepMonths)
			},
			pdCurve:  lookupCurve(func(s params.TemplateSet) (*params.Table, params.Kind) { return s.PD, params.KindPD }),
			lgdCurve: lookupCurve(func(s params.TemplateSet) (*params.Table, params.Kind) { return s.LGD, params.KindLGD }),
			ccfCurve: undrawnCCFCurve,
		},
	}
}

// NewRetailPerforming builds the calculator for retail performing exposures:
// pooled (segment-level) parameters, straight-line EAD run-off and no
// conversion factor, the treatment for fixed retail instruments.
func NewRetailPerforming() *Calculator {
	return &Calculator{
		Class:       models.ClassRetail,
		Status:      models.StatusPerforming,
		implemented: true,
		caps: &capabilitySet{
			validate: func(in *ECLCalculationInputs, e *models.ExposureRecord) []string {
				return requireDrivers(e, "SEGMENT")
			},
			residualMaturity: standardResidualMaturity,
			eadSchedule: func(in *ECLCalculationInputs, e *models.ExposureRecord, steps int) ([]float64, error) {
				return amortization.Amortize(e, steps, amortization.Policy{Profile: models.ProfileStraightLine}, in.StepMonths)
			},
			pdCurve:  lookupCurve(func(s params.TemplateSet) (*params.Table, params.Kind) { return s.PD, params.KindPD }),
			lgdCurve: lookupCurve(func(s params.TemplateSet) (*params.Table, params.Kind) { return s.LGD, params.KindLGD }),
			ccfCurve: zeroCurve,
		},
	}
}

// NewRetailDefaulted builds the calculator for retail defaulted (stage 3)
// exposures. Default has already happened, so PD is exactly 1.0 at every time
// step; EAD stays at the full work-out balance and only LGD comes from the
// templates.
func NewRetailDefaulted() *Calculator {
	return &Calculator{
		Class:       models.ClassRetail,
		Status:      models.StatusDefaulted,
		implemented: true,
		caps: &capabilitySet{
			validate: func(in *ECLCalculationInputs, e *models.ExposureRecord) []string {
				return requireDrivers(e, "SEGMENT")
			},
			residualMaturity: standardResidualMaturity,
			eadSchedule: func(in *ECLCalculationInputs, e *models.ExposureRecord, steps int) ([]float64, error) {
				return amortization.Amortize(e, steps, amortization.Policy{Profile: models.ProfileBullet}, in.StepMonths)
			},
			pdCurve: func(in *ECLCalculationInputs, e *models.ExposureRecord, scenario string, steps int) ([]float64, []models.Warning, error) {
				pd := make([]float64, steps)
				for i := range pd {
					pd[i] = 1.0
				}
				return pd, nil, nil
			},
			lgdCurve: lookupCurve(func(s params.TemplateSet) (*params.Table, params.Kind) { return s.LGD, params.KindLGD }),
			ccfCurve: zeroCurve,
		},
	}
}

// NewUnimplemented builds the distinguished placeholder variant for a
// combination that has no real calculator yet. Selection succeeds so callers
// can enumerate it, but any invocation fails with ErrNotImplemented.
func NewUnimplemented(class models.ExposureClass, status models.CreditStatus) *Calculator {
	return &Calculator{Class: class, Status: status, implemented: false}
}

// standardResidualMaturity is shared by all implemented variants.
func standardResidualMaturity(in *ECLCalculationInputs, e *models.ExposureRecord) (int, error) {
	return amortization.ResidualMaturity(e, in.AsOfDate, in.StepMonths)
}

// lookupCurve builds a parameter-curve capability resolving from the variant's
// template set through the shared lookup cache.
func lookupCurve(pick func(params.TemplateSet) (*params.Table, params.Kind)) curveFunc {
	return func(in *ECLCalculationInputs, e *models.ExposureRecord, scenario string, steps int) ([]float64, []models.Warning, error) {
		set, err := in.Templates.Set(e.Class, e.Status)
		if err != nil {
			return nil, nil, err
		}
		table, kind := pick(set)
		if table == nil {
			return nil, nil, fmt.Errorf("no %s template loaded for %s/%s", kind, e.Class, e.Status)
		}
		return resolveCurveCached(in, table, scenario, e.Drivers)
	}
}

// undrawnCCFCurve resolves conversion factors only for facilities with an
// undrawn component; fixed-exposure instruments use CCF = 0.
func undrawnCCFCurve(in *ECLCalculationInputs, e *models.ExposureRecord, scenario string, steps int) ([]float64, []models.Warning, error) {
	if e.Undrawn == 0 {
		return zeroCurve(in, e, scenario, steps)
	}
	set, err := in.Templates.Set(e.Class, e.Status)
	if err != nil {
		return nil, nil, err
	}
	if set.CCF == nil {
		return nil, nil, fmt.Errorf("exposure %s has undrawn amount but no CCF template is loaded for %s/%s", e.ID, e.Class, e.Status)
	}
	return resolveCurveCached(in, set.CCF, scenario, e.Drivers)
}

func zeroCurve(_ *ECLCalculationInputs, _ *models.ExposureRecord, _ string, steps int) ([]float64, []models.Warning, error) {
	return make([]float64, steps), nil, nil
}

func requireDrivers(e *models.ExposureRecord, names ...string) []string {
	var issues []string
	for _, name := range names {
		if _, ok := e.Driver(name); !ok {
			issues = append(issues, fmt.Sprintf("missing required driver %s", name))
		}
	}
	return issues
}

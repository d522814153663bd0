package calculators

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/eclengine/internal/models"
)

// Pipeline stage names, used in failure records for audit traceability.
const (
	StageValidate         = "validate"
	StageResidualMaturity = "residual_maturity"
	StageEADAmortization  = "ead_amortization"
	StagePD               = "pd"
	StageLGD              = "lgd"
	StageCCF              = "ccf"
	StageCombine          = "combine"
)

// curveFunc produces one risk-parameter curve for an exposure under a
// scenario, plus any warnings raised while resolving it.
type curveFunc func(in *ECLCalculationInputs, e *models.ExposureRecord, scenario string, steps int) ([]float64, []models.Warning, error)

// capabilitySet is the strategy record of a calculator variant: one function
// per determination stage. The orchestration around it is fixed; variants only
// supply the stage logic.
type capabilitySet struct {
	validate         func(in *ECLCalculationInputs, e *models.ExposureRecord) []string
	residualMaturity func(in *ECLCalculationInputs, e *models.ExposureRecord) (int, error)
	eadSchedule      func(in *ECLCalculationInputs, e *models.ExposureRecord, steps int) ([]float64, error)
	pdCurve          curveFunc
	lgdCurve         curveFunc
	ccfCurve         curveFunc
}

// Calculator runs the five-stage ECL pipeline for one (exposure class, credit
// status) combination. Concrete behavior comes from the variant's capability
// set; an unimplemented placeholder carries no capabilities and fails on use.
type Calculator struct {
	Class  models.ExposureClass
	Status models.CreditStatus

	caps        *capabilitySet
	implemented bool
}

// Implemented reports whether this variant carries real stage logic.
func (c *Calculator) Implemented() bool {
	return c.implemented
}

// CalculateScenario runs the full pipeline over the calculator's exposures for
// one scenario. Exposure-scoped failures are demoted to failure records so a
// single bad contract cannot abort the batch; only configuration problems
// (placeholder variant, broken inputs) return an error.
func (c *Calculator) CalculateScenario(ctx context.Context, in *ECLCalculationInputs, scenario models.ScenarioDefinition) (*models.ECLCalculationResults, error) {
	defer trackTime(fmt.Sprintf("CalculateScenario(%s)", scenario.Name), time.Now())

	if !c.implemented {
		return nil, fmt.Errorf("%s/%s: %w", c.Class, c.Status, ErrNotImplemented)
	}

	results := &models.ECLCalculationResults{Scenario: scenario.Name}
	key := scenarioKey(scenario)

	// Stage 1: validate everything up front and report all offending rows.
	valid, failures := c.validateAll(in, scenario.Name)
	results.Failures = append(results.Failures, failures...)
	for _, f := range failures {
		results.Warnings = append(results.Warnings, models.Warning{
			Code:    models.WarnExposureSkipped,
			Message: fmt.Sprintf("exposure %s skipped under scenario %s: %s", f.ExposureID, scenario.Name, f.Reason),
		})
	}

	for i := range valid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e := valid[i]

		res, warns, stage, err := c.runPipeline(in, e, key)
		if err != nil {
			log.Warnf("exposure %s failed at stage %s under scenario %s: %v", e.ID, stage, scenario.Name, err)
			results.Failures = append(results.Failures, models.ExposureFailure{
				ExposureID: e.ID,
				Scenario:   scenario.Name,
				Stage:      stage,
				Reason:     err.Error(),
			})
			continue
		}
		res.Scenario = scenario.Name
		results.Exposures = append(results.Exposures, *res)
		results.Warnings = append(results.Warnings, warns...)
	}

	results.Finalize()
	return results, nil
}

// validateAll screens the portfolio and splits it into calculable exposures
// and per-row failures. The aggregated ValidationError text is preserved in
// each failure so the report reads the same as a fatal validation would.
func (c *Calculator) validateAll(in *ECLCalculationInputs, scenarioName string) ([]*models.ExposureRecord, []models.ExposureFailure) {
	var valid []*models.ExposureRecord
	var bad []RowIssue

	for i := range in.Exposures {
		e := &in.Exposures[i]
		if e.Class != c.Class || e.Status != c.Status {
			continue
		}

		issues := baseValidation(in, e)
		issues = append(issues, c.caps.validate(in, e)...)
		if len(issues) > 0 {
			bad = append(bad, RowIssue{ExposureID: e.ID, Issues: issues})
			continue
		}
		valid = append(valid, e)
	}

	var failures []models.ExposureFailure
	if len(bad) > 0 {
		verr := &ValidationError{Rows: bad}
		log.Warnf("input validation for %s/%s: %v", c.Class, c.Status, verr)
		for _, r := range bad {
			failures = append(failures, models.ExposureFailure{
				ExposureID: r.ExposureID,
				Scenario:   scenarioName,
				Stage:      StageValidate,
				Reason:     strings.Join(r.Issues, "; "),
			})
		}
	}
	return valid, failures
}

// baseValidation checks the fields every variant requires.
func baseValidation(in *ECLCalculationInputs, e *models.ExposureRecord) []string {
	var issues []string
	if strings.TrimSpace(e.ID) == "" {
		issues = append(issues, "missing exposure identifier")
	}
	if e.MaturityDate.IsZero() {
		issues = append(issues, "missing maturity date")
	} else if e.MaturityDate.Before(in.AsOfDate.Time) {
		issues = append(issues, fmt.Sprintf("maturity date %s precedes as-of date", e.MaturityDate.Format("2006-01-02")))
	}
	if e.Balance < 0 {
		issues = append(issues, fmt.Sprintf("negative balance %g", e.Balance))
	}
	if e.Undrawn < 0 {
		issues = append(issues, fmt.Sprintf("negative undrawn amount %g", e.Undrawn))
	}
	return issues
}

// runPipeline executes stages 2-7 for one exposure under one scenario. The
// stage sequence is linear with no branching back; the name of the failing
// stage is returned for the failure record.
func (c *Calculator) runPipeline(in *ECLCalculationInputs, e *models.ExposureRecord, scenarioKey string) (*models.ExposureResult, []models.Warning, string, error) {
	steps, err := c.caps.residualMaturity(in, e)
	if err != nil {
		return nil, nil, StageResidualMaturity, err
	}
	if steps == 0 {
		// Matures within the current step: empty schedule, zero forward ECL.
		return &models.ExposureResult{ExposureID: e.ID}, nil, "", nil
	}

	ead, err := c.caps.eadSchedule(in, e, steps)
	if err != nil {
		return nil, nil, StageEADAmortization, err
	}

	var warns []models.Warning

	pd, pdWarns, err := c.caps.pdCurve(in, e, scenarioKey, steps)
	if err != nil {
		return nil, nil, StagePD, err
	}
	warns = append(warns, pdWarns...)

	lgd, lgdWarns, err := c.caps.lgdCurve(in, e, scenarioKey, steps)
	if err != nil {
		return nil, nil, StageLGD, err
	}
	warns = append(warns, lgdWarns...)

	ccf, ccfWarns, err := c.caps.ccfCurve(in, e, scenarioKey, steps)
	if err != nil {
		return nil, nil, StageCCF, err
	}
	warns = append(warns, ccfWarns...)

	res, combineWarns, err := combine(in, e, steps, ead, pd, lgd, ccf)
	if err != nil {
		return nil, nil, StageCombine, err
	}
	warns = append(warns, combineWarns...)
	return res, warns, "", nil
}

// combine is the shared final combination across all variants:
//
//	ECL_t = PD_t × LGD_t × (EAD_t + CCF_t × Undrawn) × DF_t
//
// summed over the horizon, keeping the full per-step breakdown for audit.
func combine(in *ECLCalculationInputs, e *models.ExposureRecord, steps int, ead, pd, lgd, ccf []float64) (*models.ExposureResult, []models.Warning, error) {
	res := &models.ExposureResult{
		ExposureID: e.ID,
		Steps:      make([]models.StepResult, 0, steps),
	}

	var warns []models.Warning
	for _, nc := range []struct {
		name  string
		curve []float64
	}{{"PD", pd}, {"LGD", lgd}, {"CCF", ccf}} {
		name, curve := nc.name, nc.curve
		if len(curve) > 0 && len(curve) < steps {
			warns = append(warns, models.Warning{
				Code: models.WarnCurveClamped,
				Message: fmt.Sprintf("exposure %s: %s template covers %d steps, horizon needs %d; last value reused",
					e.ID, name, len(curve), steps),
			})
		}
	}

	for t := 1; t <= steps; t++ {
		df, err := in.Discount.FactorAt(t)
		if err != nil {
			return nil, nil, err
		}
		pdT := valueAt(pd, t)
		lgdT := valueAt(lgd, t)
		ccfT := valueAt(ccf, t)
		eadT := valueAt(ead, t)

		ecl := pdT * lgdT * (eadT + ccfT*e.Undrawn) * df
		res.Steps = append(res.Steps, models.StepResult{
			TimeStep: t,
			PD:       pdT,
			LGD:      lgdT,
			CCF:      ccfT,
			EAD:      eadT,
			Discount: df,
			ECL:      ecl,
		})
		res.TotalECL += ecl
	}

	return res, warns, nil
}

func valueAt(curve []float64, t int) float64 {
	if len(curve) == 0 {
		return 0
	}
	if t > len(curve) {
		t = len(curve)
	}
	return curve[t-1]
}

func trackTime(funcName string, start time.Time) {
	log.Debugf("%s took %d ms", funcName, time.Since(start).Milliseconds())
}

package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/eclengine/internal/models"
)

// WeightedScenarioName labels the combined result produced by the aggregator.
const WeightedScenarioName = "WEIGHTED"

// WeightMismatchError reports invalid or incomplete scenario weights. The
// aggregator never normalizes weights on the caller's behalf: in a regulatory
// calculation a silent renormalization would mask a misconfiguration.
type WeightMismatchError struct {
	Reason  string
	Sum     float64
	Missing []string
}

func (e *WeightMismatchError) Error() string {
	msg := e.Reason
	if len(e.Missing) > 0 {
		msg += ": " + strings.Join(e.Missing, ", ")
	}
	return msg
}

// AggregationService combines per-scenario ECL results into one
// probability-weighted result.
type AggregationService struct{}

// NewAggregationService creates a new AggregationService
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// WeightedCombine computes, for every exposure and time step, the weighted sum
// of the per-scenario values. Weights must sum to 1.0 within tolerance and
// their scenario set must correspond exactly to the supplied results; both
// directions are checked, since a result silently dropped from the average is
// as wrong as a weight with nothing to apply to.
func (s *AggregationService) WeightedCombine(resultsByScenario map[string]*models.ECLCalculationResults, weights models.ScenarioWeights) (*models.ECLCalculationResults, error) {
	defer TrackTime("WeightedCombine", time.Now())

	if err := validateWeights(resultsByScenario, weights); err != nil {
		return nil, err
	}

	scenarios := make([]string, 0, len(weights))
	for name := range weights {
		scenarios = append(scenarios, name)
	}
	sort.Strings(scenarios)

	combined := &models.ECLCalculationResults{Scenario: WeightedScenarioName}

	// An exposure may have failed under some scenarios and succeeded under
	// others, so iterate the union of exposure IDs across all scenarios. A
	// one-sided absence must surface as a failure record, not disappear.
	for _, exposureID := range exposureUnion(resultsByScenario, scenarios) {
		agg, err := combineExposure(exposureID, resultsByScenario, scenarios, weights)
		if err != nil {
			log.Warnf("skipping exposure %s in weighted aggregate: %v", exposureID, err)
			combined.Failures = append(combined.Failures, models.ExposureFailure{
				ExposureID: exposureID,
				Scenario:   WeightedScenarioName,
				Stage:      "aggregate",
				Reason:     err.Error(),
			})
			continue
		}
		combined.Exposures = append(combined.Exposures, *agg)
	}

	combined.Finalize()
	return combined, nil
}

func exposureUnion(results map[string]*models.ECLCalculationResults, scenarios []string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, name := range scenarios {
		for _, res := range results[name].Exposures {
			if !seen[res.ExposureID] {
				seen[res.ExposureID] = true
				ids = append(ids, res.ExposureID)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func validateWeights(results map[string]*models.ECLCalculationResults, weights models.ScenarioWeights) error {
	if len(weights) == 0 {
		return &WeightMismatchError{Reason: "no scenario weights supplied"}
	}

	var sum float64
	for name, w := range weights {
		if w < 0 || w > 1 {
			return &WeightMismatchError{
				Reason: fmt.Sprintf("weight for scenario %s is %g, outside [0,1]", name, w),
			}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > models.WeightTolerance {
		return &WeightMismatchError{
			Reason: fmt.Sprintf("scenario weights sum to %g, expected 1.0", sum),
			Sum:    sum,
		}
	}

	var missing []string
	for name := range weights {
		if _, ok := results[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &WeightMismatchError{Reason: "weights reference scenarios absent from results", Missing: missing}
	}

	var unweighted []string
	for name := range results {
		if _, ok := weights[name]; !ok {
			unweighted = append(unweighted, name)
		}
	}
	if len(unweighted) > 0 {
		sort.Strings(unweighted)
		return &WeightMismatchError{Reason: "results contain scenarios with no weight", Missing: unweighted}
	}

	return nil
}

func combineExposure(exposureID string, results map[string]*models.ECLCalculationResults, scenarios []string, weights models.ScenarioWeights) (*models.ExposureResult, error) {
	perScenario := make([]*models.ExposureResult, len(scenarios))
	stepCount := -1
	for i, name := range scenarios {
		res := results[name].Result(exposureID)
		if res == nil {
			return nil, fmt.Errorf("no result under scenario %s", name)
		}
		if stepCount >= 0 && len(res.Steps) != stepCount {
			return nil, fmt.Errorf("step count differs between scenarios (%d vs %d)", stepCount, len(res.Steps))
		}
		stepCount = len(res.Steps)
		perScenario[i] = res
	}

	agg := &models.ExposureResult{
		ExposureID: exposureID,
		Scenario:   WeightedScenarioName,
		Steps:      make([]models.StepResult, stepCount),
	}
	for t := 0; t < stepCount; t++ {
		step := models.StepResult{TimeStep: perScenario[0].Steps[t].TimeStep}
		for i, name := range scenarios {
			w := weights[name]
			src := perScenario[i].Steps[t]
			step.PD += w * src.PD
			step.LGD += w * src.LGD
			step.CCF += w * src.CCF
			step.EAD += w * src.EAD
			step.Discount += w * src.Discount
			step.ECL += w * src.ECL
		}
		agg.Steps[t] = step
		agg.TotalECL += step.ECL
	}

	return agg, nil
}

package calculators

import (
	"fmt"
	"strings"

	"github.com/epeers/eclengine/internal/amortization"
	"github.com/epeers/eclengine/internal/cache"
	"github.com/epeers/eclengine/internal/models"
	"github.com/epeers/eclengine/internal/params"
)

// ECLCalculationInputs bundles everything a calculator needs for one run. It
// is constructed once by the orchestrator and never mutated afterwards, which
// is what makes per-scenario workers safe without locking.
type ECLCalculationInputs struct {
	AsOfDate       models.FlexibleDate
	StepMonths     int
	Exposures      []models.ExposureRecord
	Scenarios      []models.ScenarioDefinition
	Templates      params.TemplateLibrary
	Discount       amortization.DiscountCurve
	DriverDefaults map[string]string
	Lookups        *cache.LookupCache
}

// NewInputs validates and assembles calculation inputs. The lookup cache is
// created here so all scenarios of the run share one memoization space.
func NewInputs(
	asOfDate models.FlexibleDate,
	stepMonths int,
	exposures []models.ExposureRecord,
	scenarios []models.ScenarioDefinition,
	templates params.TemplateLibrary,
	discount amortization.DiscountCurve,
	driverDefaults map[string]string,
) (*ECLCalculationInputs, error) {
	if asOfDate.IsZero() {
		return nil, fmt.Errorf("as-of date is required")
	}
	if len(exposures) == 0 {
		return nil, fmt.Errorf("at least one exposure is required")
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("at least one scenario is required")
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("parameter templates are required")
	}
	if stepMonths == 0 {
		stepMonths = amortization.DefaultStepMonths
	}
	if stepMonths < 1 {
		return nil, fmt.Errorf("step length must be at least one month, got %d", stepMonths)
	}

	return &ECLCalculationInputs{
		AsOfDate:       asOfDate,
		StepMonths:     stepMonths,
		Exposures:      exposures,
		Scenarios:      scenarios,
		Templates:      templates,
		Discount:       discount,
		DriverDefaults: driverDefaults,
		Lookups:        cache.NewLookupCache(),
	}, nil
}

// scenarioKey returns the lookup key of a scenario, defaulting to its name.
func scenarioKey(s models.ScenarioDefinition) string {
	if s.Key != "" {
		return s.Key
	}
	return s.Name
}

// resolveCurveCached resolves a parameter curve through the run's shared
// lookup cache. Cache keys include the table name, scenario and the full
// driver tuple, so entries never collide across parameters. A default-driver
// fallback is reported once per combination; cache hits stay silent.
func resolveCurveCached(in *ECLCalculationInputs, table *params.Table, scenario string, drivers map[string]string) ([]float64, []models.Warning, error) {
	key := cache.Key(table.Name, scenario, drivers)
	if curve, ok := in.Lookups.GetCurve(key); ok {
		return curve, nil, nil
	}
	curve, defaulted, err := table.ResolveCurveInfo(scenario, drivers, in.DriverDefaults)
	if err != nil {
		return nil, nil, err
	}
	var warns []models.Warning
	if len(defaulted) > 0 {
		warns = append(warns, models.Warning{
			Code: models.WarnDriverDefaulted,
			Message: fmt.Sprintf("lookup on %s under scenario %s used default values for %s",
				table.Name, scenario, strings.Join(defaulted, ", ")),
		})
	}
	in.Lookups.SetCurve(key, curve)
	return curve, warns, nil
}

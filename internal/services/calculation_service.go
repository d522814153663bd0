package services

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/epeers/eclengine/internal/calculators"
	"github.com/epeers/eclengine/internal/models"
)

// CalculationService drives the end-to-end ECL pipeline: variant selection,
// per-scenario execution and result consolidation. Scenarios are independent
// once the read-only inputs are built, so they fan out across workers.
type CalculationService struct {
	registry *calculators.Registry
}

// NewCalculationService creates a new CalculationService
func NewCalculationService(registry *calculators.Registry) *CalculationService {
	return &CalculationService{registry: registry}
}

// Calculate runs every scenario over the portfolio and returns one result set
// per scenario name. Configuration problems (unregistered or placeholder
// variants, invalid templates in strict mode) abort before any exposure is
// processed; exposure-scoped failures land in the per-scenario failure lists.
func (s *CalculationService) Calculate(ctx context.Context, in *calculators.ECLCalculationInputs, strict bool) (map[string]*models.ECLCalculationResults, error) {
	defer TrackTime("Calculate", time.Now())

	// Load-time template validation. RangeWarnings are attached to the
	// collector in ctx; in strict mode the run aborts here.
	warnings, err := in.Templates.Validate(strict)
	if err != nil {
		return nil, fmt.Errorf("template validation failed: %w", err)
	}
	AddWarnings(ctx, warnings)

	// Resolve every variant up front so a misconfigured registry fails the
	// run before any partial output exists.
	calcs, err := s.selectCalculators(in)
	if err != nil {
		return nil, err
	}

	results := make(map[string]*models.ECLCalculationResults, len(in.Scenarios))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, scenario := range in.Scenarios {
		g.Go(func() error {
			log.Infof("calculating scenario %s over %d exposures", scenario.Name, len(in.Exposures))

			merged := &models.ECLCalculationResults{Scenario: scenario.Name}
			for _, calc := range calcs {
				res, err := calc.CalculateScenario(gctx, in, scenario)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", scenario.Name, err)
				}
				merged.Exposures = append(merged.Exposures, res.Exposures...)
				merged.Failures = append(merged.Failures, res.Failures...)
				merged.Warnings = append(merged.Warnings, res.Warnings...)
			}
			merged.Finalize()

			mu.Lock()
			results[scenario.Name] = merged
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// selectCalculators instantiates one calculator per combination present in the
// portfolio, in stable class/status order. Unregistered combinations and
// placeholder variants both fail here, at selection time.
func (s *CalculationService) selectCalculators(in *calculators.ECLCalculationInputs) ([]*calculators.Calculator, error) {
	type combo struct {
		class  models.ExposureClass
		status models.CreditStatus
	}
	seen := make(map[combo]bool)
	var combos []combo
	for i := range in.Exposures {
		c := combo{class: in.Exposures[i].Class, status: in.Exposures[i].Status}
		if !seen[c] {
			seen[c] = true
			combos = append(combos, c)
		}
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].class != combos[j].class {
			return combos[i].class < combos[j].class
		}
		return combos[i].status < combos[j].status
	})

	calcs := make([]*calculators.Calculator, 0, len(combos))
	for _, c := range combos {
		calc, err := s.registry.Create(c.class, c.status)
		if err != nil {
			return nil, err
		}
		if !calc.Implemented() {
			return nil, fmt.Errorf("%s/%s: %w", c.class, c.status, calculators.ErrNotImplemented)
		}
		calcs = append(calcs, calc)
	}
	return calcs, nil
}

// AvailableCombinations exposes the registry contents for configuration checks.
func (s *CalculationService) AvailableCombinations() []models.VariantInfo {
	return s.registry.AvailableCombinations()
}

package params

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// resolveRow finds the table row matching the given driver values. The scenario
// argument is bound to the table's SCENARIO column when one exists. Missing or
// unmatched drivers fall back to default_values: first each defaulted driver is
// substituted on its own in column order, then all of them together. The retry
// order is fixed so resolution stays deterministic and auditable. The second
// return lists the columns that were substituted with their defaults.
func (t *Table) resolveRow(scenario string, drivers, defaults map[string]string) (*tableRow, []string, bool) {
	normDrivers := normalizeMap(drivers)
	normDefaults := normalizeMap(defaults)
	scenario = NormalizeDriver(scenario)

	lookup := make([]string, len(t.driverCols))
	for i, col := range t.driverCols {
		if col == t.scenarioCol && scenario != "" {
			lookup[i] = scenario
			continue
		}
		lookup[i] = normDrivers[strings.ToUpper(col)]
	}

	if row, ok := t.rowFor(lookup); ok {
		return row, nil, true
	}

	// Single-driver default substitutions, column order.
	for i, col := range t.driverCols {
		def, ok := normDefaults[strings.ToUpper(col)]
		if !ok || lookup[i] == def {
			continue
		}
		retry := make([]string, len(lookup))
		copy(retry, lookup)
		retry[i] = def
		if row, ok := t.rowFor(retry); ok {
			log.Debugf("lookup on %s fell back to default %s=%s", t.Name, col, def)
			return row, []string{col}, true
		}
	}

	// All defaults at once.
	retry := make([]string, len(lookup))
	copy(retry, lookup)
	var substituted []string
	for i, col := range t.driverCols {
		if def, ok := normDefaults[strings.ToUpper(col)]; ok && retry[i] != def {
			retry[i] = def
			substituted = append(substituted, col)
		}
	}
	if len(substituted) > 0 {
		if row, ok := t.rowFor(retry); ok {
			log.Debugf("lookup on %s fell back to full default combination", t.Name)
			return row, substituted, true
		}
	}

	return nil, nil, false
}

func (t *Table) rowFor(values []string) (*tableRow, bool) {
	idx, ok := t.index[strings.Join(values, keySep)]
	if !ok {
		return nil, false
	}
	return &t.rows[idx], true
}

func normalizeMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToUpper(strings.TrimSpace(k))] = NormalizeDriver(v)
	}
	return out
}

// Resolve looks up a single parameter value for a scenario, time step and
// driver combination. Time steps beyond the table's last column reuse the last
// column's value; the engine records that as a curve-clamp warning at the call
// site. A combination that stays unmatched after default substitution yields a
// *LookupMissError, never a silent zero or an arbitrary row.
func (t *Table) Resolve(scenario string, timeStep int, drivers, defaults map[string]string) (float64, error) {
	curve, err := t.ResolveCurve(scenario, drivers, defaults)
	if err != nil {
		var miss *LookupMissError
		if m, ok := err.(*LookupMissError); ok {
			miss = m
			miss.TimeStep = timeStep
		}
		if miss != nil {
			return 0, miss
		}
		return 0, err
	}
	return ValueAt(curve, timeStep), nil
}

// ResolveCurve resolves the full time-step vector for one driver combination.
func (t *Table) ResolveCurve(scenario string, drivers, defaults map[string]string) ([]float64, error) {
	curve, _, err := t.ResolveCurveInfo(scenario, drivers, defaults)
	return curve, err
}

// ResolveCurveInfo is ResolveCurve plus the list of driver columns that were
// substituted with defaults on the way to a match, so callers can surface the
// fallback instead of leaving it buried in debug logs.
func (t *Table) ResolveCurveInfo(scenario string, drivers, defaults map[string]string) ([]float64, []string, error) {
	row, defaulted, ok := t.resolveRow(scenario, drivers, defaults)
	if !ok {
		missed := make(map[string]string, len(t.driverCols))
		norm := normalizeMap(drivers)
		for _, col := range t.driverCols {
			if col == t.scenarioCol {
				missed[col] = NormalizeDriver(scenario)
				continue
			}
			missed[col] = norm[strings.ToUpper(col)]
		}
		return nil, nil, &LookupMissError{Table: t.Name, Scenario: scenario, Drivers: missed}
	}
	out := make([]float64, len(row.steps))
	copy(out, row.steps)
	return out, defaulted, nil
}

// ValueAt returns the curve value for a 1-based time step, reusing the last
// value when the step lies beyond the curve.
func ValueAt(curve []float64, timeStep int) float64 {
	if len(curve) == 0 {
		return 0
	}
	if timeStep < 1 {
		timeStep = 1
	}
	if timeStep > len(curve) {
		timeStep = len(curve)
	}
	return curve[timeStep-1]
}

// Fixed column names of the legacy template schema.
const (
	legacySegmentColumn = "SEGMENT"
	legacyRatingColumn  = "RATING"
)

// LegacyResolve is the fixed-column lookup for backward-compatible templates
// using exactly SEGMENT/SCENARIO/RATING driver columns. When no row matches the
// requested segment, the lookup retries with defaultSegment before failing.
func (t *Table) LegacyResolve(segment, scenario, rating string, timeStep int, defaultSegment string) (float64, error) {
	for _, col := range []string{legacySegmentColumn, scenarioColumn, legacyRatingColumn} {
		if !t.hasDriverColumn(col) {
			return 0, &LookupMissError{
				Table:    t.Name,
				Scenario: scenario,
				TimeStep: timeStep,
				Drivers:  map[string]string{col: "<column missing>"},
			}
		}
	}

	drivers := map[string]string{
		legacySegmentColumn: segment,
		legacyRatingColumn:  rating,
	}
	defaults := map[string]string{}
	if defaultSegment != "" {
		defaults[legacySegmentColumn] = defaultSegment
	}
	return t.Resolve(scenario, timeStep, drivers, defaults)
}

func (t *Table) hasDriverColumn(name string) bool {
	for _, col := range t.driverCols {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

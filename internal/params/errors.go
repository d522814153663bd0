package params

import (
	"fmt"
	"sort"
	"strings"
)

// LookupMissError reports that no template row matched a driver combination,
// including after default substitution. The unmatched combination is carried so
// the failure can be tied back to a specific exposure and scenario. TimeStep is
// zero when the whole curve missed rather than a single step.
type LookupMissError struct {
	Table    string
	Scenario string
	TimeStep int
	Drivers  map[string]string
}

func (e *LookupMissError) Error() string {
	pairs := make([]string, 0, len(e.Drivers))
	for k, v := range e.Drivers {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	step := ""
	if e.TimeStep > 0 {
		step = fmt.Sprintf(", time step %d", e.TimeStep)
	}
	return fmt.Sprintf("no parameter row in %s for scenario %s%s, drivers [%s]",
		e.Table, e.Scenario, step, strings.Join(pairs, " "))
}

// InvalidParameterError reports a template value outside its expected domain
// when strict validation is active.
type InvalidParameterError struct {
	Table  string
	Column string
	Row    int
	Value  float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("parameter out of range in %s row %d column %s: %g", e.Table, e.Row, e.Column, e.Value)
}

package params

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// timeStepPattern matches the reserved time-step column naming convention.
// Anything else is a driver column.
var timeStepPattern = regexp.MustCompile(`(?i)^time_step_?(\d+)$`)

// scenarioColumn is the conventional name of the driver column bound to the
// active scenario during resolution.
const scenarioColumn = "SCENARIO"

// Table is a loaded parameter template: a rectangular table whose columns are
// either driver columns (lookup keys) or TIME_STEP_<n> value columns. Tables
// are built once per calculation run and treated as read-only afterwards, so
// they are safe to share across concurrent readers.
type Table struct {
	Name string

	columns     []string
	driverCols  []string
	stepCount   int
	scenarioCol string

	rows  []tableRow
	index map[string]int
}

type tableRow struct {
	drivers map[string]string
	steps   []float64
}

// keySep joins driver values into index keys. Unit separator keeps composite
// keys unambiguous for values containing common punctuation.
const keySep = "\x1f"

// NormalizeDriver canonicalizes a driver value for matching: trimmed and
// upper-cased, the same treatment on both the template and the exposure side.
func NormalizeDriver(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// NewTable builds a Table from a header row and data records. Every record must
// have one value per column; time-step columns must parse as numbers and their
// indexes must run contiguously from 1; duplicate driver combinations are
// rejected because resolution would become order-dependent.
func NewTable(name string, columns []string, records [][]string) (*Table, error) {
	t := &Table{
		Name:  name,
		index: make(map[string]int),
	}

	stepIdx := make(map[int]int) // step number -> column position
	for i, col := range columns {
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("table %s: column %d has an empty name", name, i+1)
		}
		t.columns = append(t.columns, col)

		if m := timeStepPattern.FindStringSubmatch(col); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("table %s: invalid time step column %q", name, col)
			}
			if _, dup := stepIdx[n]; dup {
				return nil, fmt.Errorf("table %s: duplicate time step column for step %d", name, n)
			}
			stepIdx[n] = i
			continue
		}

		upper := strings.ToUpper(col)
		if upper == scenarioColumn {
			t.scenarioCol = col
		}
		t.driverCols = append(t.driverCols, col)
	}

	if len(stepIdx) == 0 {
		return nil, fmt.Errorf("table %s: no time step columns found", name)
	}
	steps := make([]int, 0, len(stepIdx))
	for n := range stepIdx {
		steps = append(steps, n)
	}
	sort.Ints(steps)
	for i, n := range steps {
		if n != i+1 {
			return nil, fmt.Errorf("table %s: time step columns must run 1..%d, found step %d", name, len(steps), n)
		}
	}
	t.stepCount = len(steps)

	for rowNum, rec := range records {
		if len(rec) != len(t.columns) {
			return nil, fmt.Errorf("table %s row %d: expected %d values, got %d", name, rowNum+1, len(t.columns), len(rec))
		}

		row := tableRow{
			drivers: make(map[string]string, len(t.driverCols)),
			steps:   make([]float64, t.stepCount),
		}
		for _, n := range steps {
			raw := strings.TrimSpace(rec[stepIdx[n]])
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("table %s row %d: time step %d value %q is not numeric", name, rowNum+1, n, raw)
			}
			row.steps[n-1] = v
		}

		keyParts := make([]string, 0, len(t.driverCols))
		for i, col := range t.columns {
			if _, isStep := timeStepColumnIndex(col); isStep {
				continue
			}
			v := NormalizeDriver(rec[i])
			row.drivers[col] = v
			keyParts = append(keyParts, v)
		}
		key := strings.Join(keyParts, keySep)
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("table %s row %d: duplicate driver combination %v", name, rowNum+1, keyParts)
		}
		t.index[key] = len(t.rows)
		t.rows = append(t.rows, row)
	}

	return t, nil
}

func timeStepColumnIndex(col string) (int, bool) {
	m := timeStepPattern.FindStringSubmatch(col)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// DriverColumns returns the table's driver columns in table order: every
// column whose name does not match the time-step naming convention.
func (t *Table) DriverColumns() []string {
	out := make([]string, len(t.driverCols))
	copy(out, t.driverCols)
	return out
}

// TimeSteps returns the number of time-step columns in the table.
func (t *Table) TimeSteps() int {
	return t.stepCount
}

// Rows returns the number of data rows in the table.
func (t *Table) Rows() int {
	return len(t.rows)
}

// UniqueValues returns the distinct normalized values present in one driver
// column, in first-seen row order.
func (t *Table) UniqueValues(driverColumn string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.rows {
		v, ok := row.drivers[driverColumn]
		if !ok || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

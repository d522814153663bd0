package params

import (
	"errors"
	"strings"
	"testing"
)

func driverTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("PD", []string{"SEGMENT", "SCENARIO", "RATING", "TIME_STEP_1", "TIME_STEP_2", "TIME_STEP_3"}, [][]string{
		{"CORP", "BASE", "AA", "0.01", "0.02", "0.03"},
		{"CORP", "ADVERSE", "AA", "0.02", "0.04", "0.06"},
		{"DEFAULT", "BASE", "AA", "0.05", "0.05", "0.05"},
	})
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return table
}

func TestResolve_ExactMatch(t *testing.T) {
	table := driverTable(t)

	v, err := table.Resolve("BASE", 2, map[string]string{"SEGMENT": "CORP", "RATING": "AA"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.02 {
		t.Errorf("expected 0.02, got %g", v)
	}
}

func TestResolve_NormalizesDriverValues(t *testing.T) {
	table := driverTable(t)

	v, err := table.Resolve("base", 1, map[string]string{"segment": " corp ", "rating": "aa"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.01 {
		t.Errorf("expected 0.01, got %g", v)
	}
}

func TestResolve_ScenarioSelectsRow(t *testing.T) {
	table := driverTable(t)
	drivers := map[string]string{"SEGMENT": "CORP", "RATING": "AA"}

	base, err := table.Resolve("BASE", 1, drivers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adverse, err := table.Resolve("ADVERSE", 1, drivers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != 0.01 || adverse != 0.02 {
		t.Errorf("expected scenario-dependent values 0.01/0.02, got %g/%g", base, adverse)
	}
}

func TestResolve_DefaultFallback(t *testing.T) {
	table := driverTable(t)

	// SME has no row of its own; the SEGMENT default kicks in.
	v, err := table.Resolve("BASE", 1,
		map[string]string{"SEGMENT": "SME", "RATING": "AA"},
		map[string]string{"SEGMENT": "DEFAULT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.05 {
		t.Errorf("expected default-segment value 0.05, got %g", v)
	}
}

func TestResolve_LookupMiss(t *testing.T) {
	table := driverTable(t)

	_, err := table.Resolve("BASE", 2, map[string]string{"SEGMENT": "SME", "RATING": "AA"}, nil)
	if err == nil {
		t.Fatal("expected LookupMissError")
	}
	var miss *LookupMissError
	if !errors.As(err, &miss) {
		t.Fatalf("expected *LookupMissError, got %T", err)
	}
	if miss.TimeStep != 2 {
		t.Errorf("expected time step 2 in miss, got %d", miss.TimeStep)
	}
	if miss.Drivers["SEGMENT"] != "SME" {
		t.Errorf("expected missed combination to carry SEGMENT=SME, got %v", miss.Drivers)
	}
	if !strings.Contains(miss.Error(), "SEGMENT=SME") {
		t.Errorf("expected error text to list the missed drivers, got: %s", miss.Error())
	}
}

func TestResolve_StepBeyondHorizonReusesLast(t *testing.T) {
	table := driverTable(t)

	v, err := table.Resolve("BASE", 10, map[string]string{"SEGMENT": "CORP", "RATING": "AA"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.03 {
		t.Errorf("expected last-column value 0.03 for step 10, got %g", v)
	}
}

func TestResolveCurve_ReturnsCopy(t *testing.T) {
	table := driverTable(t)
	drivers := map[string]string{"SEGMENT": "CORP", "RATING": "AA"}

	curve, err := table.ResolveCurve("BASE", drivers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	curve[0] = 99

	again, err := table.ResolveCurve("BASE", drivers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[0] != 0.01 {
		t.Errorf("mutating a resolved curve leaked into the table: got %g", again[0])
	}
}

func TestResolveCurveInfo_ReportsDefaultedDrivers(t *testing.T) {
	table := driverTable(t)

	curve, defaulted, err := table.ResolveCurveInfo("BASE",
		map[string]string{"SEGMENT": "SME", "RATING": "AA"},
		map[string]string{"SEGMENT": "DEFAULT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if curve[0] != 0.05 {
		t.Errorf("expected default-segment curve, got %v", curve)
	}
	if len(defaulted) != 1 || defaulted[0] != "SEGMENT" {
		t.Errorf("expected SEGMENT reported as defaulted, got %v", defaulted)
	}

	// An exact match reports nothing.
	_, defaulted, err = table.ResolveCurveInfo("BASE",
		map[string]string{"SEGMENT": "CORP", "RATING": "AA"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defaulted) != 0 {
		t.Errorf("expected no defaulted drivers on exact match, got %v", defaulted)
	}
}

func TestResolveCurve_MissOmitsTimeStep(t *testing.T) {
	table := driverTable(t)

	_, err := table.ResolveCurve("BASE", map[string]string{"SEGMENT": "SME", "RATING": "AA"}, nil)
	var miss *LookupMissError
	if !errors.As(err, &miss) {
		t.Fatalf("expected *LookupMissError, got %v", err)
	}
	// A whole-curve miss has no single offending step.
	if strings.Contains(miss.Error(), "time step") {
		t.Errorf("expected no time step clause for a curve miss, got: %s", miss.Error())
	}
}

func TestValueAt(t *testing.T) {
	curve := []float64{0.1, 0.2, 0.3}
	if v := ValueAt(curve, 2); v != 0.2 {
		t.Errorf("expected 0.2, got %g", v)
	}
	if v := ValueAt(curve, 7); v != 0.3 {
		t.Errorf("expected clamp to 0.3, got %g", v)
	}
	if v := ValueAt(nil, 1); v != 0 {
		t.Errorf("expected 0 for empty curve, got %g", v)
	}
}

func TestLegacyResolve(t *testing.T) {
	table := driverTable(t)

	v, err := table.LegacyResolve("CORP", "ADVERSE", "AA", 3, "DEFAULT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.06 {
		t.Errorf("expected 0.06, got %g", v)
	}

	// Unknown segment falls back to the default segment.
	v, err = table.LegacyResolve("UNKNOWN", "BASE", "AA", 1, "DEFAULT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0.05 {
		t.Errorf("expected default-segment value 0.05, got %g", v)
	}
}

func TestLegacyResolve_MissingFixedColumn(t *testing.T) {
	table, err := NewTable("PD", []string{"SEGMENT", "SCENARIO", "TIME_STEP_1"}, [][]string{
		{"CORP", "BASE", "0.01"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = table.LegacyResolve("CORP", "BASE", "AA", 1, "")
	if err == nil {
		t.Fatal("expected error for missing RATING column")
	}
	var miss *LookupMissError
	if !errors.As(err, &miss) {
		t.Fatalf("expected *LookupMissError, got %T", err)
	}
}

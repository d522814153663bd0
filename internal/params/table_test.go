package params

import (
	"strings"
	"testing"
)

func TestNewTable_DriverColumnDetection(t *testing.T) {
	table, err := NewTable("PD", []string{"SEGMENT", "SCENARIO", "RATING", "TIME_STEP_1", "TIME_STEP_2"}, [][]string{
		{"CORP", "BASE", "AA", "0.01", "0.02"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drivers := table.DriverColumns()
	if len(drivers) != 3 {
		t.Fatalf("expected 3 driver columns, got %d: %v", len(drivers), drivers)
	}
	for i, want := range []string{"SEGMENT", "SCENARIO", "RATING"} {
		if drivers[i] != want {
			t.Errorf("driver column %d: expected %s, got %s", i, want, drivers[i])
		}
	}
	if table.TimeSteps() != 2 {
		t.Errorf("expected 2 time steps, got %d", table.TimeSteps())
	}
}

func TestNewTable_TimeStepNamingVariants(t *testing.T) {
	// Both time_step_1 and TIME_STEP1 spellings are reserved.
	table, err := NewTable("LGD", []string{"SEGMENT", "time_step_1", "TIME_STEP2"}, [][]string{
		{"RETAIL", "0.4", "0.45"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.DriverColumns()) != 1 {
		t.Errorf("expected only SEGMENT as driver, got %v", table.DriverColumns())
	}
	if table.TimeSteps() != 2 {
		t.Errorf("expected 2 time steps, got %d", table.TimeSteps())
	}
}

func TestNewTable_NonContiguousSteps(t *testing.T) {
	_, err := NewTable("PD", []string{"SEGMENT", "TIME_STEP_1", "TIME_STEP_3"}, [][]string{
		{"CORP", "0.01", "0.03"},
	})
	if err == nil {
		t.Fatal("expected error for non-contiguous time steps")
	}
	if !strings.Contains(err.Error(), "step 3") {
		t.Errorf("expected error to name the offending step, got: %v", err)
	}
}

func TestNewTable_NoTimeSteps(t *testing.T) {
	_, err := NewTable("PD", []string{"SEGMENT", "RATING"}, nil)
	if err == nil {
		t.Fatal("expected error for table without time step columns")
	}
}

func TestNewTable_NonNumericStepValue(t *testing.T) {
	_, err := NewTable("PD", []string{"SEGMENT", "TIME_STEP_1"}, [][]string{
		{"CORP", "not-a-number"},
	})
	if err == nil {
		t.Fatal("expected error for non-numeric step value")
	}
	if !strings.Contains(err.Error(), "row 1") {
		t.Errorf("expected error to mention the row, got: %v", err)
	}
}

func TestNewTable_DuplicateDriverCombination(t *testing.T) {
	_, err := NewTable("PD", []string{"SEGMENT", "TIME_STEP_1"}, [][]string{
		{"CORP", "0.01"},
		{"corp ", "0.02"}, // same combination after normalization
	})
	if err == nil {
		t.Fatal("expected error for duplicate driver combination")
	}
}

func TestNewTable_RaggedRecord(t *testing.T) {
	_, err := NewTable("PD", []string{"SEGMENT", "TIME_STEP_1"}, [][]string{
		{"CORP"},
	})
	if err == nil {
		t.Fatal("expected error for record with missing values")
	}
}

func TestUniqueValues(t *testing.T) {
	table, err := NewTable("PD", []string{"SEGMENT", "TIME_STEP_1"}, [][]string{
		{"CORP", "0.01"},
		{"SME", "0.02"},
		{"corp2", "0.03"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values := table.UniqueValues("SEGMENT")
	if len(values) != 3 {
		t.Fatalf("expected 3 unique segments, got %v", values)
	}
	if values[2] != "CORP2" {
		t.Errorf("expected normalized value CORP2, got %s", values[2])
	}
}

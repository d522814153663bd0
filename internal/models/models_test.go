package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate_Formats(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
	}{
		{"2025-06-30", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"30/06/2025", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"30-06-2025", time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"2025-06-30T12:30:00Z", time.Date(2025, 6, 30, 12, 30, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		got, err := ParseDate(tc.input)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.input, err)
			continue
		}
		if !got.Equal(tc.expected) {
			t.Errorf("%s: expected %s, got %s", tc.input, tc.expected, got)
		}
	}

	if _, err := ParseDate("June 30th 2025"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFlexibleDate_UnmarshalJSON(t *testing.T) {
	var payload struct {
		AsOf FlexibleDate `json:"as_of"`
	}
	if err := json.Unmarshal([]byte(`{"as_of":"31/12/2025"}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.AsOf.Year() != 2025 || payload.AsOf.Month() != time.December || payload.AsOf.Day() != 31 {
		t.Errorf("unexpected parsed date: %s", payload.AsOf.Format("2006-01-02"))
	}
}

func TestDriver_CaseInsensitive(t *testing.T) {
	e := ExposureRecord{Drivers: map[string]string{"SEGMENT": "CORP"}}
	if v, ok := e.Driver(" segment "); !ok || v != "CORP" {
		t.Errorf("expected driver lookup to normalize the name, got %q (%v)", v, ok)
	}
	if _, ok := e.Driver("RATING"); ok {
		t.Error("expected miss for absent driver")
	}
}

func TestECLCalculationResults_FinalizeAndFlatten(t *testing.T) {
	r := &ECLCalculationResults{
		Scenario: "BASE",
		Exposures: []ExposureResult{
			{
				ExposureID: "E1",
				Scenario:   "BASE",
				Steps: []StepResult{
					{TimeStep: 1, ECL: 4},
					{TimeStep: 2, ECL: 3},
				},
				TotalECL: 7,
			},
			{ExposureID: "E2", Scenario: "BASE", TotalECL: 0},
		},
		Failures: []ExposureFailure{
			{ExposureID: "E3", Scenario: "BASE", Stage: "validate", Reason: "missing maturity date"},
		},
	}
	r.Finalize()

	if r.Summary.TotalECL != 7 || r.Summary.ExposureCount != 2 || r.Summary.FailureCount != 1 {
		t.Errorf("unexpected summary: %+v", r.Summary)
	}

	rows := r.Flatten()
	if len(rows) != 2 {
		t.Fatalf("expected 2 flat rows, got %d", len(rows))
	}
	if rows[0].ExposureID != "E1" || rows[0].TimeStep != 1 || rows[0].ECL != 4 {
		t.Errorf("unexpected flat row: %+v", rows[0])
	}

	if got := r.Result("E1"); got == nil || got.TotalECL != 7 {
		t.Errorf("unexpected Result lookup: %+v", got)
	}
	if got := r.Result("E9"); got != nil {
		t.Errorf("expected nil for unknown exposure, got %+v", got)
	}
}

package models

import "time"

// StepResult is the audit-level breakdown of one time step of one exposure
// under one scenario. Regulatory review needs every factor, not just the total.
type StepResult struct {
	TimeStep int     `json:"time_step"`
	PD       float64 `json:"pd"`
	LGD      float64 `json:"lgd"`
	CCF      float64 `json:"ccf"`
	EAD      float64 `json:"ead"`
	Discount float64 `json:"discount"`
	ECL      float64 `json:"ecl"`
}

// ExposureResult holds the full per-step breakdown and total ECL for one
// exposure under one scenario.
type ExposureResult struct {
	ExposureID string       `json:"exposure_id"`
	Scenario   string       `json:"scenario"`
	Steps      []StepResult `json:"steps"`
	TotalECL   float64      `json:"total_ecl"`
}

// ExposureFailure records an exposure that could not be calculated. Failures
// are collected alongside successful results so one bad record does not abort
// a portfolio run.
type ExposureFailure struct {
	ExposureID string `json:"exposure_id"`
	Scenario   string `json:"scenario"`
	Stage      string `json:"stage"`
	Reason     string `json:"reason"`
}

// ResultSummary aggregates one scenario's results across the portfolio.
type ResultSummary struct {
	TotalECL      float64 `json:"total_ecl"`
	ExposureCount int     `json:"exposure_count"`
	FailureCount  int     `json:"failure_count"`
}

// ECLCalculationResults is the outcome of one scenario's calculation over a
// portfolio. It is produced by a calculator invocation and owned by the caller.
type ECLCalculationResults struct {
	Scenario  string           `json:"scenario"`
	Exposures []ExposureResult `json:"exposures"`
	Failures  []ExposureFailure `json:"failures"`
	Summary   ResultSummary    `json:"summary"`
	Warnings  []Warning        `json:"warnings,omitempty"`
}

// Finalize recomputes the summary from the collected exposures and failures.
func (r *ECLCalculationResults) Finalize() {
	var total float64
	for _, e := range r.Exposures {
		total += e.TotalECL
	}
	r.Summary = ResultSummary{
		TotalECL:      total,
		ExposureCount: len(r.Exposures),
		FailureCount:  len(r.Failures),
	}
}

// Result looks up the result for one exposure ID. Returns nil when the
// exposure failed or was not part of the run.
func (r *ECLCalculationResults) Result(exposureID string) *ExposureResult {
	for i := range r.Exposures {
		if r.Exposures[i].ExposureID == exposureID {
			return &r.Exposures[i]
		}
	}
	return nil
}

// FlatRow is one record of the tidy export shape: exposure, scenario and time
// step fully denormalized so downstream tabular export needs no further joins.
type FlatRow struct {
	ExposureID string  `json:"exposure_id"`
	Scenario   string  `json:"scenario"`
	TimeStep   int     `json:"time_step"`
	PD         float64 `json:"pd"`
	LGD        float64 `json:"lgd"`
	CCF        float64 `json:"ccf"`
	EAD        float64 `json:"ead"`
	Discount   float64 `json:"discount"`
	ECL        float64 `json:"ecl"`
}

// Flatten converts the per-exposure breakdowns into tidy flat rows.
func (r *ECLCalculationResults) Flatten() []FlatRow {
	var rows []FlatRow
	for _, e := range r.Exposures {
		for _, s := range e.Steps {
			rows = append(rows, FlatRow{
				ExposureID: e.ExposureID,
				Scenario:   e.Scenario,
				TimeStep:   s.TimeStep,
				PD:         s.PD,
				LGD:        s.LGD,
				CCF:        s.CCF,
				EAD:        s.EAD,
				Discount:   s.Discount,
				ECL:        s.ECL,
			})
		}
	}
	return rows
}

// CalculationRun is the persisted record of one engine invocation.
type CalculationRun struct {
	ID            int64     `json:"id"`
	AsOfDate      time.Time `json:"as_of_date"`
	Status        string    `json:"status"`
	ExposureCount int       `json:"exposure_count"`
	ScenarioCount int       `json:"scenario_count"`
	TotalECL      float64   `json:"total_ecl"`
	CreatedAt     time.Time `json:"created_at"`
}

// Run status values stored with a CalculationRun.
const (
	RunStatusCompleted = "completed"
	RunStatusPartial   = "partial"
	RunStatusFailed    = "failed"
)

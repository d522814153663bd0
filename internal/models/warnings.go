package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = parameter templates, W2xxx = exposure data, W3xxx = calculation.
type WarningCode string

const (
	WarnParameterOutOfRange WarningCode = "W1001" // template value outside its expected domain
	WarnCurveClamped        WarningCode = "W1002" // horizon exceeds template columns, last value reused
	WarnDriverDefaulted     WarningCode = "W1003" // lookup fell back to a default driver value
	WarnExposureSkipped     WarningCode = "W2001" // exposure dropped before calculation
)

// Warning represents a non-fatal issue encountered during a calculation.
// Warnings are carried into the run results so the final numbers stay auditable.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

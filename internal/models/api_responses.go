package models

// CalculationRequest represents the request body for running an ECL calculation.
// Exposures and parameter tables are supplied already parsed (JSON body) or by
// referencing previously uploaded CSV payloads; the engine never sniffs formats.
type CalculationRequest struct {
	AsOfDate       FlexibleDate         `json:"as_of_date" binding:"required"`
	StepMonths     int                  `json:"step_months"`
	Scenarios      []ScenarioDefinition `json:"scenarios" binding:"required"`
	Weights        ScenarioWeights      `json:"weights"`
	Exposures      []ExposureRecord     `json:"exposures"`
	Templates      []TemplatePayload    `json:"templates"`
	Discount       map[int]float64      `json:"discount_curve"`
	DriverDefaults map[string]string    `json:"driver_defaults"`
	// Strict is a tri-state override: unset defers to the server default.
	Strict *bool `json:"strict_validation"`
}

// TemplatePayload carries one risk-parameter table inline with a calculation
// request, as a header row plus data rows in the column order of the source
// template.
type TemplatePayload struct {
	ExposureClass ExposureClass `json:"exposure_class" binding:"required"`
	CreditStatus  CreditStatus  `json:"credit_status" binding:"required"`
	Kind          string        `json:"kind" binding:"required"`
	Columns       []string      `json:"columns" binding:"required"`
	Rows          [][]string    `json:"rows" binding:"required"`
}

// CalculationResponse returns per-scenario results plus the optional weighted
// aggregate when weights were supplied with the request.
type CalculationResponse struct {
	RunID      int64                             `json:"run_id,omitempty"`
	ByScenario map[string]*ECLCalculationResults `json:"by_scenario"`
	Weighted   *ECLCalculationResults            `json:"weighted,omitempty"`
	Warnings   []Warning                         `json:"warnings,omitempty"`
}

// VariantInfo describes one registered calculator combination.
type VariantInfo struct {
	ExposureClass ExposureClass `json:"exposure_class"`
	CreditStatus  CreditStatus  `json:"credit_status"`
	Implemented   bool          `json:"implemented"`
}

// ErrorResponse is the standard error response body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

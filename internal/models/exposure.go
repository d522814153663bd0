package models

import (
	"fmt"
	"strings"
	"time"
)

// ExposureClass distinguishes retail from non-retail credit exposures.
type ExposureClass string

const (
	ClassRetail    ExposureClass = "RETAIL"
	ClassNonRetail ExposureClass = "NON_RETAIL"
)

// CreditStatus is the IFRS9 staging bucket of an exposure.
// Performing covers stages 1 and 2, Defaulted is stage 3.
type CreditStatus string

const (
	StatusPerforming CreditStatus = "PERFORMING"
	StatusDefaulted  CreditStatus = "DEFAULTED"
)

// ParseExposureClass parses a class label from ingested data.
func ParseExposureClass(s string) (ExposureClass, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RETAIL":
		return ClassRetail, nil
	case "NON_RETAIL", "NON RETAIL", "NONRETAIL":
		return ClassNonRetail, nil
	}
	return "", fmt.Errorf("unknown exposure class %q", s)
}

// ParseCreditStatus parses a status label from ingested data.
// Stage labels from legacy templates (S1+S2, S3) are accepted.
func ParseCreditStatus(s string) (CreditStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERFORMING", "S1+S2", "S1S2":
		return StatusPerforming, nil
	case "DEFAULTED", "S3":
		return StatusDefaulted, nil
	}
	return "", fmt.Errorf("unknown credit status %q", s)
}

// AmortizationProfile selects the contractual repayment shape of an exposure.
type AmortizationProfile string

const (
	ProfileStraightLine AmortizationProfile = "STRAIGHT_LINE"
	ProfileBullet       AmortizationProfile = "BULLET"
	ProfileAnnuity      AmortizationProfile = "ANNUITY"
	ProfileRevolving    AmortizationProfile = "REVOLVING"
)

// ExposureRecord is one row of the input portfolio: a single credit contract.
// Records are created by ingestion and treated as read-only by the engine.
type ExposureRecord struct {
	ID              string              `json:"exposure_id"`
	Class           ExposureClass       `json:"exposure_class"`
	Status          CreditStatus        `json:"credit_status"`
	Balance         float64             `json:"balance"`
	Undrawn         float64             `json:"undrawn"`
	Rate            float64             `json:"rate"`
	Currency        string              `json:"currency"`
	OriginationDate time.Time           `json:"origination_date"`
	MaturityDate    time.Time           `json:"maturity_date"`
	Profile         AmortizationProfile `json:"amortization_profile"`
	Drivers         map[string]string   `json:"drivers"`
}

// Driver returns the exposure's value for a driver column, normalized the same
// way template driver values are (trimmed, upper-cased). The second return is
// false when the exposure carries no value for that driver.
func (e *ExposureRecord) Driver(name string) (string, bool) {
	v, ok := e.Drivers[strings.ToUpper(strings.TrimSpace(name))]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ScenarioDefinition names one macroeconomic path used as a lookup key into the
// parameter tables.
type ScenarioDefinition struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// ScenarioWeights maps scenario name to its probability weight. The set used
// for one weighting exercise must sum to 1.0 within WeightTolerance.
type ScenarioWeights map[string]float64

// WeightTolerance is the accepted deviation of a weight sum from 1.0.
const WeightTolerance = 1e-6

package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/epeers/eclengine/internal/models"
)

// exposure CSV columns handled explicitly; any other column becomes a driver.
var exposureColumns = map[string]bool{
	"exposure_id":      true,
	"exposure_class":   true,
	"credit_status":    true,
	"balance":          true,
	"undrawn":          true,
	"rate":             true,
	"currency":         true,
	"origination_date": true,
	"maturity_date":    true,
	"amortization":     true,
}

// ParseExposuresCSV parses an exposure extract into ExposureRecords.
// Required columns: exposure_id, exposure_class, credit_status, balance,
// maturity_date. Optional: undrawn, rate, currency, origination_date,
// amortization. Every remaining column is treated as a driver and keyed by its
// upper-cased name. Rows with an empty exposure_id are skipped.
func ParseExposuresCSV(r io.Reader) ([]models.ExposureRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int)
	var driverCols []string
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		colIdx[name] = i
		if !exposureColumns[name] {
			driverCols = append(driverCols, strings.TrimSpace(col))
		}
	}

	for _, col := range []string{"exposure_id", "exposure_class", "credit_status", "balance", "maturity_date"} {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := colIdx[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var exposures []models.ExposureRecord
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to read CSV record: %w", rowNum+1, err)
		}
		rowNum++

		id := field(record, "exposure_id")
		if id == "" {
			continue
		}

		class, err := models.ParseExposureClass(field(record, "exposure_class"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		status, err := models.ParseCreditStatus(field(record, "credit_status"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		balance, err := strconv.ParseFloat(field(record, "balance"), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid balance %q", rowNum, field(record, "balance"))
		}

		maturity, err := models.ParseDate(field(record, "maturity_date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		e := models.ExposureRecord{
			ID:           id,
			Class:        class,
			Status:       status,
			Balance:      balance,
			Currency:     field(record, "currency"),
			MaturityDate: maturity,
			Drivers:      make(map[string]string, len(driverCols)),
		}

		if v := field(record, "undrawn"); v != "" {
			if e.Undrawn, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("row %d: invalid undrawn %q", rowNum, v)
			}
		}
		if v := field(record, "rate"); v != "" {
			if e.Rate, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("row %d: invalid rate %q", rowNum, v)
			}
		}
		if v := field(record, "origination_date"); v != "" {
			if e.OriginationDate, err = models.ParseDate(v); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}
		if v := field(record, "amortization"); v != "" {
			e.Profile = models.AmortizationProfile(strings.ToUpper(v))
		}

		for _, col := range driverCols {
			if v := field(record, strings.ToLower(col)); v != "" {
				e.Drivers[strings.ToUpper(col)] = v
			}
		}

		exposures = append(exposures, e)
	}

	return exposures, nil
}

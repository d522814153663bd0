package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/epeers/eclengine/internal/models"
)

// flatHeader is the tidy export schema: one record per exposure, scenario and
// time step, no joins needed downstream.
var flatHeader = []string{
	"exposure_id", "scenario", "time_step",
	"pd", "lgd", "ccf", "ead", "discount", "ecl",
}

// WriteCSV serializes flat result rows as CSV.
func WriteCSV(w io.Writer, rows []models.FlatRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(flatHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.ExposureID,
			row.Scenario,
			strconv.Itoa(row.TimeStep),
			formatFloat(row.PD),
			formatFloat(row.LGD),
			formatFloat(row.CCF),
			formatFloat(row.EAD),
			formatFloat(row.Discount),
			formatFloat(row.ECL),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFloat uses the shortest representation that round-trips, so exported
// numbers reload bit-identically.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

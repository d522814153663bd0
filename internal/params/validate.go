package params

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/epeers/eclengine/internal/models"
)

// Kind identifies which risk parameter a table carries. PD, LGD and CCF all
// live in [0,1].
type Kind string

const (
	KindPD  Kind = "PD"
	KindLGD Kind = "LGD"
	KindCCF Kind = "CCF"
)

// ValidateTable checks every time-step value against the parameter kind's
// value domain. Out-of-range values are returned as RangeWarnings and logged;
// in strict mode the first violation is instead a fatal *InvalidParameterError.
func ValidateTable(t *Table, kind Kind, strict bool) ([]models.Warning, error) {
	var warnings []models.Warning

	for rowNum, row := range t.rows {
		for stepIdx, v := range row.steps {
			if v >= 0 && v <= 1 {
				continue
			}
			col := fmt.Sprintf("TIME_STEP_%d", stepIdx+1)
			if strict {
				return nil, &InvalidParameterError{
					Table:  t.Name,
					Column: col,
					Row:    rowNum + 1,
					Value:  v,
				}
			}
			msg := fmt.Sprintf("%s value %g in table %s row %d column %s outside [0,1]",
				kind, v, t.Name, rowNum+1, col)
			log.Warnf("range warning: %s", msg)
			warnings = append(warnings, models.Warning{
				Code:    models.WarnParameterOutOfRange,
				Message: msg,
			})
		}
	}

	return warnings, nil
}

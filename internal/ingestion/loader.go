package ingestion

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	log "github.com/sirupsen/logrus"

	"github.com/epeers/eclengine/internal/models"
	"github.com/epeers/eclengine/internal/params"
)

// LoadTable reads one parameter template from CSV into a lookup table. The
// dataframe keeps the column order of the file, which ParameterLookup relies
// on for driver ordering.
func LoadTable(name string, r io.Reader) (*params.Table, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true))
	if df.Err != nil {
		return nil, fmt.Errorf("template %s: %w", name, df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("template %s has no data rows", name)
	}

	records := df.Records()
	table, err := params.NewTable(name, records[0], records[1:])
	if err != nil {
		return nil, err
	}
	log.Infof("loaded template %s: %d rows, %d drivers, %d time steps",
		name, table.Rows(), len(table.DriverColumns()), table.TimeSteps())
	return table, nil
}

// TemplateFiles names the CSV payloads making up one combination's template set.
type TemplateFiles struct {
	PD  io.Reader
	LGD io.Reader
	CCF io.Reader // optional; nil when the combination has no undrawn facilities
}

// LoadTemplateSet reads the PD/LGD/CCF tables for one combination. PD and LGD
// are required; CCF is optional.
func LoadTemplateSet(class models.ExposureClass, status models.CreditStatus, files TemplateFiles) (params.TemplateSet, error) {
	var set params.TemplateSet
	prefix := fmt.Sprintf("%s_%s", class, status)

	if files.PD == nil {
		return set, fmt.Errorf("%s: PD template is required", prefix)
	}
	pd, err := LoadTable(prefix+"_PD", files.PD)
	if err != nil {
		return set, err
	}
	set.PD = pd

	if files.LGD == nil {
		return set, fmt.Errorf("%s: LGD template is required", prefix)
	}
	lgd, err := LoadTable(prefix+"_LGD", files.LGD)
	if err != nil {
		return set, err
	}
	set.LGD = lgd

	if files.CCF != nil {
		ccf, err := LoadTable(prefix+"_CCF", files.CCF)
		if err != nil {
			return set, err
		}
		set.CCF = ccf
	}

	return set, nil
}

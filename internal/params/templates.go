package params

import (
	"fmt"

	"github.com/epeers/eclengine/internal/models"
)

// TableKey addresses the template set for one calculator combination.
type TableKey struct {
	Class  models.ExposureClass
	Status models.CreditStatus
}

// TemplateSet bundles the risk-parameter tables one variant needs. Tables may
// be nil when the variant does not use that parameter (e.g. no CCF table for
// instruments without an undrawn component).
type TemplateSet struct {
	PD  *Table
	LGD *Table
	CCF *Table
}

// TemplateLibrary holds loaded template sets per (exposure class, status).
type TemplateLibrary map[TableKey]TemplateSet

// Set returns the template set for a combination.
func (l TemplateLibrary) Set(class models.ExposureClass, status models.CreditStatus) (TemplateSet, error) {
	set, ok := l[TableKey{Class: class, Status: status}]
	if !ok {
		return TemplateSet{}, fmt.Errorf("no parameter templates loaded for %s/%s", class, status)
	}
	return set, nil
}

// Validate runs load-time range validation over every table in the library.
// Collected RangeWarnings are returned; in strict mode the first out-of-range
// value aborts with *InvalidParameterError.
func (l TemplateLibrary) Validate(strict bool) ([]models.Warning, error) {
	var warnings []models.Warning
	for key, set := range l {
		for _, tv := range []struct {
			table *Table
			kind  Kind
		}{
			{set.PD, KindPD},
			{set.LGD, KindLGD},
			{set.CCF, KindCCF},
		} {
			if tv.table == nil {
				continue
			}
			w, err := ValidateTable(tv.table, tv.kind, strict)
			if err != nil {
				return nil, fmt.Errorf("validating %s templates for %s/%s: %w", tv.kind, key.Class, key.Status, err)
			}
			warnings = append(warnings, w...)
		}
	}
	return warnings, nil
}

package calculators

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/epeers/eclengine/internal/amortization"
	"github.com/epeers/eclengine/internal/models"
	"github.com/epeers/eclengine/internal/params"
)

func mustTable(t *testing.T, name string, columns []string, records [][]string) *params.Table {
	t.Helper()
	table, err := params.NewTable(name, columns, records)
	if err != nil {
		t.Fatalf("failed to build table %s: %v", name, err)
	}
	return table
}

// nonRetailTemplates covers four quarterly steps under BASE and ADVERSE.
func nonRetailTemplates(t *testing.T) params.TemplateLibrary {
	t.Helper()
	cols := []string{"SEGMENT", "SCENARIO", "RATING", "TIME_STEP_1", "TIME_STEP_2", "TIME_STEP_3", "TIME_STEP_4"}
	return params.TemplateLibrary{
		params.TableKey{Class: models.ClassNonRetail, Status: models.StatusPerforming}: params.TemplateSet{
			PD: mustTable(t, "NR_PD", cols, [][]string{
				{"CORP", "BASE", "AA", "0.01", "0.01", "0.01", "0.01"},
				{"CORP", "ADVERSE", "AA", "0.02", "0.02", "0.02", "0.02"},
			}),
			LGD: mustTable(t, "NR_LGD", cols, [][]string{
				{"CORP", "BASE", "AA", "0.4", "0.4", "0.4", "0.4"},
				{"CORP", "ADVERSE", "AA", "0.5", "0.5", "0.5", "0.5"},
			}),
			CCF: mustTable(t, "NR_CCF", cols, [][]string{
				{"CORP", "BASE", "AA", "0.5", "0.5", "0.5", "0.5"},
				{"CORP", "ADVERSE", "AA", "0.5", "0.5", "0.5", "0.5"},
			}),
		},
	}
}

func retailDefaultedTemplates(t *testing.T) params.TemplateLibrary {
	t.Helper()
	cols := []string{"SEGMENT", "SCENARIO", "TIME_STEP_1", "TIME_STEP_2"}
	return params.TemplateLibrary{
		params.TableKey{Class: models.ClassRetail, Status: models.StatusDefaulted}: params.TemplateSet{
			LGD: mustTable(t, "RD_LGD", cols, [][]string{
				{"MORTGAGE", "BASE", "0.45", "0.45"},
			}),
		},
	}
}

func asOf() models.FlexibleDate {
	return models.FlexibleDate{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func nonRetailExposure() models.ExposureRecord {
	return models.ExposureRecord{
		ID:           "NR1",
		Class:        models.ClassNonRetail,
		Status:       models.StatusPerforming,
		Balance:      1000,
		MaturityDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Drivers:      map[string]string{"SEGMENT": "CORP", "RATING": "AA"},
	}
}

func newTestInputs(t *testing.T, exposures []models.ExposureRecord, templates params.TemplateLibrary) *ECLCalculationInputs {
	t.Helper()
	in, err := NewInputs(asOf(), 3, exposures,
		[]models.ScenarioDefinition{{Name: "BASE"}}, templates, nil, nil)
	if err != nil {
		t.Fatalf("failed to build inputs: %v", err)
	}
	return in
}

func TestCalculateScenario_NonRetailPerforming(t *testing.T) {
	in := newTestInputs(t, []models.ExposureRecord{nonRetailExposure()}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", res.Failures)
	}
	if len(res.Exposures) != 1 {
		t.Fatalf("expected 1 exposure result, got %d", len(res.Exposures))
	}

	er := res.Exposures[0]
	if len(er.Steps) != 4 {
		t.Fatalf("expected 4 time steps, got %d", len(er.Steps))
	}

	// Straight-line EAD 1000, 750, 500, 250 with PD 0.01, LGD 0.4, no
	// undrawn and no discounting: ECL per step is 4, 3, 2, 1.
	expected := []float64{4, 3, 2, 1}
	for i, want := range expected {
		if math.Abs(er.Steps[i].ECL-want) > 1e-9 {
			t.Errorf("step %d: expected ECL %g, got %g", i+1, want, er.Steps[i].ECL)
		}
	}
	if math.Abs(er.TotalECL-10) > 1e-9 {
		t.Errorf("expected total ECL 10, got %g", er.TotalECL)
	}
	if math.Abs(res.Summary.TotalECL-10) > 1e-9 {
		t.Errorf("expected summary total 10, got %g", res.Summary.TotalECL)
	}
}

func TestCalculateScenario_ScenarioChangesParameters(t *testing.T) {
	in := newTestInputs(t, []models.ExposureRecord{nonRetailExposure()}, nonRetailTemplates(t))
	calc := NewNonRetailPerforming()

	base, err := calc.CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adverse, err := calc.CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "ADVERSE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// PD doubles and LGD rises 0.4 to 0.5, so adverse ECL is 2.5x base.
	want := base.Summary.TotalECL * 2.5
	if math.Abs(adverse.Summary.TotalECL-want) > 1e-9 {
		t.Errorf("expected adverse total %g, got %g", want, adverse.Summary.TotalECL)
	}
}

func TestCalculateScenario_UndrawnEntersThroughCCF(t *testing.T) {
	e := nonRetailExposure()
	e.Undrawn = 200
	in := newTestInputs(t, []models.ExposureRecord{e}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exposures) != 1 {
		t.Fatalf("expected 1 result, got %d failures %+v", len(res.Exposures), res.Failures)
	}

	// Each step gains PD*LGD*CCF*Undrawn = 0.01*0.4*0.5*200 = 0.4.
	step1 := res.Exposures[0].Steps[0]
	if math.Abs(step1.ECL-4.4) > 1e-9 {
		t.Errorf("expected step 1 ECL 4.4, got %g", step1.ECL)
	}
	if step1.CCF != 0.5 {
		t.Errorf("expected CCF 0.5 in breakdown, got %g", step1.CCF)
	}
}

func TestCalculateScenario_NoUndrawnMeansZeroCCF(t *testing.T) {
	in := newTestInputs(t, []models.ExposureRecord{nonRetailExposure()}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range res.Exposures[0].Steps {
		if s.CCF != 0 {
			t.Errorf("step %d: expected zero CCF without undrawn amount, got %g", s.TimeStep, s.CCF)
		}
	}
}

func TestCalculateScenario_RetailDefaultedPDIsOne(t *testing.T) {
	e := models.ExposureRecord{
		ID:           "RD1",
		Class:        models.ClassRetail,
		Status:       models.StatusDefaulted,
		Balance:      500,
		MaturityDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Drivers:      map[string]string{"SEGMENT": "MORTGAGE"},
	}
	in := newTestInputs(t, []models.ExposureRecord{e}, retailDefaultedTemplates(t))

	res, err := NewRetailDefaulted().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exposures) != 1 {
		t.Fatalf("expected 1 result, got failures %+v", res.Failures)
	}

	er := res.Exposures[0]
	if len(er.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(er.Steps))
	}
	for _, s := range er.Steps {
		if s.PD != 1.0 {
			t.Errorf("step %d: expected PD 1.0 for defaulted exposure, got %g", s.TimeStep, s.PD)
		}
		if s.EAD != 500 {
			t.Errorf("step %d: expected work-out balance 500, got %g", s.TimeStep, s.EAD)
		}
	}
	// 1.0 * 0.45 * 500 per step over two steps.
	if math.Abs(er.TotalECL-450) > 1e-9 {
		t.Errorf("expected total ECL 450, got %g", er.TotalECL)
	}
}

func TestCalculateScenario_ValidationFailureIsPerExposure(t *testing.T) {
	bad := nonRetailExposure()
	bad.ID = "NR_BAD"
	bad.Drivers = map[string]string{"RATING": "AA"} // SEGMENT missing
	good := nonRetailExposure()

	in := newTestInputs(t, []models.ExposureRecord{bad, good}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exposures) != 1 || res.Exposures[0].ExposureID != "NR1" {
		t.Errorf("expected only the valid exposure to calculate, got %+v", res.Exposures)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(res.Failures))
	}
	f := res.Failures[0]
	if f.ExposureID != "NR_BAD" || f.Stage != StageValidate {
		t.Errorf("unexpected failure record: %+v", f)
	}
}

func TestCalculateScenario_LookupMissIsPerExposure(t *testing.T) {
	miss := nonRetailExposure()
	miss.ID = "NR_MISS"
	miss.Drivers = map[string]string{"SEGMENT": "SHIPPING", "RATING": "AA"}

	in := newTestInputs(t, []models.ExposureRecord{miss}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %+v", res.Failures)
	}
	if res.Failures[0].Stage != StagePD {
		t.Errorf("expected failure at PD stage, got %s", res.Failures[0].Stage)
	}
}

func TestCalculateScenario_MaturesWithinCurrentStep(t *testing.T) {
	e := nonRetailExposure()
	e.MaturityDate = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	in := newTestInputs(t, []models.ExposureRecord{e}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exposures) != 1 {
		t.Fatalf("expected 1 result, got failures %+v", res.Failures)
	}
	er := res.Exposures[0]
	if len(er.Steps) != 0 || er.TotalECL != 0 {
		t.Errorf("expected empty schedule and zero ECL, got %+v", er)
	}
}

func TestCalculateScenario_CurveClampWarning(t *testing.T) {
	// Templates cover two steps but the exposure needs four.
	cols := []string{"SEGMENT", "SCENARIO", "RATING", "TIME_STEP_1", "TIME_STEP_2"}
	templates := params.TemplateLibrary{
		params.TableKey{Class: models.ClassNonRetail, Status: models.StatusPerforming}: params.TemplateSet{
			PD: mustTable(t, "NR_PD", cols, [][]string{
				{"CORP", "BASE", "AA", "0.01", "0.02"},
			}),
			LGD: mustTable(t, "NR_LGD", cols, [][]string{
				{"CORP", "BASE", "AA", "0.4", "0.4"},
			}),
		},
	}
	in := newTestInputs(t, []models.ExposureRecord{nonRetailExposure()}, templates)

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exposures) != 1 {
		t.Fatalf("expected 1 result, got failures %+v", res.Failures)
	}

	er := res.Exposures[0]
	for _, step := range er.Steps[2:] {
		if step.PD != 0.02 {
			t.Errorf("step %d: expected clamped PD 0.02, got %g", step.TimeStep, step.PD)
		}
	}

	clamped := 0
	for _, w := range res.Warnings {
		if w.Code == models.WarnCurveClamped {
			clamped++
		}
	}
	// PD and LGD both clamp; the zero-filled CCF curve matches the horizon.
	if clamped != 2 {
		t.Errorf("expected 2 curve-clamp warnings, got %d (%+v)", clamped, res.Warnings)
	}
}

func TestCalculateScenario_DriverDefaultWarning(t *testing.T) {
	// SME has no template rows of its own; resolution falls back to the
	// CORP default for both PD and LGD.
	e := nonRetailExposure()
	e.Drivers = map[string]string{"SEGMENT": "SME", "RATING": "AA"}

	in, err := NewInputs(asOf(), 3, []models.ExposureRecord{e},
		[]models.ScenarioDefinition{{Name: "BASE"}}, nonRetailTemplates(t),
		nil, map[string]string{"SEGMENT": "CORP"})
	if err != nil {
		t.Fatalf("failed to build inputs: %v", err)
	}

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exposures) != 1 {
		t.Fatalf("expected 1 result, got failures %+v", res.Failures)
	}
	if math.Abs(res.Exposures[0].TotalECL-10) > 1e-9 {
		t.Errorf("expected default-segment total 10, got %g", res.Exposures[0].TotalECL)
	}

	defaulted := 0
	for _, w := range res.Warnings {
		if w.Code == models.WarnDriverDefaulted {
			defaulted++
			if !strings.Contains(w.Message, "SEGMENT") {
				t.Errorf("expected warning to name the defaulted driver, got: %s", w.Message)
			}
		}
	}
	// One warning per table resolved through the fallback, PD and LGD.
	if defaulted != 2 {
		t.Errorf("expected 2 driver-default warnings, got %d (%+v)", defaulted, res.Warnings)
	}
}

func TestCalculateScenario_ValidationSkipWarning(t *testing.T) {
	bad := nonRetailExposure()
	bad.ID = "NR2"
	bad.Drivers = map[string]string{"SEGMENT": "CORP"} // RATING missing

	in := newTestInputs(t, []models.ExposureRecord{nonRetailExposure(), bad}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].ExposureID != "NR2" {
		t.Fatalf("expected NR2 validation failure, got %+v", res.Failures)
	}

	skipped := 0
	for _, w := range res.Warnings {
		if w.Code == models.WarnExposureSkipped {
			skipped++
			if !strings.Contains(w.Message, "NR2") {
				t.Errorf("expected warning to name the skipped exposure, got: %s", w.Message)
			}
		}
	}
	if skipped != 1 {
		t.Errorf("expected 1 exposure-skipped warning, got %d (%+v)", skipped, res.Warnings)
	}
}

func TestCalculateScenario_DiscountCurve(t *testing.T) {
	in, err := NewInputs(asOf(), 3, []models.ExposureRecord{nonRetailExposure()},
		[]models.ScenarioDefinition{{Name: "BASE"}}, nonRetailTemplates(t),
		amortization.DiscountCurve{1: 0.99, 2: 0.98, 3: 0.97, 4: 0.96}, nil)
	if err != nil {
		t.Fatalf("failed to build inputs: %v", err)
	}

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	er := res.Exposures[0]
	want := 4*0.99 + 3*0.98 + 2*0.97 + 1*0.96
	if math.Abs(er.TotalECL-want) > 1e-9 {
		t.Errorf("expected discounted total %g, got %g", want, er.TotalECL)
	}
}

func TestCalculateScenario_IncompleteDiscountCurveFails(t *testing.T) {
	in, err := NewInputs(asOf(), 3, []models.ExposureRecord{nonRetailExposure()},
		[]models.ScenarioDefinition{{Name: "BASE"}}, nonRetailTemplates(t),
		amortization.DiscountCurve{1: 0.99}, nil)
	if err != nil {
		t.Fatalf("failed to build inputs: %v", err)
	}

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Failures) != 1 || res.Failures[0].Stage != StageCombine {
		t.Errorf("expected combine-stage failure for truncated discount curve, got %+v", res.Failures)
	}
}

func TestCalculateScenario_NotImplemented(t *testing.T) {
	in := newTestInputs(t, []models.ExposureRecord{nonRetailExposure()}, nonRetailTemplates(t))

	calc := NewUnimplemented(models.ClassNonRetail, models.StatusDefaulted)
	_, err := calc.CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestCalculateScenario_IgnoresOtherCombinations(t *testing.T) {
	retail := models.ExposureRecord{
		ID:           "R1",
		Class:        models.ClassRetail,
		Status:       models.StatusPerforming,
		Balance:      100,
		MaturityDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Drivers:      map[string]string{"SEGMENT": "MORTGAGE"},
	}
	in := newTestInputs(t, []models.ExposureRecord{nonRetailExposure(), retail}, nonRetailTemplates(t))

	res, err := NewNonRetailPerforming().CalculateScenario(context.Background(), in, models.ScenarioDefinition{Name: "BASE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exposures) != 1 || res.Exposures[0].ExposureID != "NR1" {
		t.Errorf("expected the retail exposure to be skipped, got %+v", res.Exposures)
	}
	if len(res.Failures) != 0 {
		t.Errorf("out-of-scope exposures must not produce failures, got %+v", res.Failures)
	}
}

func TestNewInputs_Validation(t *testing.T) {
	templates := nonRetailTemplates(t)
	scenarios := []models.ScenarioDefinition{{Name: "BASE"}}
	exposures := []models.ExposureRecord{nonRetailExposure()}

	if _, err := NewInputs(models.FlexibleDate{}, 3, exposures, scenarios, templates, nil, nil); err == nil {
		t.Error("expected error for missing as-of date")
	}
	if _, err := NewInputs(asOf(), 3, nil, scenarios, templates, nil, nil); err == nil {
		t.Error("expected error for empty portfolio")
	}
	if _, err := NewInputs(asOf(), 3, exposures, nil, templates, nil, nil); err == nil {
		t.Error("expected error for no scenarios")
	}
	if _, err := NewInputs(asOf(), 3, exposures, scenarios, nil, nil, nil); err == nil {
		t.Error("expected error for missing templates")
	}
	if _, err := NewInputs(asOf(), -1, exposures, scenarios, templates, nil, nil); err == nil {
		t.Error("expected error for negative step length")
	}

	in, err := NewInputs(asOf(), 0, exposures, scenarios, templates, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.StepMonths != amortization.DefaultStepMonths {
		t.Errorf("expected default step length %d, got %d", amortization.DefaultStepMonths, in.StepMonths)
	}
}

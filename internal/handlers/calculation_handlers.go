package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/epeers/eclengine/internal/amortization"
	"github.com/epeers/eclengine/internal/calculators"
	"github.com/epeers/eclengine/internal/ingestion"
	"github.com/epeers/eclengine/internal/models"
	"github.com/epeers/eclengine/internal/params"
	"github.com/epeers/eclengine/internal/repository"
	"github.com/epeers/eclengine/internal/services"
)

// Defaults holds server-side calculation settings applied when a request
// leaves the corresponding field unset.
type Defaults struct {
	StepMonths int
	Strict     bool
}

// CalculationHandler handles ECL calculation endpoints
type CalculationHandler struct {
	calcSvc    *services.CalculationService
	aggSvc     *services.AggregationService
	runRepo    *repository.RunRepository
	resultRepo *repository.ResultRepository
	defaults   Defaults
}

// NewCalculationHandler creates a new CalculationHandler
func NewCalculationHandler(
	calcSvc *services.CalculationService,
	aggSvc *services.AggregationService,
	runRepo *repository.RunRepository,
	resultRepo *repository.ResultRepository,
	defaults Defaults,
) *CalculationHandler {
	return &CalculationHandler{
		calcSvc:    calcSvc,
		aggSvc:     aggSvc,
		runRepo:    runRepo,
		resultRepo: resultRepo,
		defaults:   defaults,
	}
}

// Run handles POST /calculations
// @Summary Run an ECL calculation
// @Description Calculate expected credit losses for a portfolio across macroeconomic scenarios, with an optional probability-weighted aggregate
// @Tags calculations
// @Accept json
// @Produce json
// @Param request body models.CalculationRequest true "Calculation inputs"
// @Success 200 {object} models.CalculationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /calculations [post]
func (h *CalculationHandler) Run(c *gin.Context) {
	var req models.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	templates, err := buildTemplates(req.Templates)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	h.execute(c, &req, templates)
}

// RunCSV handles POST /calculations/csv
// @Summary Run an ECL calculation from CSV uploads
// @Description Accepts an exposure extract plus PD/LGD/CCF template files as multipart form data and runs the calculation
// @Tags calculations
// @Accept multipart/form-data
// @Produce json
// @Param exposures formData file true "Exposure extract CSV"
// @Param as_of_date formData string true "Reporting date (YYYY-MM-DD)"
// @Param scenarios formData string true "Comma-separated scenario names"
// @Param weights formData string false "Scenario weights as JSON, e.g. {\"BASE\":0.6,\"ADVERSE\":0.4}"
// @Param step_months formData int false "Months per time step (default 3)"
// @Param strict formData bool false "Abort on out-of-range parameter values"
// @Success 200 {object} models.CalculationResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /calculations/csv [post]
func (h *CalculationHandler) RunCSV(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	req, err := parseCSVForm(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	templates, err := loadFormTemplates(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	h.execute(c, req, templates)
}

// execute runs the calculation pipeline shared by the JSON and CSV entry
// points, persists the run when a result repository is wired, and writes the
// response.
func (h *CalculationHandler) execute(c *gin.Context, req *models.CalculationRequest, templates params.TemplateLibrary) {
	stepMonths := req.StepMonths
	if stepMonths == 0 {
		stepMonths = h.defaults.StepMonths
	}
	strict := h.defaults.Strict
	if req.Strict != nil {
		strict = *req.Strict
	}

	inputs, err := calculators.NewInputs(
		req.AsOfDate,
		stepMonths,
		req.Exposures,
		req.Scenarios,
		templates,
		amortization.DiscountCurve(req.Discount),
		req.DriverDefaults,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return
	}

	ctx, collector := services.NewWarningContext(c.Request.Context())

	byScenario, err := h.calcSvc.Calculate(ctx, inputs, strict)
	if err != nil {
		status := http.StatusInternalServerError
		code := "internal_error"
		var paramErr *params.InvalidParameterError
		if errors.Is(err, calculators.ErrUnregisteredVariant) ||
			errors.Is(err, calculators.ErrNotImplemented) ||
			errors.As(err, &paramErr) {
			status = http.StatusUnprocessableEntity
			code = "unprocessable"
		}
		c.JSON(status, models.ErrorResponse{Error: code, Message: err.Error()})
		return
	}

	resp := models.CalculationResponse{ByScenario: byScenario}

	if len(req.Weights) > 0 {
		weighted, err := h.aggSvc.WeightedCombine(byScenario, req.Weights)
		if err != nil {
			var wmErr *services.WeightMismatchError
			if errors.As(err, &wmErr) {
				c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
					Error:   "weight_mismatch",
					Message: err.Error(),
				})
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			})
			return
		}
		resp.Weighted = weighted
	}

	resp.Warnings = collector.GetWarnings()

	if h.runRepo != nil {
		if runID, err := h.persist(ctx, req, &resp); err != nil {
			// Persistence failure does not invalidate the computed numbers.
			log.Errorf("failed to persist calculation run: %v", err)
		} else {
			resp.RunID = runID
		}
	}

	c.JSON(http.StatusOK, resp)
}

// persist stores the run header and the flat result rows of every scenario,
// including the weighted aggregate when present.
func (h *CalculationHandler) persist(ctx context.Context, req *models.CalculationRequest, resp *models.CalculationResponse) (int64, error) {
	var total float64
	var rows []models.FlatRow
	anyFailed, anySucceeded := false, false
	for _, res := range resp.ByScenario {
		total += res.Summary.TotalECL
		if res.Summary.FailureCount > 0 {
			anyFailed = true
		}
		if res.Summary.ExposureCount > 0 {
			anySucceeded = true
		}
		rows = append(rows, res.Flatten()...)
	}
	if resp.Weighted != nil {
		rows = append(rows, resp.Weighted.Flatten()...)
	}

	status := models.RunStatusCompleted
	switch {
	case anyFailed && anySucceeded:
		status = models.RunStatusPartial
	case anyFailed:
		status = models.RunStatusFailed
	}

	run := &models.CalculationRun{
		AsOfDate:      req.AsOfDate.Time,
		Status:        status,
		ExposureCount: len(req.Exposures),
		ScenarioCount: len(req.Scenarios),
		TotalECL:      total,
	}
	if err := h.runRepo.Create(ctx, run); err != nil {
		return 0, err
	}
	if err := h.resultRepo.SaveRows(ctx, run.ID, rows); err != nil {
		return 0, err
	}
	return run.ID, nil
}

// Variants handles GET /calculations/variants
// @Summary List registered calculator variants
// @Description Returns every (exposure class, credit status) combination the engine knows about and whether it is implemented
// @Tags calculations
// @Produce json
// @Success 200 {array} models.VariantInfo
// @Router /calculations/variants [get]
func (h *CalculationHandler) Variants(c *gin.Context) {
	c.JSON(http.StatusOK, h.calcSvc.AvailableCombinations())
}

// buildTemplates assembles a template library from inline request payloads.
func buildTemplates(payloads []models.TemplatePayload) (params.TemplateLibrary, error) {
	lib := make(params.TemplateLibrary)
	for _, p := range payloads {
		kind := params.Kind(strings.ToUpper(strings.TrimSpace(p.Kind)))
		name := fmt.Sprintf("%s_%s_%s", p.ExposureClass, p.CreditStatus, kind)
		table, err := params.NewTable(name, p.Columns, p.Rows)
		if err != nil {
			return nil, err
		}

		key := params.TableKey{Class: p.ExposureClass, Status: p.CreditStatus}
		set := lib[key]
		switch kind {
		case params.KindPD:
			set.PD = table
		case params.KindLGD:
			set.LGD = table
		case params.KindCCF:
			set.CCF = table
		default:
			return nil, fmt.Errorf("template %s: unknown kind %q", name, p.Kind)
		}
		lib[key] = set
	}
	return lib, nil
}

// parseCSVForm extracts the scalar calculation inputs and the exposure file
// from a multipart upload.
func parseCSVForm(form *multipart.Form) (*models.CalculationRequest, error) {
	req := &models.CalculationRequest{}

	field := func(name string) string {
		if vals := form.Value[name]; len(vals) > 0 {
			return strings.TrimSpace(vals[0])
		}
		return ""
	}

	asOf := field("as_of_date")
	if asOf == "" {
		return nil, fmt.Errorf("as_of_date is required")
	}
	t, err := models.ParseDate(asOf)
	if err != nil {
		return nil, err
	}
	req.AsOfDate = models.FlexibleDate{Time: t}

	scenarios := field("scenarios")
	if scenarios == "" {
		return nil, fmt.Errorf("scenarios is required")
	}
	for _, name := range strings.Split(scenarios, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		req.Scenarios = append(req.Scenarios, models.ScenarioDefinition{Name: name})
	}

	if w := field("weights"); w != "" {
		if err := json.Unmarshal([]byte(w), &req.Weights); err != nil {
			return nil, fmt.Errorf("invalid weights: %w", err)
		}
	}
	if s := field("step_months"); s != "" {
		if req.StepMonths, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid step_months %q", s)
		}
	}
	if s := field("strict"); s != "" {
		strict, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid strict %q", s)
		}
		req.Strict = &strict
	}
	if d := field("discount_curve"); d != "" {
		if err := json.Unmarshal([]byte(d), &req.Discount); err != nil {
			return nil, fmt.Errorf("invalid discount_curve: %w", err)
		}
	}

	files := form.File["exposures"]
	if len(files) == 0 {
		return nil, fmt.Errorf("exposures file is required")
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open exposures file: %w", err)
	}
	defer f.Close()

	req.Exposures, err = ParseExposuresCSV(f)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// loadFormTemplates reads every template file in the upload. Files are named
// <kind>_<class>_<status>, e.g. pd_retail_performing or ccf_non_retail_performing.
func loadFormTemplates(form *multipart.Form) (params.TemplateLibrary, error) {
	grouped := make(map[params.TableKey]*ingestion.TemplateFiles)

	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for name, headers := range form.File {
		if name == "exposures" || len(headers) == 0 {
			continue
		}
		kind, key, err := parseTemplateFileName(name)
		if err != nil {
			return nil, err
		}
		f, err := headers[0].Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open template %s: %w", name, err)
		}
		opened = append(opened, f)

		set := grouped[key]
		if set == nil {
			set = &ingestion.TemplateFiles{}
			grouped[key] = set
		}
		switch kind {
		case params.KindPD:
			set.PD = f
		case params.KindLGD:
			set.LGD = f
		case params.KindCCF:
			set.CCF = f
		}
	}

	if len(grouped) == 0 {
		return nil, fmt.Errorf("no parameter template files supplied")
	}

	lib := make(params.TemplateLibrary)
	for key, files := range grouped {
		set, err := ingestion.LoadTemplateSet(key.Class, key.Status, *files)
		if err != nil {
			return nil, err
		}
		lib[key] = set
	}
	return lib, nil
}

// parseTemplateFileName splits a form field name like pd_non_retail_performing
// into the parameter kind and the calculator combination it belongs to.
func parseTemplateFileName(name string) (params.Kind, params.TableKey, error) {
	parts := strings.SplitN(strings.ToUpper(name), "_", 2)
	if len(parts) != 2 {
		return "", params.TableKey{}, fmt.Errorf("unrecognized template field %q", name)
	}
	kind := params.Kind(parts[0])
	if kind != params.KindPD && kind != params.KindLGD && kind != params.KindCCF {
		return "", params.TableKey{}, fmt.Errorf("unrecognized template field %q", name)
	}

	rest := parts[1]
	for _, status := range []models.CreditStatus{models.StatusPerforming, models.StatusDefaulted} {
		suffix := "_" + string(status)
		if strings.HasSuffix(rest, suffix) {
			class, err := models.ParseExposureClass(strings.TrimSuffix(rest, suffix))
			if err != nil {
				return "", params.TableKey{}, fmt.Errorf("unrecognized template field %q: %w", name, err)
			}
			return kind, params.TableKey{Class: class, Status: status}, nil
		}
	}
	return "", params.TableKey{}, fmt.Errorf("unrecognized template field %q", name)
}

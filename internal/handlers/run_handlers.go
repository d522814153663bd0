package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/epeers/eclengine/internal/export"
	"github.com/epeers/eclengine/internal/models"
	"github.com/epeers/eclengine/internal/repository"
)

// RunHandler handles endpoints over persisted calculation runs
type RunHandler struct {
	runRepo    *repository.RunRepository
	resultRepo *repository.ResultRepository
}

// NewRunHandler creates a new RunHandler
func NewRunHandler(runRepo *repository.RunRepository, resultRepo *repository.ResultRepository) *RunHandler {
	return &RunHandler{runRepo: runRepo, resultRepo: resultRepo}
}

// List handles GET /runs
// @Summary List recent calculation runs
// @Tags runs
// @Produce json
// @Param limit query int false "Maximum number of runs to return (default 20)"
// @Success 200 {array} models.CalculationRun
// @Failure 500 {object} models.ErrorResponse
// @Router /runs [get]
func (h *RunHandler) List(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: "invalid limit",
			})
			return
		}
		limit = v
	}

	runs, err := h.runRepo.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// Get handles GET /runs/:id
// @Summary Get a calculation run
// @Tags runs
// @Produce json
// @Param id path int true "Run ID"
// @Success 200 {object} models.CalculationRun
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /runs/{id} [get]
func (h *RunHandler) Get(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	run, err := h.runRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "calculation run not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, run)
}

// Results handles GET /runs/:id/results
// @Summary Get the per-step result rows of a run
// @Tags runs
// @Produce json
// @Param id path int true "Run ID"
// @Success 200 {array} models.FlatRow
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /runs/{id}/results [get]
func (h *RunHandler) Results(c *gin.Context) {
	rows, ok := h.fetchRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Export handles GET /runs/:id/export
// @Summary Download the result rows of a run as CSV
// @Tags runs
// @Produce text/csv
// @Param id path int true "Run ID"
// @Success 200 {string} string "CSV payload"
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /runs/{id}/export [get]
func (h *RunHandler) Export(c *gin.Context) {
	rows, ok := h.fetchRows(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ecl_run_%s.csv", c.Param("id")))
	if err := export.WriteCSV(c.Writer, rows); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

// fetchRows resolves the run and loads its result rows, writing the error
// response itself when either step fails.
func (h *RunHandler) fetchRows(c *gin.Context) ([]models.FlatRow, bool) {
	id, ok := runID(c)
	if !ok {
		return nil, false
	}

	if _, err := h.runRepo.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "calculation run not found",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return nil, false
	}

	rows, err := h.resultRepo.GetRows(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return nil, false
	}
	return rows, true
}

func runID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: "invalid run ID",
		})
		return 0, false
	}
	return id, true
}

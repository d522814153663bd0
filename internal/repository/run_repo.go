package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epeers/eclengine/internal/models"
)

var ErrRunNotFound = errors.New("calculation run not found")

// RunRepository handles database operations for calculation runs
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Create persists a new calculation run record
func (r *RunRepository) Create(ctx context.Context, run *models.CalculationRun) error {
	query := `
		INSERT INTO calculation_run (as_of_date, status, exposure_count, scenario_count, total_ecl, created)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created
	`
	return r.pool.QueryRow(ctx, query,
		run.AsOfDate, run.Status, run.ExposureCount, run.ScenarioCount, run.TotalECL,
	).Scan(&run.ID, &run.CreatedAt)
}

// GetByID retrieves a calculation run by ID
func (r *RunRepository) GetByID(ctx context.Context, id int64) (*models.CalculationRun, error) {
	query := `
		SELECT id, as_of_date, status, exposure_count, scenario_count, total_ecl, created
		FROM calculation_run
		WHERE id = $1
	`
	run := &models.CalculationRun{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.AsOfDate, &run.Status, &run.ExposureCount, &run.ScenarioCount, &run.TotalECL, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calculation run: %w", err)
	}
	return run, nil
}

// List returns the most recent calculation runs, newest first.
func (r *RunRepository) List(ctx context.Context, limit int) ([]models.CalculationRun, error) {
	query := `
		SELECT id, as_of_date, status, exposure_count, scenario_count, total_ecl, created
		FROM calculation_run
		ORDER BY created DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculation runs: %w", err)
	}
	defer rows.Close()

	var runs []models.CalculationRun
	for rows.Next() {
		var run models.CalculationRun
		if err := rows.Scan(&run.ID, &run.AsOfDate, &run.Status, &run.ExposureCount, &run.ScenarioCount, &run.TotalECL, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calculation run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epeers/eclengine/internal/models"
)

// ResultRepository persists the tidy per-step ECL rows for a run
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveRows bulk-inserts the flat result rows of one run.
func (r *ResultRepository) SaveRows(ctx context.Context, runID int64, rows []models.FlatRow) error {
	if len(rows) == 0 {
		return nil
	}

	src := make([][]any, len(rows))
	for i, row := range rows {
		src[i] = []any{
			runID, row.ExposureID, row.Scenario, row.TimeStep,
			row.PD, row.LGD, row.CCF, row.EAD, row.Discount, row.ECL,
		}
	}

	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"ecl_result"},
		[]string{"run_id", "exposure_id", "scenario", "time_step", "pd", "lgd", "ccf", "ead", "discount", "ecl"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		return fmt.Errorf("failed to save result rows: %w", err)
	}
	return nil
}

// GetRows retrieves the flat result rows of one run, ordered for export.
func (r *ResultRepository) GetRows(ctx context.Context, runID int64) ([]models.FlatRow, error) {
	query := `
		SELECT exposure_id, scenario, time_step, pd, lgd, ccf, ead, discount, ecl
		FROM ecl_result
		WHERE run_id = $1
		ORDER BY scenario, exposure_id, time_step
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result rows: %w", err)
	}
	defer rows.Close()

	var out []models.FlatRow
	for rows.Next() {
		var fr models.FlatRow
		if err := rows.Scan(&fr.ExposureID, &fr.Scenario, &fr.TimeStep, &fr.PD, &fr.LGD, &fr.CCF, &fr.EAD, &fr.Discount, &fr.ECL); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// DeleteForRun removes all result rows of one run.
func (r *ResultRepository) DeleteForRun(ctx context.Context, runID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ecl_result WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete result rows: %w", err)
	}
	return nil
}

// Package db provides PostgreSQL persistence for pipeline runs. The database
// is optional: callers hold a nil *DB when no DATABASE_URL is configured and
// guard every call site.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun creates a new pipeline run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, projectID, brandName, objective, tier string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO runs (project_id, brand_name, objective, tier, status)
		 VALUES ($1, $2, $3, $4, 'running')
		 RETURNING id`,
		projectID, brandName, objective, tier,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a pipeline run as finished with the given status
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// BumpEpoch increments the run's re-entry counter and returns the new value
func (db *DB) BumpEpoch(ctx context.Context, runID uuid.UUID) (int, error) {
	var epoch int
	err := db.pool.QueryRow(ctx,
		`UPDATE runs SET epoch = epoch + 1, status = 'running', completed_at = NULL
		 WHERE id = $1 RETURNING epoch`,
		runID,
	).Scan(&epoch)
	if err != nil {
		return 0, fmt.Errorf("failed to bump run epoch: %w", err)
	}
	return epoch, nil
}

// GetRun retrieves a pipeline run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, project_id, brand_name, objective, tier, status, epoch, created_at, completed_at
		 FROM runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.ProjectID, &run.BrandName, &run.Objective, &run.Tier,
		&run.Status, &run.Epoch, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// GetRunByProject retrieves a pipeline run by its short project ID
func (db *DB) GetRunByProject(ctx context.Context, projectID string) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, project_id, brand_name, objective, tier, status, epoch, created_at, completed_at
		 FROM runs WHERE project_id = $1`,
		projectID,
	).Scan(&run.ID, &run.ProjectID, &run.BrandName, &run.Objective, &run.Tier,
		&run.Status, &run.Epoch, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// RunFilters holds optional filters for listing runs
type RunFilters struct {
	Brand  string
	Status string
	Limit  int
}

// ListRuns retrieves runs with optional filters, newest first
func (db *DB) ListRuns(ctx context.Context, filters RunFilters) ([]Run, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, project_id, brand_name, objective, tier, status, epoch, created_at, completed_at
		FROM runs WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Brand != "" {
		query += fmt.Sprintf(" AND brand_name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Brand+"%")
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ProjectID, &run.BrandName, &run.Objective, &run.Tier,
			&run.Status, &run.Epoch, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// DeleteRun deletes a pipeline run, its stages and creatives (via cascade)
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StartStage upserts a stage record as running and stamps started_at. A stage
// re-entered after a downstream edit increments its attempt counter.
func (db *DB) StartStage(ctx context.Context, runID uuid.UUID, stage string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO run_stages (run_id, stage, status, attempt, started_at)
		 VALUES ($1, $2, $3, 1, NOW())
		 ON CONFLICT (run_id, stage) DO UPDATE
		 SET status = $3, attempt = run_stages.attempt + 1, started_at = NOW(),
		     completed_at = NULL, duration_ms = NULL, error_message = NULL, updated_at = NOW()`,
		runID, stage, StageStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to start stage %s: %w", stage, err)
	}
	return nil
}

// CompleteStage marks a stage completed, computes its duration, and attaches
// the stage artifact as JSON.
func (db *DB) CompleteStage(ctx context.Context, runID uuid.UUID, stage string, artifact any) error {
	var artifactJSON []byte
	if artifact != nil {
		var err error
		artifactJSON, err = json.Marshal(artifact)
		if err != nil {
			return fmt.Errorf("failed to marshal stage artifact: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`UPDATE run_stages
		 SET status = $1, completed_at = NOW(),
		     duration_ms = EXTRACT(EPOCH FROM (NOW() - started_at)) * 1000,
		     artifact = $2, updated_at = NOW()
		 WHERE run_id = $3 AND stage = $4`,
		StageStatusCompleted, artifactJSON, runID, stage,
	)
	if err != nil {
		return fmt.Errorf("failed to complete stage %s: %w", stage, err)
	}
	return nil
}

// FailStage marks a stage failed with an error message.
func (db *DB) FailStage(ctx context.Context, runID uuid.UUID, stage, errorMessage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE run_stages
		 SET status = $1, completed_at = NOW(),
		     duration_ms = EXTRACT(EPOCH FROM (NOW() - started_at)) * 1000,
		     error_message = $2, updated_at = NOW()
		 WHERE run_id = $3 AND stage = $4`,
		StageStatusFailed, errorMessage, runID, stage,
	)
	if err != nil {
		return fmt.Errorf("failed to fail stage %s: %w", stage, err)
	}
	return nil
}

// GetStage retrieves one stage record by run and stage name
func (db *DB) GetStage(ctx context.Context, runID uuid.UUID, stage string) (*StageRecord, error) {
	var rec StageRecord
	var artifactJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, stage, status, attempt, started_at, completed_at,
		        duration_ms, error_message, artifact, created_at, updated_at
		 FROM run_stages WHERE run_id = $1 AND stage = $2`,
		runID, stage,
	).Scan(&rec.ID, &rec.RunID, &rec.Stage, &rec.Status, &rec.Attempt,
		&rec.StartedAt, &rec.CompletedAt, &rec.DurationMs, &rec.ErrorMessage,
		&artifactJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stage %s: %w", stage, err)
	}

	if artifactJSON != nil {
		_ = json.Unmarshal(artifactJSON, &rec.Artifact)
	}
	return &rec, nil
}

// ListStages retrieves all stage records for a run in creation order
func (db *DB) ListStages(ctx context.Context, runID uuid.UUID) ([]StageRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, stage, status, attempt, started_at, completed_at,
		        duration_ms, error_message, artifact, created_at, updated_at
		 FROM run_stages WHERE run_id = $1 ORDER BY created_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	defer rows.Close()

	var records []StageRecord
	for rows.Next() {
		var rec StageRecord
		var artifactJSON []byte
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Stage, &rec.Status, &rec.Attempt,
			&rec.StartedAt, &rec.CompletedAt, &rec.DurationMs, &rec.ErrorMessage,
			&artifactJSON, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if artifactJSON != nil {
			_ = json.Unmarshal(artifactJSON, &rec.Artifact)
		}
		records = append(records, rec)
	}
	return records, nil
}

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SaveCreative upserts one creative record. A re-run of the same variant at
// the same stage replaces the previous row.
func (db *DB) SaveCreative(ctx context.Context, c *Creative) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO creatives (run_id, stage, scheme, format, language, variant_index,
		                        filename, path, width, height, prompt)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (run_id, stage, scheme, format, language) DO UPDATE
		 SET variant_index = $6, filename = $7, path = $8, width = $9, height = $10,
		     prompt = $11, created_at = NOW()
		 RETURNING id`,
		c.RunID, c.Stage, c.Scheme, c.Format, c.Language, c.VariantIndex,
		c.Filename, c.Path, c.Width, c.Height, c.Prompt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save creative %s: %w", c.Filename, err)
	}
	return id, nil
}

// ListCreatives retrieves the creatives for a run, optionally filtered by
// stage, in variant order.
func (db *DB) ListCreatives(ctx context.Context, runID uuid.UUID, stage string) ([]Creative, error) {
	query := `SELECT id, run_id, stage, scheme, format, language, variant_index,
	                 filename, path, width, height, COALESCE(prompt, ''), created_at
	          FROM creatives WHERE run_id = $1`
	args := []any{runID}
	if stage != "" {
		query += " AND stage = $2"
		args = append(args, stage)
	}
	query += " ORDER BY variant_index, stage"

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list creatives: %w", err)
	}
	defer rows.Close()

	var creatives []Creative
	for rows.Next() {
		var c Creative
		if err := rows.Scan(&c.ID, &c.RunID, &c.Stage, &c.Scheme, &c.Format, &c.Language,
			&c.VariantIndex, &c.Filename, &c.Path, &c.Width, &c.Height, &c.Prompt,
			&c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan creative: %w", err)
		}
		creatives = append(creatives, c)
	}
	return creatives, nil
}

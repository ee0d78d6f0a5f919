package storage

import (
	"context"
	"fmt"

	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/wod"
	"github.com/google/uuid"
)

// UpsertResult records a user's score for a WOD, replacing any earlier
// submission by the same user. The original creation time is kept.
func (db *DB) UpsertResult(ctx context.Context, row models.ResultRow) (*models.ResultRow, error) {
	out := row
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO wod_results (id, wod_id, user_id, score, division, memo)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (wod_id, user_id) DO UPDATE
			SET score = EXCLUDED.score, division = EXCLUDED.division,
			    memo = EXCLUDED.memo, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		row.ID, row.WodID, row.UserID, row.Score, string(row.Division), row.Memo,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting result: %w", err)
	}
	return &out, nil
}

// ListResults returns every result for a WOD in submission order. An empty
// division returns both RX and SCALED results. Ranking happens in the caller.
func (db *DB) ListResults(ctx context.Context, wodID uuid.UUID, division models.Division) ([]models.ResultRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT r.id, r.wod_id, r.user_id, u.login, u.display_name, r.score, r.division, r.memo,
		        r.created_at, r.updated_at
		 FROM wod_results r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.wod_id = $1 AND ($2 = '' OR r.division = $2)
		 ORDER BY r.created_at ASC, r.id ASC`,
		wodID, string(division))
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var result []models.ResultRow
	for rows.Next() {
		var r models.ResultRow
		var div string
		if err := rows.Scan(&r.ID, &r.WodID, &r.UserID, &r.Login, &r.DisplayName, &r.Score, &div,
			&r.Memo, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Division = models.Division(div)
		result = append(result, r)
	}
	return result, rows.Err()
}

// wodType converts a stored type. The column has a CHECK constraint, so an
// unknown value means the schema and code disagree; keep it verbatim.
func wodType(s string) wod.Type {
	t, err := wod.ParseType(s)
	if err != nil {
		return wod.Type(s)
	}
	return t
}

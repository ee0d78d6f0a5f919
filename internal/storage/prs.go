package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/wodboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const prColumns = `id, user_id, movement, value, unit, memo, date, created_at`

// InsertPR inserts a personal-record entry.
func (db *DB) InsertPR(ctx context.Context, row models.PRRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO personal_records (id, user_id, movement, value, unit, memo, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.ID, row.UserID, row.Movement, row.Value, row.Unit, row.Memo, row.Date)
	if err != nil {
		return fmt.Errorf("inserting pr: %w", err)
	}
	return nil
}

// BestPR returns the user's best entry for movement, or nil if there is none.
func (db *DB) BestPR(ctx context.Context, userID int, movement string, higherIsBetter bool) (*models.PRRow, error) {
	order := "ASC"
	if higherIsBetter {
		order = "DESC"
	}
	row := db.Pool.QueryRow(ctx,
		`SELECT `+prColumns+` FROM personal_records
		 WHERE user_id = $1 AND movement = $2
		 ORDER BY value `+order+`, created_at ASC
		 LIMIT 1`,
		userID, movement)
	r, err := scanPR(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying best pr: %w", err)
	}
	return r, nil
}

// ListPRs returns all of a user's entries, most recent date first.
func (db *DB) ListPRs(ctx context.Context, userID int) ([]models.PRRow, error) {
	return db.queryPRs(ctx,
		`SELECT `+prColumns+` FROM personal_records
		 WHERE user_id = $1
		 ORDER BY date DESC, created_at DESC`, userID)
}

// ListPRHistory returns a user's entries for one movement, oldest first.
func (db *DB) ListPRHistory(ctx context.Context, userID int, movement string) ([]models.PRRow, error) {
	return db.queryPRs(ctx,
		`SELECT `+prColumns+` FROM personal_records
		 WHERE user_id = $1 AND movement = $2
		 ORDER BY date ASC, created_at ASC`, userID, movement)
}

func (db *DB) queryPRs(ctx context.Context, query string, args ...any) ([]models.PRRow, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying prs: %w", err)
	}
	defer rows.Close()

	var result []models.PRRow
	for rows.Next() {
		r, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pr: %w", err)
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func scanPR(row interface{ Scan(dest ...any) error }) (*models.PRRow, error) {
	var r models.PRRow
	if err := row.Scan(&r.ID, &r.UserID, &r.Movement, &r.Value, &r.Unit, &r.Memo, &r.Date, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeletePR removes one of a user's entries. Returns ErrNotFound when the
// entry does not exist or belongs to someone else.
func (db *DB) DeletePR(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM personal_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting pr: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pr %s: %w", id, ErrNotFound)
	}
	return nil
}

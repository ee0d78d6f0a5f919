package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/wodboard/internal/models"
	"github.com/google/uuid"
)

const wodColumns = `w.id, w.title, w.description, w.type, w.movements, w.date, w.created_by, w.created_at,
	(SELECT COUNT(*) FROM wod_results r WHERE r.wod_id = w.id)`

// InsertWod inserts a WOD. Returns ErrDateExists if the date is taken.
func (db *DB) InsertWod(ctx context.Context, row models.WodRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO wods (id, title, description, type, movements, date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row.ID, row.Title, row.Description, string(row.Type), row.Movements, row.Date, row.CreatedBy)
	if isUniqueViolation(err, "wods_date_key") {
		return ErrDateExists
	}
	if err != nil {
		return fmt.Errorf("inserting wod: %w", err)
	}
	return nil
}

// GetWod retrieves a WOD by ID.
func (db *DB) GetWod(ctx context.Context, id uuid.UUID) (*models.WodRow, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+wodColumns+` FROM wods w WHERE w.id = $1`, id)
	w, err := scanWod(row)
	if err != nil {
		return nil, notFound(err, "wod")
	}
	return w, nil
}

// GetWodByDate retrieves the WOD scheduled for the calendar date of day.
func (db *DB) GetWodByDate(ctx context.Context, day time.Time) (*models.WodRow, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+wodColumns+` FROM wods w WHERE w.date = $1::date`,
		day.Format("2006-01-02"))
	w, err := scanWod(row)
	if err != nil {
		return nil, notFound(err, "wod")
	}
	return w, nil
}

// ListWods returns one page of WODs, newest date first, and the total count.
func (db *DB) ListWods(ctx context.Context, page, limit int) ([]models.WodRow, int, error) {
	if page < 1 {
		page = 1
	}
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM wods`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting wods: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT `+wodColumns+` FROM wods w ORDER BY w.date DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("querying wods: %w", err)
	}
	defer rows.Close()

	var result []models.WodRow
	for rows.Next() {
		w, err := scanWod(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning wod: %w", err)
		}
		result = append(result, *w)
	}
	return result, total, rows.Err()
}

func scanWod(row interface{ Scan(dest ...any) error }) (*models.WodRow, error) {
	var w models.WodRow
	var typ string
	if err := row.Scan(&w.ID, &w.Title, &w.Description, &typ, &w.Movements, &w.Date,
		&w.CreatedBy, &w.CreatedAt, &w.ResultCount); err != nil {
		return nil, err
	}
	w.Type = wodType(typ)
	return &w, nil
}

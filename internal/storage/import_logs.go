package storage

import (
	"context"
	"fmt"
	"time"
)

// ImportLog records one run of the archive importer.
type ImportLog struct {
	ID              int64     `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	Source          string    `json:"source"`
	Status          string    `json:"status"`
	DryRun          bool      `json:"dry_run"`
	WodsInserted    int       `json:"wods_inserted"`
	WodsExisting    int       `json:"wods_existing"`
	WodsSkipped     int       `json:"wods_skipped"`
	ResultsUpserted int       `json:"results_upserted"`
	ResultsSkipped  int       `json:"results_skipped"`
	UsersSeen       int       `json:"users_seen"`
	DurationMs      *int      `json:"duration_ms"`
	ErrorMessage    *string   `json:"error_message"`
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (source, status, dry_run, wods_inserted, wods_existing, wods_skipped,
		 results_upserted, results_skipped, users_seen, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 RETURNING id`,
		log.Source, log.Status, log.DryRun, log.WodsInserted, log.WodsExisting, log.WodsSkipped,
		log.ResultsUpserted, log.ResultsSkipped, log.UsersSeen, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing import log entry (typically from "running" to "success" or "error").
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, wods_inserted = $3, wods_existing = $4, wods_skipped = $5,
		 results_upserted = $6, results_skipped = $7, users_seen = $8,
		 duration_ms = $9, error_message = $10
		 WHERE id = $1`,
		id, log.Status, log.WodsInserted, log.WodsExisting, log.WodsSkipped,
		log.ResultsUpserted, log.ResultsSkipped, log.UsersSeen,
		log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// ListImportLogs returns the most recent import runs.
func (db *DB) ListImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, source, status, dry_run, wods_inserted, wods_existing, wods_skipped,
		 results_upserted, results_skipped, users_seen, duration_ms, error_message
		 FROM import_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Source, &l.Status, &l.DryRun,
			&l.WodsInserted, &l.WodsExisting, &l.WodsSkipped,
			&l.ResultsUpserted, &l.ResultsSkipped, &l.UsersSeen,
			&l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

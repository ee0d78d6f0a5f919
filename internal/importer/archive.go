package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// ArchiveWod is one row of the archive's wods table. Movements are stored
// newline-separated.
type ArchiveWod struct {
	Date        string
	Title       string
	Description string
	Type        string
	Movements   string
}

// ArchiveResult is one row of the archive's results table, keyed to its WOD
// by date and to its athlete by login.
type ArchiveResult struct {
	WodDate     string
	Login       string
	DisplayName string
	Score       string
	Division    string
	Memo        string
}

// Archive is a read-only SQLite export from a previous box tracker.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens the SQLite file at path. The file must already exist.
func OpenArchive(path string) (*Archive, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Wods returns every archived WOD in date order.
func (a *Archive) Wods(ctx context.Context) ([]ArchiveWod, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT date, title, COALESCE(description, ''), type, COALESCE(movements, '')
		 FROM wods ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("querying archive wods: %w", err)
	}
	defer rows.Close()

	var out []ArchiveWod
	for rows.Next() {
		var w ArchiveWod
		if err := rows.Scan(&w.Date, &w.Title, &w.Description, &w.Type, &w.Movements); err != nil {
			return nil, fmt.Errorf("scanning archive wod: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Results returns every archived result in insertion order, which becomes
// the tie-break order on the leaderboard.
func (a *Archive) Results(ctx context.Context) ([]ArchiveResult, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT wod_date, login, COALESCE(display_name, ''), score, division, COALESCE(memo, '')
		 FROM results ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying archive results: %w", err)
	}
	defer rows.Close()

	var out []ArchiveResult
	for rows.Next() {
		var r ArchiveResult
		if err := rows.Scan(&r.WodDate, &r.Login, &r.DisplayName, &r.Score, &r.Division, &r.Memo); err != nil {
			return nil, fmt.Errorf("scanning archive result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

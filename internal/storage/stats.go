package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored data.
type DataStats struct {
	TotalAthletes int64         `json:"total_athletes"`
	TotalWods     int64         `json:"total_wods"`
	TotalResults  int64         `json:"total_results"`
	TotalPRs      int64         `json:"total_prs"`
	EarliestWod   *time.Time    `json:"earliest_wod"`
	LatestWod     *time.Time    `json:"latest_wod"`
	WodsByType    []WodTypeStat `json:"wods_by_type"`
}

// WodTypeStat holds summary stats for a single WOD type.
type WodTypeStat struct {
	Type        string `json:"type"`
	Count       int64  `json:"count"`
	ResultCount int64  `json:"result_count"`
	RxCount     int64  `json:"rx_count"`
}

// GetDataStats returns box-wide aggregate statistics.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM wods),
			(SELECT COUNT(*) FROM wod_results),
			(SELECT COUNT(*) FROM personal_records)`,
	).Scan(&stats.TotalAthletes, &stats.TotalWods, &stats.TotalResults, &stats.TotalPRs)
	if err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}

	// Date range of scheduled WODs
	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(date)::timestamptz, MAX(date)::timestamptz FROM wods`,
	).Scan(&stats.EarliestWod, &stats.LatestWod)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	// WODs by type
	rows, err := db.Pool.Query(ctx,
		`SELECT w.type, COUNT(DISTINCT w.id), COUNT(r.id),
		        COUNT(r.id) FILTER (WHERE r.division = 'RX')
		 FROM wods w
		 LEFT JOIN wod_results r ON r.wod_id = w.id
		 GROUP BY w.type
		 ORDER BY COUNT(DISTINCT w.id) DESC, w.type`)
	if err != nil {
		return nil, fmt.Errorf("querying wods by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s WodTypeStat
		if err := rows.Scan(&s.Type, &s.Count, &s.ResultCount, &s.RxCount); err != nil {
			return nil, fmt.Errorf("scanning wod type stat: %w", err)
		}
		stats.WodsByType = append(stats.WodsByType, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

package leaderboard

import (
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/wod"
)

// PageSize is the number of entries per leaderboard page.
const PageSize = 20

// Entry is one ranked result ready for display.
type Entry struct {
	Rank           int    `json:"rank"`
	FormattedScore string `json:"formatted_score"`
	models.ResultRow
}

// Board is a page of a WOD leaderboard.
type Board struct {
	Wod        models.WodRow `json:"wod"`
	TypeLabel  string        `json:"type_label"`
	Entries    []Entry       `json:"results"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

// Rank orders the complete result set of w and formats each score. results
// must be in submission order so ties resolve to the earlier submission.
func Rank(w models.WodRow, results []models.ResultRow) []Entry {
	ranked := wod.Rank(results, func(r models.ResultRow) string { return r.Score }, w.Type)
	entries := make([]Entry, len(ranked))
	for i, r := range ranked {
		entries[i] = Entry{
			Rank:           r.Rank,
			FormattedScore: wod.Format(r.Item.Score, w.Type),
			ResultRow:      r.Item,
		}
	}
	return entries
}

// Build ranks the complete result set and returns the requested page.
func Build(w models.WodRow, results []models.ResultRow, page, limit int) Board {
	if page < 1 {
		page = 1
	}
	entries := Rank(w, results)
	return Board{
		Wod:        w,
		TypeLabel:  w.Type.Label(),
		Entries:    wod.Page(entries, page, limit),
		Total:      len(entries),
		Page:       page,
		TotalPages: wod.TotalPages(len(entries), limit),
	}
}

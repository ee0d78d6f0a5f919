package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/claude/wodboard/internal/leaderboard"
	"github.com/claude/wodboard/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// todayTopResults is how many ranked results the today resource includes.
const todayTopResults = 10

func (h *handlers) today(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	day, _ := parseDay("", h.now())
	summary := map[string]any{
		"date": day.Format("2006-01-02"),
		"wod":  nil,
	}

	row, err := h.ds.GetWodByDate(ctx, day)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		results, err := h.ds.ListResults(ctx, row.ID, "")
		if err != nil {
			h.log.Warn("today: results query failed", "error", err)
		}
		board := leaderboard.Build(*row, results, 1, todayTopResults)
		summary["wod"] = row
		summary["type_label"] = board.TypeLabel
		summary["total_results"] = board.Total
		summary["top_results"] = board.Entries
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

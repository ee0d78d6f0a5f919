package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/claude/wodboard/internal/generator"
	"github.com/claude/wodboard/internal/leaderboard"
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/pr"
	"github.com/claude/wodboard/internal/storage"
	"github.com/claude/wodboard/internal/wod"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

const wodsPageSize = 10

// parseDay accepts YYYY-MM-DD, defaulting to today when empty.
func parseDay(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

func splitCategories(s string) []generator.Category {
	var out []generator.Category
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, generator.Category(c))
		}
	}
	return out
}

// --- Tool definitions ---

var toolGenerateWod = mcp.NewTool("generate_wod",
	mcp.WithDescription("Generate a random workout from the movement library. Returns title, description and movement names. Nothing is saved."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout format"), mcp.Enum("FOR_TIME", "AMRAP", "EMOM")),
	mcp.WithNumber("duration_minutes", mcp.Description("Time cap or duration in minutes. Defaults to 20.")),
	mcp.WithString("categories", mcp.Description("Comma-separated movement categories (역도, 체조, 컨디셔닝, 케틀벨, 덤벨). Defaults to all.")),
	mcp.WithNumber("movement_count", mcp.Description("How many distinct movements to pick. Defaults to 3.")),
)

var toolGetLeaderboard = mcp.NewTool("get_leaderboard",
	mcp.WithDescription("Ranked results for a WOD, 20 per page, with formatted scores. Identify the WOD by wod_id or date; defaults to today's WOD."),
	mcp.WithString("wod_id", mcp.Description("WOD UUID")),
	mcp.WithString("date", mcp.Description("WOD date (YYYY-MM-DD). Ignored when wod_id is set.")),
	mcp.WithString("division", mcp.Description("Only include this division"), mcp.Enum("RX", "SCALED")),
	mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
)

var toolListWods = mcp.NewTool("list_wods",
	mcp.WithDescription("List scheduled WODs, newest date first, 10 per page."),
	mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("The athlete's best record per movement, or the full history of one movement. Lifts are in kg (higher is better); benchmark WODs in seconds (lower is better)."),
	mcp.WithString("movement", mcp.Description("Return history for this movement only (e.g. 'Back Squat', 'Fran')")),
)

var toolFormatScore = mcp.NewTool("format_score",
	mcp.WithDescription("Render a raw score string the way the leaderboard shows it (e.g. 245 seconds as 4:05 for FOR_TIME)."),
	mcp.WithString("score", mcp.Required(), mcp.Description("Raw score as entered")),
	mcp.WithString("type", mcp.Required(), mcp.Description("WOD type"), mcp.Enum("FOR_TIME", "AMRAP", "EMOM", "ONE_RM", "TABATA", "OTHER")),
)

// --- Tool handlers ---

func (h *handlers) generateWod(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	t, err := wod.ParseType(typ)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	categories := splitCategories(req.GetString("categories", ""))
	if len(categories) == 0 {
		categories = generator.Categories
	}
	cfg := generator.Config{
		Type:            t,
		DurationMinutes: req.GetInt("duration_minutes", 20),
		Categories:      categories,
		MovementCount:   req.GetInt("movement_count", 3),
	}

	generated, err := h.gen.Generate(cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(generated)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLeaderboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var row *models.WodRow
	if idStr := req.GetString("wod_id", ""); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return mcp.NewToolResultError("invalid wod_id: " + err.Error()), nil
		}
		row, err = h.ds.GetWod(ctx, id)
		if err != nil {
			return h.lookupError("get_leaderboard", err), nil
		}
	} else {
		day, err := parseDay(req.GetString("date", ""), h.now())
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		row, err = h.ds.GetWodByDate(ctx, day)
		if err != nil {
			return h.lookupError("get_leaderboard", err), nil
		}
	}

	division := models.Division(req.GetString("division", ""))
	if division != "" && !division.Valid() {
		return mcp.NewToolResultError("division must be RX or SCALED"), nil
	}

	results, err := h.ds.ListResults(ctx, row.ID, division)
	if err != nil {
		h.log.Error("mcp get_leaderboard", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	board := leaderboard.Build(*row, results, req.GetInt("page", 1), leaderboard.PageSize)
	result, err := mcp.NewToolResultJSON(board)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWods(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := max(req.GetInt("page", 1), 1)

	wods, total, err := h.ds.ListWods(ctx, page, wodsPageSize)
	if err != nil {
		h.log.Error("mcp list_wods", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if wods == nil {
		wods = []models.WodRow{}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"wods":        wods,
		"total":       total,
		"page":        page,
		"total_pages": wod.TotalPages(total, wodsPageSize),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// recordView pairs a stored record with its display string.
type recordView struct {
	Movement string  `json:"movement"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Display  string  `json:"display"`
	Date     string  `json:"date"`
	Memo     *string `json:"memo,omitempty"`
}

func viewRecords(rows []models.PRRow) []recordView {
	out := make([]recordView, 0, len(rows))
	for _, r := range rows {
		out = append(out, recordView{
			Movement: r.Movement,
			Value:    r.Value,
			Unit:     r.Unit,
			Display:  pr.DisplayValue(r.Movement, r.Value, r.Unit),
			Date:     r.Date.Format("2006-01-02"),
			Memo:     r.Memo,
		})
	}
	return out
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	var rows []models.PRRow
	var err error
	if movement := req.GetString("movement", ""); movement != "" {
		rows, err = h.ds.ListPRHistory(ctx, uid, movement)
	} else {
		rows, err = h.ds.ListPRs(ctx, uid)
		rows = pr.Best(rows)
	}
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(viewRecords(rows))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) formatScore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	score, err := req.RequireString("score")
	if err != nil {
		return mcp.NewToolResultError("score parameter is required"), nil
	}
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	t, err := wod.ParseType(typ)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(wod.Format(score, t)), nil
}

// lookupError turns a WOD lookup failure into a tool error, logging only
// unexpected failures.
func (h *handlers) lookupError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("no WOD found")
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("query failed: " + err.Error())
}

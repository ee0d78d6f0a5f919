package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/claude/wodboard/internal/generator"
	"github.com/claude/wodboard/internal/leaderboard"
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/storage"
	"github.com/claude/wodboard/internal/wod"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	wodsPageSize       = 10
	maxTitleLength     = 100
	maxResultMemoChars = 500
	dateLayout         = "2006-01-02"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		ID int `json:"id"`
		UserInfo
	}{userIDFromContext(r), userInfoFromContext(r)})
}

func (s *Server) handleListWods(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	wods, total, err := s.db.ListWods(r.Context(), page, wodsPageSize)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if wods == nil {
		wods = []models.WodRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wods":        wods,
		"total":       total,
		"page":        page,
		"total_pages": wod.TotalPages(total, wodsPageSize),
	})
}

// createWodRequest is the JSON body for scheduling a WOD.
type createWodRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Movements   []string `json:"movements"`
	Date        string   `json:"date"` // YYYY-MM-DD
}

func (req createWodRequest) toRow() (models.WodRow, error) {
	if req.Title == "" {
		return models.WodRow{}, errors.New("title is required")
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLength {
		return models.WodRow{}, errors.New("title must be at most 100 characters")
	}
	if req.Description == "" {
		return models.WodRow{}, errors.New("description is required")
	}
	t, err := wod.ParseType(req.Type)
	if err != nil {
		return models.WodRow{}, err
	}
	if len(req.Movements) == 0 {
		return models.WodRow{}, errors.New("at least one movement is required")
	}
	for _, m := range req.Movements {
		if m == "" {
			return models.WodRow{}, errors.New("movement names must not be empty")
		}
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return models.WodRow{}, err
	}
	return models.WodRow{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Type:        t,
		Movements:   req.Movements,
		Date:        date,
	}, nil
}

func (s *Server) handleCreateWod(w http.ResponseWriter, r *http.Request) {
	var req createWodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	row, err := req.toRow()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}
	uid := userIDFromContext(r)
	row.CreatedBy = &uid

	if err := s.db.InsertWod(r.Context(), row); err != nil {
		if errors.Is(err, storage.ErrDateExists) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error(), "code": "DATE_EXISTS"})
			return
		}
		s.log.Error("creating wod", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.log.Info("wod scheduled", "date", req.Date, "type", row.Type, "user_id", uid)
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleWodByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	row, err := s.db.GetWodByDate(r.Context(), date)
	if err != nil {
		writeStoreError(w, err, "wod not found")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleGetWod(w http.ResponseWriter, r *http.Request) {
	row, ok := s.wodFromPath(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleWodTypes(w http.ResponseWriter, r *http.Request) {
	type typeInfo struct {
		Type        wod.Type `json:"type"`
		Label       string   `json:"label"`
		Placeholder string   `json:"placeholder"`
		LowerBetter bool     `json:"lower_is_better"`
	}
	out := make([]typeInfo, 0, len(wod.Types))
	for _, t := range wod.Types {
		out = append(out, typeInfo{
			Type:        t,
			Label:       t.Label(),
			Placeholder: wod.Placeholder(t),
			LowerBetter: t.Direction() == wod.Ascending,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	row, ok := s.wodFromPath(w, r)
	if !ok {
		return
	}
	division, ok := parseDivision(w, r)
	if !ok {
		return
	}
	results, err := s.db.ListResults(r.Context(), row.ID, division)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, leaderboard.Build(*row, results, parsePage(r), leaderboard.PageSize))
}

func (s *Server) handleLeaderboardExport(w http.ResponseWriter, r *http.Request) {
	row, ok := s.wodFromPath(w, r)
	if !ok {
		return
	}
	division, ok := parseDivision(w, r)
	if !ok {
		return
	}
	results, err := s.db.ListResults(r.Context(), row.ID, division)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := s.exportLeaderboard(&buf, *row, leaderboard.Rank(*row, results)); err != nil {
		s.log.Error("exporting leaderboard", "wod_id", row.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "building workbook failed"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		`attachment; filename="wod-`+row.Date.Format(dateLayout)+`.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("sending leaderboard workbook", "wod_id", row.ID, "error", err)
	}
}

// submitResultRequest is the JSON body for recording a score.
type submitResultRequest struct {
	Score    string          `json:"score"`
	Division models.Division `json:"division"`
	Memo     string          `json:"memo"`
}

func (req submitResultRequest) validate() error {
	if strings.TrimSpace(req.Score) == "" {
		return errors.New("score is required")
	}
	if !req.Division.Valid() {
		return errors.New("division must be RX or SCALED")
	}
	if utf8.RuneCountInString(req.Memo) > maxResultMemoChars {
		return errors.New("memo must be at most 500 characters")
	}
	return nil
}

func (s *Server) handleSubmitResult(w http.ResponseWriter, r *http.Request) {
	var req submitResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}
	row, ok := s.wodFromPath(w, r)
	if !ok {
		return
	}

	result := models.ResultRow{
		ID:       uuid.New(),
		WodID:    row.ID,
		UserID:   userIDFromContext(r),
		Score:    req.Score,
		Division: req.Division,
	}
	if req.Memo != "" {
		memo := req.Memo
		result.Memo = &memo
	}
	saved, err := s.db.UpsertResult(r.Context(), result)
	if err != nil {
		s.log.Error("saving result", "wod_id", row.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGenerateWod(w http.ResponseWriter, r *http.Request) {
	var cfg generator.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	generated, err := s.generator.Generate(cfg)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, generated)
}

// categoryInfo is one library category with its display label and entries.
type categoryInfo struct {
	Category  generator.Category   `json:"category"`
	Label     string               `json:"label"`
	Movements []generator.Movement `json:"movements"`
}

// handleMovements previews the movement library for the requested
// categories (comma-separated or repeated ?category=, default all). Unknown
// categories are ignored.
func (s *Server) handleMovements(w http.ResponseWriter, r *http.Request) {
	var categories []generator.Category
	for _, v := range r.URL.Query()["category"] {
		for _, c := range strings.Split(v, ",") {
			cat := generator.Category(strings.TrimSpace(c))
			if cat.Valid() && !slices.Contains(categories, cat) {
				categories = append(categories, cat)
			}
		}
	}
	if len(categories) == 0 {
		categories = generator.Categories
	}

	infos := make([]categoryInfo, 0, len(categories))
	for _, c := range categories {
		infos = append(infos, categoryInfo{Category: c, Label: c.Label(), Movements: generator.Movements(c)})
	}
	names := generator.MovementNames(categories)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": infos,
		"movements":  names,
	})
}

// wodFromPath loads the WOD named by the {id} URL parameter, writing the
// error response itself when it cannot.
func (s *Server) wodFromPath(w http.ResponseWriter, r *http.Request) (*models.WodRow, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid wod ID"})
		return nil, false
	}
	row, err := s.db.GetWod(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "wod not found")
		return nil, false
	}
	return row, true
}

func parseDivision(w http.ResponseWriter, r *http.Request) (models.Division, bool) {
	d := models.Division(r.URL.Query().Get("rx"))
	if d != "" && !d.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rx must be RX or SCALED"})
		return "", false
	}
	return d, true
}

func parseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return d, nil
}

// parsePage reads ?page=, defaulting to 1 for missing or invalid values.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFoundMsg, "code": "NOT_FOUND"})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

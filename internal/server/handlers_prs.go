package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/pr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// recordPRRequest is the JSON body for logging a personal record. Benchmark
// WOD times may be sent as "m:ss" in Time instead of seconds in Value.
type recordPRRequest struct {
	Movement string  `json:"movement"`
	Value    float64 `json:"value"`
	Time     string  `json:"time,omitempty"`
	Unit     string  `json:"unit"`
	Memo     string  `json:"memo"`
	Date     string  `json:"date"` // YYYY-MM-DD
}

func (req recordPRRequest) toInput() (pr.Input, error) {
	value := req.Value
	if req.Time != "" {
		secs, err := pr.ParseTimeInput(req.Time)
		if err != nil {
			return pr.Input{}, err
		}
		value = float64(secs)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return pr.Input{}, err
	}
	in := pr.Input{
		Movement: req.Movement,
		Value:    value,
		Unit:     req.Unit,
		Memo:     req.Memo,
		Date:     date,
	}
	return in, in.Validate()
}

func (s *Server) handleRecordPR(w http.ResponseWriter, r *http.Request) {
	var req recordPRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	outcome, err := s.tracker.Record(r.Context(), userIDFromContext(r), in)
	if err != nil {
		s.log.Error("recording pr", "movement", in.Movement, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, outcome)
}

// prView is a stored record with its display string.
type prView struct {
	models.PRRow
	Display string `json:"display"`
}

func viewPRs(rows []models.PRRow) []prView {
	out := make([]prView, 0, len(rows))
	for _, row := range rows {
		out = append(out, prView{PRRow: row, Display: pr.DisplayValue(row.Movement, row.Value, row.Unit)})
	}
	return out
}

// handleListPRs returns the best entry per movement, or the full history for
// one movement when ?movement= is given.
func (s *Server) handleListPRs(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	if movement := r.URL.Query().Get("movement"); movement != "" {
		history, err := s.db.ListPRHistory(r.Context(), uid, movement)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, viewPRs(history))
		return
	}

	all, err := s.db.ListPRs(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, viewPRs(pr.Best(all)))
}

func (s *Server) handlePRMovements(w http.ResponseWriter, r *http.Request) {
	type movementInfo struct {
		Name string `json:"name"`
		Unit string `json:"unit"`
		Lift bool   `json:"lift"`
	}
	names := pr.AllMovements()
	out := make([]movementInfo, 0, len(names))
	for _, name := range names {
		out = append(out, movementInfo{Name: name, Unit: pr.Unit(name), Lift: pr.IsLift(name)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeletePR(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pr ID"})
		return
	}
	if err := s.db.DeletePR(r.Context(), id, userIDFromContext(r)); err != nil {
		writeStoreError(w, err, "pr not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

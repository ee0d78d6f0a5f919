package server

import (
	"net/http"
	"strconv"

	"github.com/claude/wodboard/internal/storage"
)

const defaultImportLogLimit = 20

// handleImportLogs lists recent archive import runs, newest first.
func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultImportLogLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.db.ListImportLogs(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []storage.ImportLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

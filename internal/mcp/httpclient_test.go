package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/wodboard/internal/leaderboard"
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/storage"
	"github.com/claude/wodboard/internal/wod"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestGetWodByDate verifies the date path segment and WOD decoding.
func TestGetWodByDate(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/wods/date/2026-03-01": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, models.WodRow{ID: id, Title: "Fran", Type: wod.ForTime})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	row, err := client.GetWodByDate(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if row.ID != id || row.Type != wod.ForTime {
		t.Errorf("row = %+v", row)
	}
}

// TestGetWodNotFound verifies a 404 maps to storage.ErrNotFound so tools can
// tell a missing WOD from a failed request.
func TestGetWodNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).GetWod(context.Background(), uuid.New())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestListWods verifies the page parameter and total decoding.
func TestListWods(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/wods": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("page"); got != "2" {
				t.Errorf("page=%q, want 2", got)
			}
			writeTestJSON(t, w, map[string]any{
				"wods":  []models.WodRow{{Title: "Grace"}},
				"total": 11,
			})
		},
	})
	defer ts.Close()

	wods, total, err := NewHTTPClient(ts.URL).ListWods(context.Background(), 2, wodsPageSize)
	if err != nil {
		t.Fatal(err)
	}
	if len(wods) != 1 || total != 11 {
		t.Errorf("got %d wods, total %d", len(wods), total)
	}
}

// TestListResultsWalksPages verifies every leaderboard page is fetched and
// the division filter is forwarded.
func TestListResultsWalksPages(t *testing.T) {
	id := uuid.New()
	var pages []string
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/wods/" + id.String() + "/results": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("rx"); got != "RX" {
				t.Errorf("rx=%q, want RX", got)
			}
			page := r.URL.Query().Get("page")
			pages = append(pages, page)
			board := leaderboard.Board{TotalPages: 2}
			board.Entries = []leaderboard.Entry{{Rank: 1, ResultRow: models.ResultRow{Score: "p" + page}}}
			writeTestJSON(t, w, board)
		},
	})
	defer ts.Close()

	results, err := NewHTTPClient(ts.URL).ListResults(context.Background(), id, models.RX)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 || pages[0] != "1" || pages[1] != "2" {
		t.Errorf("pages requested = %v, want [1 2]", pages)
	}
	if len(results) != 2 || results[0].Score != "p1" || results[1].Score != "p2" {
		t.Errorf("results = %+v", results)
	}
}

// TestListPRHistory verifies the movement filter and record decoding.
func TestListPRHistory(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/prs": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("movement"); got != "Deadlift" {
				t.Errorf("movement=%q, want Deadlift", got)
			}
			writeTestJSON(t, w, []map[string]any{
				{"movement": "Deadlift", "value": 140, "unit": "kg", "display": "140kg"},
				{"movement": "Deadlift", "value": 150, "unit": "kg", "display": "150kg"},
			})
		},
	})
	defer ts.Close()

	rows, err := NewHTTPClient(ts.URL).ListPRHistory(context.Background(), 1, "Deadlift")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1].Value != 150 {
		t.Errorf("rows = %+v", rows)
	}
}

// TestHTTPClientServerError verifies non-200 responses become errors.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/prs": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	_, err := NewHTTPClient(ts.URL).ListPRs(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, storage.ErrNotFound) {
		t.Error("500 should not map to ErrNotFound")
	}
}

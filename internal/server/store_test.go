package server

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/claude/wodboard/internal/generator"
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/pr"
	"github.com/claude/wodboard/internal/storage"
	"github.com/google/uuid"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu            sync.Mutex
	users         map[string]int
	wods          []models.WodRow
	results       []models.ResultRow
	prs           []models.PRRow
	notifications []models.NotificationRow
	importLogs    []storage.ImportLog
	pingErr       error
}

var (
	_ Store    = (*memStore)(nil)
	_ pr.Store = (*memStore)(nil)
)

func newMemStore() *memStore {
	return &memStore{users: map[string]int{"local": 1}}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) GetOrCreateUser(_ context.Context, login, _ string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.users[login]; ok {
		return id, nil
	}
	id := len(m.users) + 1
	m.users[login] = id
	return id, nil
}

func (m *memStore) InsertWod(_ context.Context, row models.WodRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wods {
		if w.Date.Equal(row.Date) {
			return storage.ErrDateExists
		}
	}
	m.wods = append(m.wods, row)
	return nil
}

func (m *memStore) GetWod(_ context.Context, id uuid.UUID) (*models.WodRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wods {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetWodByDate(_ context.Context, day time.Time) (*models.WodRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wods {
		if w.Date.Format(dateLayout) == day.Format(dateLayout) {
			return &w, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListWods(_ context.Context, page, limit int) ([]models.WodRow, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sorted := slices.Clone(m.wods)
	slices.SortFunc(sorted, func(a, b models.WodRow) int { return b.Date.Compare(a.Date) })
	start := min((page-1)*limit, len(sorted))
	end := min(start+limit, len(sorted))
	return sorted[start:end], len(sorted), nil
}

func (m *memStore) UpsertResult(_ context.Context, row models.ResultRow) (*models.ResultRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.results {
		if r.WodID == row.WodID && r.UserID == row.UserID {
			row.ID = r.ID
			m.results[i] = row
			return &row, nil
		}
	}
	m.results = append(m.results, row)
	return &row, nil
}

func (m *memStore) ListResults(_ context.Context, wodID uuid.UUID, division models.Division) ([]models.ResultRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ResultRow
	for _, r := range m.results {
		if r.WodID == wodID && (division == "" || r.Division == division) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) InsertPR(_ context.Context, row models.PRRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prs = append(m.prs, row)
	return nil
}

func (m *memStore) BestPR(_ context.Context, userID int, movement string, _ bool) (*models.PRRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.PRRow
	for _, r := range m.prs {
		if r.UserID != userID || r.Movement != movement {
			continue
		}
		if best == nil || pr.IsBetter(movement, r.Value, best.Value) {
			best = &r
		}
	}
	return best, nil
}

func (m *memStore) ListPRs(_ context.Context, userID int) ([]models.PRRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PRRow
	for _, r := range m.prs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListPRHistory(ctx context.Context, userID int, movement string) ([]models.PRRow, error) {
	all, _ := m.ListPRs(ctx, userID)
	var out []models.PRRow
	for _, r := range all {
		if r.Movement == movement {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) DeletePR(_ context.Context, id uuid.UUID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.prs {
		if r.ID == id && r.UserID == userID {
			m.prs = slices.Delete(m.prs, i, i+1)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) InsertNotification(_ context.Context, row models.NotificationRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, row)
	return nil
}

func (m *memStore) ListNotifications(_ context.Context, userID, limit int) ([]models.NotificationRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.NotificationRow
	for _, n := range m.notifications {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) CountUnreadNotifications(_ context.Context, userID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.notifications {
		if row.UserID == userID && !row.Read {
			n++
		}
	}
	return n, nil
}

func (m *memStore) MarkNotificationsRead(_ context.Context, userID int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.notifications {
		if m.notifications[i].UserID == userID && !m.notifications[i].Read {
			m.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetDataStats(context.Context) (*storage.DataStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &storage.DataStats{
		TotalAthletes: int64(len(m.users)),
		TotalWods:     int64(len(m.wods)),
		TotalResults:  int64(len(m.results)),
		TotalPRs:      int64(len(m.prs)),
	}, nil
}

func (m *memStore) ListImportLogs(_ context.Context, limit int) ([]storage.ImportLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.importLogs) > limit {
		return slices.Clone(m.importLogs[:limit]), nil
	}
	return slices.Clone(m.importLogs), nil
}

const testAPIKey = "test-key"

// zeroSource always picks the first candidate.
type zeroSource struct{}

func (zeroSource) IntN(int) int { return 0 }

func newTestServer(store *memStore) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, generator.New(zeroSource{}), pr.NewTracker(store, log), testAPIKey, log)
}

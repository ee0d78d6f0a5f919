package pr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/claude/wodboard/internal/models"
)

// memStore is an in-memory Store for tracker tests.
type memStore struct {
	mu            sync.Mutex
	prs           []models.PRRow
	notifications []models.NotificationRow
	failInsert    bool
}

var _ Store = (*memStore)(nil)

func (m *memStore) BestPR(ctx context.Context, userID int, movement string, higherIsBetter bool) (*models.PRRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.PRRow
	for i := range m.prs {
		r := &m.prs[i]
		if r.UserID != userID || r.Movement != movement {
			continue
		}
		if best == nil || (higherIsBetter && r.Value > best.Value) || (!higherIsBetter && r.Value < best.Value) {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	out := *best
	return &out, nil
}

func (m *memStore) InsertPR(ctx context.Context, row models.PRRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert {
		return errors.New("disk full")
	}
	m.prs = append(m.prs, row)
	return nil
}

func (m *memStore) InsertNotification(ctx context.Context, row models.NotificationRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, row)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var day = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// TestRecordFirstIsPR verifies the first record for a movement is a new PR
// and produces a notification pointing at it.
func TestRecordFirstIsPR(t *testing.T) {
	store := &memStore{}
	tr := NewTracker(store, testLogger())

	out, err := tr.Record(context.Background(), 1, Input{Movement: "Deadlift", Value: 140, Date: day})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !out.IsPRBroken {
		t.Error("first record should be a PR")
	}
	if out.PR.Unit != "kg" {
		t.Errorf("unit = %q, want kg (defaulted)", out.PR.Unit)
	}
	if len(store.notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(store.notifications))
	}
	n := store.notifications[0]
	if n.Type != models.NotificationPRAchieved {
		t.Errorf("type = %q, want PR_ACHIEVED", n.Type)
	}
	if n.Message != "Deadlift PR 갱신! 140kg" {
		t.Errorf("message = %q", n.Message)
	}
	if n.RelatedID == nil || *n.RelatedID != out.PR.ID {
		t.Error("notification should reference the new PR")
	}
}

// TestRecordLiftOnlyHigherBeats verifies a lighter lift is stored but not
// announced.
func TestRecordLiftOnlyHigherBeats(t *testing.T) {
	store := &memStore{}
	tr := NewTracker(store, testLogger())
	ctx := context.Background()

	if _, err := tr.Record(ctx, 1, Input{Movement: "Back Squat", Value: 120, Unit: "kg", Date: day}); err != nil {
		t.Fatal(err)
	}
	out, err := tr.Record(ctx, 1, Input{Movement: "Back Squat", Value: 115, Unit: "kg", Date: day.AddDate(0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if out.IsPRBroken {
		t.Error("115 should not beat 120")
	}
	out, err = tr.Record(ctx, 1, Input{Movement: "Back Squat", Value: 125, Unit: "kg", Date: day.AddDate(0, 0, 2)})
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsPRBroken {
		t.Error("125 should beat 120")
	}
	if len(store.prs) != 3 || len(store.notifications) != 2 {
		t.Errorf("prs = %d, notifications = %d; want 3, 2", len(store.prs), len(store.notifications))
	}
}

// TestRecordBenchmarkLowerBeats verifies benchmarks improve downwards and the
// message shows the time.
func TestRecordBenchmarkLowerBeats(t *testing.T) {
	store := &memStore{}
	tr := NewTracker(store, testLogger())
	ctx := context.Background()

	if _, err := tr.Record(ctx, 7, Input{Movement: "Fran", Value: 240, Date: day}); err != nil {
		t.Fatal(err)
	}
	out, err := tr.Record(ctx, 7, Input{Movement: "Fran", Value: 215, Date: day})
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsPRBroken {
		t.Error("215s should beat 240s")
	}
	if got := store.notifications[1].Message; got != "Fran PR 갱신! 3:35" {
		t.Errorf("message = %q", got)
	}
	// another athlete's history is separate
	out, err = tr.Record(ctx, 8, Input{Movement: "Fran", Value: 300, Date: day})
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsPRBroken {
		t.Error("first record for user 8 should be a PR")
	}
}

// TestRecordValidation verifies invalid input is rejected before storage.
func TestRecordValidation(t *testing.T) {
	store := &memStore{}
	tr := NewTracker(store, testLogger())

	cases := []Input{
		{Movement: "", Value: 10, Date: day},
		{Movement: "Deadlift", Value: 0, Date: day},
		{Movement: "Deadlift", Value: 10},
		{Movement: "Deadlift", Value: 10, Date: day, Memo: strings.Repeat("메", 301)},
	}
	for _, in := range cases {
		if _, err := tr.Record(context.Background(), 1, in); err == nil {
			t.Errorf("Record(%+v): expected validation error", in)
		}
	}
	if len(store.prs) != 0 {
		t.Errorf("stored %d invalid records", len(store.prs))
	}
}

// TestRecordStoreError verifies storage failures are wrapped and no
// notification is written.
func TestRecordStoreError(t *testing.T) {
	store := &memStore{failInsert: true}
	tr := NewTracker(store, testLogger())

	_, err := tr.Record(context.Background(), 1, Input{Movement: "Snatch", Value: 80, Date: day})
	if err == nil || !strings.Contains(err.Error(), "inserting pr") {
		t.Errorf("err = %v, want wrapped insert error", err)
	}
	if len(store.notifications) != 0 {
		t.Error("no notification expected after a failed insert")
	}
}

// TestBest verifies the best-per-movement reduction for both directions.
func TestBest(t *testing.T) {
	history := []models.PRRow{
		{Movement: "Deadlift", Value: 140},
		{Movement: "Fran", Value: 250},
		{Movement: "Deadlift", Value: 150},
		{Movement: "Fran", Value: 230},
		{Movement: "Fran", Value: 260},
		{Movement: "Deadlift", Value: 150, Unit: "later"},
	}
	best := Best(history)
	if len(best) != 2 {
		t.Fatalf("got %d movements, want 2", len(best))
	}
	if best[0].Movement != "Deadlift" || best[0].Value != 150 || best[0].Unit == "later" {
		t.Errorf("deadlift best = %+v, want first 150", best[0])
	}
	if best[1].Movement != "Fran" || best[1].Value != 230 {
		t.Errorf("fran best = %+v, want 230", best[1])
	}
}

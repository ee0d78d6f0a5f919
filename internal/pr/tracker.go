package pr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/claude/wodboard/internal/models"
	"github.com/google/uuid"
)

// Store is the persistence the tracker needs. *storage.DB satisfies it.
type Store interface {
	BestPR(ctx context.Context, userID int, movement string, higherIsBetter bool) (*models.PRRow, error)
	InsertPR(ctx context.Context, row models.PRRow) error
	InsertNotification(ctx context.Context, row models.NotificationRow) error
}

// Input is a submitted record.
type Input struct {
	Movement string    `json:"movement"`
	Value    float64   `json:"value"`
	Unit     string    `json:"unit"`
	Memo     string    `json:"memo,omitempty"`
	Date     time.Time `json:"date"`
}

const maxMemoLength = 300

// Validate checks the fields the form cannot enforce.
func (in Input) Validate() error {
	if in.Movement == "" {
		return errors.New("movement is required")
	}
	if in.Value <= 0 {
		return errors.New("value must be greater than 0")
	}
	if utf8.RuneCountInString(in.Memo) > maxMemoLength {
		return fmt.Errorf("memo must be at most %d characters", maxMemoLength)
	}
	if in.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// Outcome is the stored record and whether it beat the previous best.
type Outcome struct {
	PR         models.PRRow `json:"pr"`
	IsPRBroken bool         `json:"is_pr_broken"`
}

// Tracker records PR entries and announces new bests.
type Tracker struct {
	store Store
	log   *slog.Logger
}

// NewTracker creates a Tracker backed by store.
func NewTracker(store Store, log *slog.Logger) *Tracker {
	return &Tracker{store: store, log: log}
}

// Record stores in for userID. The first record for a movement always
// counts as a new PR.
func (t *Tracker) Record(ctx context.Context, userID int, in Input) (*Outcome, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	unit := in.Unit
	if unit == "" {
		unit = Unit(in.Movement)
	}

	previous, err := t.store.BestPR(ctx, userID, in.Movement, IsLift(in.Movement))
	if err != nil {
		return nil, fmt.Errorf("loading previous best: %w", err)
	}

	row := models.PRRow{
		ID:       uuid.New(),
		UserID:   userID,
		Movement: in.Movement,
		Value:    in.Value,
		Unit:     unit,
		Date:     in.Date,
	}
	if in.Memo != "" {
		memo := in.Memo
		row.Memo = &memo
	}
	if err := t.store.InsertPR(ctx, row); err != nil {
		return nil, fmt.Errorf("inserting pr: %w", err)
	}

	broken := previous == nil || IsBetter(in.Movement, in.Value, previous.Value)
	if broken {
		relatedID := row.ID
		n := models.NotificationRow{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      models.NotificationPRAchieved,
			Message:   fmt.Sprintf("%s PR 갱신! %s", in.Movement, DisplayValue(in.Movement, in.Value, unit)),
			RelatedID: &relatedID,
		}
		if err := t.store.InsertNotification(ctx, n); err != nil {
			return nil, fmt.Errorf("inserting pr notification: %w", err)
		}
		t.log.Info("new personal record", "user_id", userID, "movement", in.Movement, "value", in.Value)
	}

	return &Outcome{PR: row, IsPRBroken: broken}, nil
}

// Best reduces a record history to the best entry per movement, keeping the
// order in which movements first appear. On equal values the earlier entry wins.
func Best(history []models.PRRow) []models.PRRow {
	index := map[string]int{}
	var best []models.PRRow
	for _, r := range history {
		i, ok := index[r.Movement]
		if !ok {
			index[r.Movement] = len(best)
			best = append(best, r)
			continue
		}
		if IsBetter(r.Movement, r.Value, best[i].Value) {
			best[i] = r
		}
	}
	return best
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/storage"
	"github.com/claude/wodboard/internal/wod"
	"github.com/google/uuid"
)

const (
	maxTitleLength = 100
	maxMemoLength  = 500
)

// Stats tracks import progress.
type Stats struct {
	WodsInserted int
	WodsExisting int
	WodsSkipped  int

	ResultsUpserted int
	ResultsSkipped  int
	UsersSeen       int
}

// Source yields archived rows. *Archive satisfies it.
type Source interface {
	Wods(ctx context.Context) ([]ArchiveWod, error)
	Results(ctx context.Context) ([]ArchiveResult, error)
}

// Store is the persistence the importer writes to. *storage.DB satisfies it.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	GetWodByDate(ctx context.Context, day time.Time) (*models.WodRow, error)
	InsertWod(ctx context.Context, row models.WodRow) error
	UpsertResult(ctx context.Context, row models.ResultRow) (*models.ResultRow, error)
}

var _ Store = (*storage.DB)(nil)

// Importer copies an archive into the database. WODs on dates that already
// have one are kept; their archived results attach to the existing WOD.
type Importer struct {
	db     Store
	log    *slog.Logger
	dryRun bool
	stats  Stats

	wodIDs  map[string]uuid.UUID // date -> WOD ID
	userIDs map[string]int       // login -> user ID
}

// New creates a new Importer.
func New(db Store, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{
		db:      db,
		log:     log,
		dryRun:  dryRun,
		wodIDs:  map[string]uuid.UUID{},
		userIDs: map[string]int{},
	}
}

// Import copies every WOD and then every result from src.
func (imp *Importer) Import(ctx context.Context, src Source) (*Stats, error) {
	wods, err := src.Wods(ctx)
	if err != nil {
		return &imp.stats, err
	}
	for _, w := range wods {
		if err := imp.importWod(ctx, w); err != nil {
			return &imp.stats, fmt.Errorf("importing wod %s: %w", w.Date, err)
		}
	}

	results, err := src.Results(ctx)
	if err != nil {
		return &imp.stats, err
	}
	for _, r := range results {
		if err := imp.importResult(ctx, r); err != nil {
			return &imp.stats, fmt.Errorf("importing result %s/%s: %w", r.WodDate, r.Login, err)
		}
	}

	imp.stats.UsersSeen = len(imp.userIDs)
	return &imp.stats, nil
}

// convertWod validates an archived WOD the same way the API validates a new one.
func convertWod(w ArchiveWod) (models.WodRow, error) {
	title := strings.TrimSpace(w.Title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return models.WodRow{}, fmt.Errorf("title must be 1-%d characters", maxTitleLength)
	}
	if strings.TrimSpace(w.Description) == "" {
		return models.WodRow{}, errors.New("description is empty")
	}
	t, err := wod.ParseType(strings.ToUpper(strings.TrimSpace(w.Type)))
	if err != nil {
		return models.WodRow{}, err
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(w.Date))
	if err != nil {
		return models.WodRow{}, fmt.Errorf("date %q: %w", w.Date, err)
	}
	var movements []string
	for _, line := range strings.Split(w.Movements, "\n") {
		if m := strings.TrimSpace(line); m != "" {
			movements = append(movements, m)
		}
	}
	if len(movements) == 0 {
		return models.WodRow{}, errors.New("no movements")
	}
	return models.WodRow{
		ID:          uuid.New(),
		Title:       title,
		Description: w.Description,
		Type:        t,
		Movements:   movements,
		Date:        day,
	}, nil
}

func (imp *Importer) importWod(ctx context.Context, w ArchiveWod) error {
	row, err := convertWod(w)
	if err != nil {
		imp.log.Warn("skipping wod", "date", w.Date, "title", w.Title, "error", err)
		imp.stats.WodsSkipped++
		return nil
	}
	date := row.Date.Format("2006-01-02")

	// An earlier archive row already claimed this date. Dry runs never
	// inserted it, so the database cannot be asked.
	if _, ok := imp.wodIDs[date]; ok {
		imp.stats.WodsExisting++
		return nil
	}

	existing, err := imp.db.GetWodByDate(ctx, row.Date)
	switch {
	case err == nil:
		imp.wodIDs[date] = existing.ID
		imp.stats.WodsExisting++
		return nil
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}

	if !imp.dryRun {
		if err := imp.db.InsertWod(ctx, row); err != nil {
			return err
		}
	}
	imp.wodIDs[date] = row.ID
	imp.stats.WodsInserted++
	return nil
}

func (imp *Importer) importResult(ctx context.Context, r ArchiveResult) error {
	date := strings.TrimSpace(r.WodDate)
	wodID, ok := imp.wodIDs[date]
	if !ok {
		imp.log.Warn("skipping result for unknown wod", "date", date, "login", r.Login)
		imp.stats.ResultsSkipped++
		return nil
	}
	division := models.Division(strings.ToUpper(strings.TrimSpace(r.Division)))
	switch {
	case strings.TrimSpace(r.Login) == "":
		imp.log.Warn("skipping result without login", "date", date)
		imp.stats.ResultsSkipped++
		return nil
	case strings.TrimSpace(r.Score) == "":
		imp.log.Warn("skipping result without score", "date", date, "login", r.Login)
		imp.stats.ResultsSkipped++
		return nil
	case !division.Valid():
		imp.log.Warn("skipping result with unknown division", "date", date, "login", r.Login, "division", r.Division)
		imp.stats.ResultsSkipped++
		return nil
	case utf8.RuneCountInString(r.Memo) > maxMemoLength:
		imp.log.Warn("skipping result with oversized memo", "date", date, "login", r.Login)
		imp.stats.ResultsSkipped++
		return nil
	}

	uid, err := imp.userID(ctx, strings.TrimSpace(r.Login), r.DisplayName)
	if err != nil {
		return err
	}

	row := models.ResultRow{
		ID:       uuid.New(),
		WodID:    wodID,
		UserID:   uid,
		Score:    strings.TrimSpace(r.Score),
		Division: division,
	}
	if r.Memo != "" {
		memo := r.Memo
		row.Memo = &memo
	}
	if !imp.dryRun {
		if _, err := imp.db.UpsertResult(ctx, row); err != nil {
			return err
		}
	}
	imp.stats.ResultsUpserted++
	return nil
}

// userID resolves a login once per import. Dry runs hand out placeholder IDs
// so nothing is written.
func (imp *Importer) userID(ctx context.Context, login, displayName string) (int, error) {
	if id, ok := imp.userIDs[login]; ok {
		return id, nil
	}
	id := -(len(imp.userIDs) + 1)
	if !imp.dryRun {
		var err error
		id, err = imp.db.GetOrCreateUser(ctx, login, displayName)
		if err != nil {
			return 0, err
		}
	}
	imp.userIDs[login] = id
	return id, nil
}

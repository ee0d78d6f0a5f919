package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/wodboard/internal/generator"
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/storage"
	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// runTimeout bounds one scheduled run.
const runTimeout = 30 * time.Second

// Store is the persistence the daily job needs. *storage.DB satisfies it.
type Store interface {
	GetWodByDate(ctx context.Context, day time.Time) (*models.WodRow, error)
	InsertWod(ctx context.Context, row models.WodRow) error
}

var _ Store = (*storage.DB)(nil)

// Scheduler posts a generated WOD for each day that has none.
type Scheduler struct {
	store Store
	gen   *generator.Generator
	cfg   generator.Config
	loc   *time.Location
	log   *slog.Logger
	now   func() time.Time
	cron  *cron.Cron
}

// New creates a Scheduler. Days are counted in loc.
func New(store Store, gen *generator.Generator, cfg generator.Config, loc *time.Location, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store: store,
		gen:   gen,
		cfg:   cfg,
		loc:   loc,
		log:   log,
		now:   time.Now,
		cron:  cron.NewWithLocation(loc),
	}
}

// Start registers the job under a six-field cron spec (with seconds) and
// starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if err := s.cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("scheduling daily wod %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("daily wod scheduler started", "spec", spec, "timezone", s.loc.String())
	return nil
}

// Stop halts the cron loop. A run already in progress finishes.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("daily wod failed", "error", err)
	}
}

// RunOnce generates and stores today's WOD unless one exists. It reports
// whether a WOD was created. Losing a race against a manual insert is not
// an error.
func (s *Scheduler) RunOnce(ctx context.Context) (bool, error) {
	now := s.now().In(s.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date := day.Format("2006-01-02")

	existing, err := s.store.GetWodByDate(ctx, day)
	switch {
	case err == nil:
		s.log.Info("wod already scheduled", "date", date, "title", existing.Title)
		return false, nil
	case !errors.Is(err, storage.ErrNotFound):
		return false, fmt.Errorf("checking wod for %s: %w", date, err)
	}

	generated, err := s.gen.Generate(s.cfg)
	if err != nil {
		return false, fmt.Errorf("generating wod: %w", err)
	}

	row := models.WodRow{
		ID:          uuid.New(),
		Title:       generated.Title,
		Description: generated.Description,
		Type:        generated.Type,
		Movements:   generated.Movements,
		Date:        day,
	}
	if err := s.store.InsertWod(ctx, row); err != nil {
		if errors.Is(err, storage.ErrDateExists) {
			s.log.Info("wod scheduled concurrently", "date", date)
			return false, nil
		}
		return false, fmt.Errorf("storing wod for %s: %w", date, err)
	}

	s.log.Info("daily wod posted", "date", date, "title", row.Title, "type", row.Type)
	return true, nil
}

package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/wodboard/internal/export"
	"github.com/claude/wodboard/internal/generator"
	"github.com/claude/wodboard/internal/leaderboard"
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/pr"
	"github.com/claude/wodboard/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the persistence the HTTP handlers need.
type Store interface {
	Ping(ctx context.Context) error
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	InsertWod(ctx context.Context, row models.WodRow) error
	GetWod(ctx context.Context, id uuid.UUID) (*models.WodRow, error)
	GetWodByDate(ctx context.Context, day time.Time) (*models.WodRow, error)
	ListWods(ctx context.Context, page, limit int) ([]models.WodRow, int, error)
	UpsertResult(ctx context.Context, row models.ResultRow) (*models.ResultRow, error)
	ListResults(ctx context.Context, wodID uuid.UUID, division models.Division) ([]models.ResultRow, error)
	ListPRs(ctx context.Context, userID int) ([]models.PRRow, error)
	ListPRHistory(ctx context.Context, userID int, movement string) ([]models.PRRow, error)
	DeletePR(ctx context.Context, id uuid.UUID, userID int) error
	ListNotifications(ctx context.Context, userID, limit int) ([]models.NotificationRow, error)
	CountUnreadNotifications(ctx context.Context, userID int) (int, error)
	MarkNotificationsRead(ctx context.Context, userID int) (int64, error)
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
	ListImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        Store
	generator *generator.Generator
	tracker   *pr.Tracker
	log       *slog.Logger
	apiKey    string
	whois     WhoIser
	router    chi.Router

	// exportLeaderboard renders the xlsx download.
	exportLeaderboard func(w io.Writer, wod models.WodRow, entries []leaderboard.Entry) error
}

// New creates a new Server with all routes configured.
func New(db Store, gen *generator.Generator, tracker *pr.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		generator: gen,
		tracker:   tracker,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),

		exportLeaderboard: export.Leaderboard,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity from the local dev user to tailnet WhoIs.
func (s *Server) SetTailscale(whois WhoIser) {
	s.whois = whois
}

// SetMCP mounts the MCP streamable HTTP handler at /mcp. The handler sees
// the same identity middleware as the REST API.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identify)

	s.router.Get("/api/v1/health", s.handleHealth)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/stats", s.handleStats)

	s.router.Route("/api/v1/wods", func(r chi.Router) {
		r.Get("/", s.handleListWods)
		r.Get("/types", s.handleWodTypes)
		r.Get("/date/{date}", s.handleWodByDate)
		r.Get("/{id}", s.handleGetWod)
		r.Get("/{id}/results", s.handleLeaderboard)
		r.Get("/{id}/results.xlsx", s.handleLeaderboardExport)
		r.Post("/{id}/results", s.handleSubmitResult)

		// Admin endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleCreateWod)
			r.Post("/generate", s.handleGenerateWod)
		})
	})

	s.router.Get("/api/v1/movements", s.handleMovements)

	s.router.Route("/api/v1/prs", func(r chi.Router) {
		r.Get("/", s.handleListPRs)
		r.Post("/", s.handleRecordPR)
		r.Get("/movements", s.handlePRMovements)
		r.Delete("/{id}", s.handleDeletePR)
	})

	s.router.Get("/api/v1/notifications", s.handleListNotifications)
	s.router.Post("/api/v1/notifications/read", s.handleMarkNotificationsRead)

	s.router.With(APIKeyAuth(s.apiKey)).Get("/api/v1/imports", s.handleImportLogs)
}

package mcp

import (
	"context"
	"time"

	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetWod(ctx context.Context, id uuid.UUID) (*models.WodRow, error)
	GetWodByDate(ctx context.Context, day time.Time) (*models.WodRow, error)
	ListWods(ctx context.Context, page, limit int) ([]models.WodRow, int, error)
	ListResults(ctx context.Context, wodID uuid.UUID, division models.Division) ([]models.ResultRow, error)
	ListPRs(ctx context.Context, userID int) ([]models.PRRow, error)
	ListPRHistory(ctx context.Context, userID int, movement string) ([]models.PRRow, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

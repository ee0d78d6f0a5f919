package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/wodboard/internal/generator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, gen *generator.Generator, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("wodboard", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("wodboard box leaderboard server. Look up daily WODs, ranked results and personal records, and generate new workouts. Personal records are scoped to the authenticated athlete."),
	)

	h := &handlers{ds: ds, gen: gen, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGenerateWod, Handler: h.generateWod},
		server.ServerTool{Tool: toolGetLeaderboard, Handler: h.getLeaderboard},
		server.ServerTool{Tool: toolListWods, Handler: h.listWods},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolFormatScore, Handler: h.formatScore},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.today},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	gen *generator.Generator
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resToday = mcp.NewResource(
	"wodboard://today",
	"Today's WOD",
	mcp.WithResourceDescription("Today's scheduled WOD with its top ranked results"),
	mcp.WithMIMEType("application/json"),
)

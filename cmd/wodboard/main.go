package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/wodboard/internal/config"
	"github.com/claude/wodboard/internal/generator"
	wodmcp "github.com/claude/wodboard/internal/mcp"
	"github.com/claude/wodboard/internal/pr"
	"github.com/claude/wodboard/internal/scheduler"
	"github.com/claude/wodboard/internal/server"
	"github.com/claude/wodboard/internal/storage"
	"github.com/claude/wodboard/internal/wod"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("wodboard starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	gen := generator.New(nil)
	tracker := pr.NewTracker(db, log)

	// Create server
	srv := server.New(db, gen, tracker, cfg.Auth.APIKey, log)

	// MCP over streamable HTTP, sharing the REST identity middleware
	mcpSrv := wodmcp.New(db, gen, Version, log)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return wodmcp.WithUserID(ctx, server.UserID(r))
		}),
	))

	// Daily WOD job
	if cfg.Scheduler.Enabled {
		sched, err := newScheduler(cfg.Scheduler, db, gen, log)
		if err != nil {
			log.Error("invalid scheduler config", "error", err)
			os.Exit(1)
		}
		if err := sched.Start(cfg.Scheduler.Spec); err != nil {
			log.Error("scheduler start failed", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// newScheduler converts the YAML scheduler section into a daily job.
func newScheduler(cfg config.SchedulerConfig, db *storage.DB, gen *generator.Generator, log *slog.Logger) (*scheduler.Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	t, err := wod.ParseType(cfg.Generator.Type)
	if err != nil {
		return nil, err
	}
	categories := make([]generator.Category, 0, len(cfg.Generator.Categories))
	for _, c := range cfg.Generator.Categories {
		categories = append(categories, generator.Category(c))
	}
	return scheduler.New(db, gen, generator.Config{
		Type:            t,
		DurationMinutes: cfg.Generator.DurationMinutes,
		Categories:      categories,
		MovementCount:   cfg.Generator.MovementCount,
	}, loc, log), nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/wodboard/internal/config"
	"github.com/claude/wodboard/internal/importer"
	"github.com/claude/wodboard/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	archivePath := flag.String("path", "", "path to SQLite archive (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without inserting into database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *archivePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: wodboard-import -config config.yaml -path /path/to/archive.db [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	archive, err := importer.OpenArchive(*archivePath)
	if err != nil {
		log.Error("failed to open archive", "path", *archivePath, "error", err)
		os.Exit(1)
	}
	defer archive.Close()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.Database.DSN()

	// Run migrations
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: no WODs or results will be written to the database")
	}

	// Connect database
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Run import
	imp := importer.New(db, log, *dryRun)
	stats, err := imp.ImportLogged(ctx, archive, db, *archivePath)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"wods_inserted", stats.WodsInserted,
		"wods_existing", stats.WodsExisting,
		"wods_skipped", stats.WodsSkipped,
		"results_upserted", stats.ResultsUpserted,
		"results_skipped", stats.ResultsSkipped,
		"users_seen", stats.UsersSeen,
	)
}

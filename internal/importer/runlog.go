package importer

import (
	"context"
	"time"

	"github.com/claude/wodboard/internal/storage"
)

// Recorder persists import runs. *storage.DB satisfies it.
type Recorder interface {
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log storage.ImportLog) error
}

var _ Recorder = (*storage.DB)(nil)

// ImportLogged runs Import and records it in rec: a "running" entry first,
// finalized as "success" or "error" with the counts. Logging failures are
// reported but never fail the import.
func (imp *Importer) ImportLogged(ctx context.Context, src Source, rec Recorder, source string) (*Stats, error) {
	start := time.Now()
	logID, err := rec.InsertImportLog(ctx, storage.ImportLog{
		Source: source,
		Status: "running",
		DryRun: imp.dryRun,
	})
	if err != nil {
		imp.log.Error("failed to create import log", "error", err)
	}

	stats, importErr := imp.Import(ctx, src)
	if err != nil {
		return stats, importErr
	}

	status := "success"
	var errMsg *string
	if importErr != nil {
		status = "error"
		msg := importErr.Error()
		errMsg = &msg
	}
	durationMs := int(time.Since(start).Milliseconds())

	finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := rec.UpdateImportLog(finalCtx, logID, storage.ImportLog{
		Status:          status,
		WodsInserted:    stats.WodsInserted,
		WodsExisting:    stats.WodsExisting,
		WodsSkipped:     stats.WodsSkipped,
		ResultsUpserted: stats.ResultsUpserted,
		ResultsSkipped:  stats.ResultsSkipped,
		UsersSeen:       stats.UsersSeen,
		DurationMs:      &durationMs,
		ErrorMessage:    errMsg,
	}); err != nil {
		imp.log.Error("failed to finalize import log", "log_id", logID, "error", err)
	}
	return stats, importErr
}

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"syndex/internal/syndicate"
)

// Worker runs syndicate extraction for queued jobs. Documents are
// independent, so workers share nothing but the read-only engine.
type Worker struct {
	engine *syndicate.Engine
	stats  *ExtractStats
	log    *slog.Logger
}

func NewWorker(engine *syndicate.Engine, stats *ExtractStats, log *slog.Logger) *Worker {
	return &Worker{engine: engine, stats: stats, log: log}
}

// Process runs one job to completion. Extraction is deterministic, so
// there are no internal retries: a failure is recorded and the caller
// decides whether to resubmit different bytes.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.SetFailed("shutdown before processing")
		return
	}

	job.SetStatus(StatusExtracting)
	start := time.Now()

	res, err := w.engine.Extract(job.fileData, syndicate.Options{
		Filename:   job.Filename,
		IssuerName: job.Issuer,
	})
	w.stats.Record(time.Since(start).Milliseconds())

	if err != nil {
		log.Error("extraction failed", "error", err)
		job.SetFailed(err.Error())
		return
	}

	log.Info("job complete",
		"section_found", res.SectionFound,
		"appointments", len(res.Appointments),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	job.SetResult(res)
}

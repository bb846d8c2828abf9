package worker

import (
	"context"
	"time"

	"github.com/Bigidan/beauty-salon-ms/internal/repository"
	"github.com/Bigidan/beauty-salon-ms/pkg/logger"
)

// OutboxCleanupWorker prunes processed outbox events past their retention
// so the table does not grow without bound.
type OutboxCleanupWorker struct {
	outbox        repository.OutboxRepository
	logger        *logger.Logger
	retentionDays int
	interval      time.Duration
}

func NewOutboxCleanupWorker(outbox repository.OutboxRepository, log *logger.Logger, retentionDays int, interval time.Duration) *OutboxCleanupWorker {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &OutboxCleanupWorker{
		outbox:        outbox,
		logger:        log,
		retentionDays: retentionDays,
		interval:      interval,
	}
}

func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().AddDate(0, 0, -w.retentionDays)
			deleted, err := w.outbox.DeleteProcessedBefore(ctx, cutoff)
			if err != nil {
				w.logger.Error(err, "failed to prune outbox events")
				continue
			}
			if deleted > 0 {
				w.logger.Info("pruned processed outbox events", "count", deleted)
			}
		}
	}
}

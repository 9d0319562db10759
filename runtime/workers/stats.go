package workers

import (
	"context"
	"log/slog"
	"time"

	"bootbot/contract"
	"bootbot/observability"
)

var _ contract.Worker = (*StatsWorker)(nil)

// StatsWorker logs a counters snapshot at a fixed interval.
type StatsWorker struct {
	log      *slog.Logger
	stats    *observability.StatsManager
	interval time.Duration
}

func NewStatsWorker(log *slog.Logger, stats *observability.StatsManager, interval time.Duration) *StatsWorker {
	return &StatsWorker{log: log, stats: stats, interval: interval}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case <-ticker.C:
			snapshot := w.stats.Snapshot()
			args := make([]any, 0, len(snapshot)*2)
			for k, v := range snapshot {
				args = append(args, k, v)
			}
			w.log.Debug("Bot counters", args...)
		}
	}
}

package worker

import (
	"context"
	"log/slog"
	"time"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

// AssignmentWorker keeps the driver panel in step with the assignment feed.
type AssignmentWorker struct {
	panel    Refresher
	interval time.Duration
	log      *slog.Logger
}

func NewAssignmentWorker(panel Refresher, interval time.Duration, log *slog.Logger) *AssignmentWorker {
	return &AssignmentWorker{
		panel:    panel,
		interval: interval,
		log:      log,
	}
}

// Start polls until ctx is done. A non-positive interval disables polling.
func (w *AssignmentWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Info("assignment polling disabled")
		return
	}

	w.log.Info("starting assignment worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("assignment worker stopped")
			return
		case <-ticker.C:
			if err := w.panel.Refresh(ctx); err != nil {
				w.log.Error("assignment refresh failed", "error", err)
			}
		}
	}
}

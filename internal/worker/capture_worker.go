package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/razorpay-integration/internal/core/service"
)

type CaptureSweeper interface {
	CaptureAuthorized(ctx context.Context, opts service.SweepOptions) (service.SweepSummary, error)
}

// CaptureWorker periodically captures payments that were authorized but not
// yet settled.
type CaptureWorker struct {
	sweeper  CaptureSweeper
	interval time.Duration
	opts     service.SweepOptions
	logger   *slog.Logger
}

func NewCaptureWorker(
	sweeper CaptureSweeper,
	interval time.Duration,
	opts service.SweepOptions,
	logger *slog.Logger,
) *CaptureWorker {
	return &CaptureWorker{
		sweeper:  sweeper,
		interval: interval,
		opts:     opts,
		logger:   logger,
	}
}

// Start runs a sweep immediately and then once per interval until ctx is done.
func (w *CaptureWorker) Start(ctx context.Context) {
	w.logger.Info("capture worker started", "interval", w.interval, "sandbox", w.opts.Sandbox)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("capture worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single capture sweep.
func (w *CaptureWorker) RunOnce(ctx context.Context) service.SweepSummary {
	summary, err := w.sweeper.CaptureAuthorized(ctx, w.opts)
	if err != nil {
		w.logger.Error("capture sweep failed", "error", err)
		return summary
	}

	if summary.Processed > 0 {
		w.logger.Info("capture sweep finished",
			"processed", summary.Processed,
			"completed", summary.Completed,
			"failed", summary.Failed,
			"pending", summary.Pending,
		)
	}
	return summary
}

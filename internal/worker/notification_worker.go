package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/sla"
)

// DefaultSLAScanInterval is how often open tickets are checked.
const DefaultSLAScanInterval = time.Minute

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// SLAWatcher raises a feed warning when a ticket enters its SLA warning
// window.
type SLAWatcher struct {
	store    *desk.Store
	notify   *service.NotificationService
	logger   *zap.Logger
	clock    sla.Clock
	interval time.Duration
}

// NewSLAWatcher builds a watcher. A non-positive interval uses the default.
func NewSLAWatcher(store *desk.Store, notify *service.NotificationService, logger *zap.Logger, interval time.Duration) *SLAWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultSLAScanInterval
	}
	return &SLAWatcher{store: store, notify: notify, logger: logger, clock: time.Now, interval: interval}
}

// Run scans until ctx is cancelled.
func (w *SLAWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Scan(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sla watcher stopped")
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan checks every ticket once and returns how many warnings were raised.
func (w *SLAWatcher) Scan(ctx context.Context) int {
	now := w.clock()
	raised := 0
	for _, t := range w.store.Tickets(desk.TicketFilter{}) {
		result := sla.EvaluateTicket(t, now)
		if result.Severity != sla.SeverityWarning {
			continue
		}
		if w.notify.WarnSLA(ctx, t, result.Label) {
			raised++
		}
	}
	if raised > 0 {
		w.logger.Debug("sla warnings raised", zap.Int("count", raised))
	}
	return raised
}

package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/service"
)

func TestSLAWatcherWarnsOncePerTicket(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	store := desk.NewStore()
	near := store.ImportTicket(domain.Ticket{Title: "near", Urgency: domain.UrgencyCritical, CreatedAt: now.Add(-3 * time.Hour)})
	store.ImportTicket(domain.Ticket{Title: "fresh", Urgency: domain.UrgencyLow, CreatedAt: now})
	store.ImportTicket(domain.Ticket{Title: "late", Urgency: domain.UrgencyHigh, CreatedAt: now.Add(-20 * time.Hour)})

	notify := service.NewNotificationService(events.NewInMemoryDispatcher(nil), nil, config.NotificationConfig{})
	watcher := NewSLAWatcher(store, notify, nil, time.Hour)
	watcher.clock = func() time.Time { return now }

	assert.Equal(t, 1, watcher.Scan(context.Background()))
	assert.Equal(t, 0, watcher.Scan(context.Background()))

	feed := notify.List(context.Background())
	require.Len(t, feed, 1)
	assert.Equal(t, domain.NotificationSLAWarning, feed[0].Type)
	assert.Contains(t, feed[0].Message, near.ID)
}

func TestSLAWatcherStopsOnCancel(t *testing.T) {
	notify := service.NewNotificationService(nil, nil, config.NotificationConfig{})
	watcher := NewSLAWatcher(desk.NewStore(), notify, nil, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestStartNotificationWorkerToleratesNil(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil) })
}

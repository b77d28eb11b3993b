package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// BootstrapResult reports where the desk state came from.
type BootstrapResult struct {
	RestoredTickets int
	RestoredColumns bool
	Seeded          bool
}

// Bootstrap restores columns and tickets from the mirror. When the mirror
// holds no tickets and seeding is enabled, seedTickets are loaded and
// mirrored instead. Theme and logo are restored through settings.
func Bootstrap(ctx context.Context, store *desk.Store, mirror *Mirror, settings *SettingsService, seedTickets []domain.Ticket, seedOnEmpty bool, logger *zap.Logger) BootstrapResult {
	if logger == nil {
		logger = zap.NewNop()
	}
	var result BootstrapResult

	snap := desk.Snapshot{}
	if mirror.Load(ctx, repository.KeyBoardColumns, &snap.Columns) && len(snap.Columns) > 0 {
		result.RestoredColumns = true
	} else {
		snap.Columns = nil
	}

	var tickets []domain.Ticket
	if mirror.Load(ctx, repository.KeyTickets, &tickets) && len(tickets) > 0 {
		snap.Tickets = tickets
		store.Restore(snap)
		result.RestoredTickets = store.Len()
	} else if seedOnEmpty && len(seedTickets) > 0 {
		snap.Tickets = seedTickets
		store.Restore(snap)
		result.Seeded = true
		mirror.SaveTickets(ctx, store)
	} else if result.RestoredColumns {
		store.Restore(snap)
	}

	if settings != nil {
		settings.Restore(ctx)
	}

	logger.Info("desk state loaded",
		zap.Int("restored_tickets", result.RestoredTickets),
		zap.Bool("restored_columns", result.RestoredColumns),
		zap.Bool("seeded", result.Seeded),
		zap.Int("tickets", store.Len()))
	return result
}

package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
)

// BoardService manages columns and the tag catalog.
type BoardService struct {
	store      *desk.Store
	mirror     *Mirror
	dispatcher events.Dispatcher
	activity   *ActivityService
	metrics    *observability.Metrics
}

// BoardDependencies bundles collaborators for the board service.
type BoardDependencies struct {
	Store      *desk.Store
	Mirror     *Mirror
	Dispatcher events.Dispatcher
	Activity   *ActivityService
	Metrics    *observability.Metrics
}

// NewBoardService creates the service.
func NewBoardService(deps BoardDependencies) *BoardService {
	return &BoardService{
		store:      deps.Store,
		mirror:     deps.Mirror,
		dispatcher: deps.Dispatcher,
		activity:   deps.Activity,
		metrics:    deps.Metrics,
	}
}

// Columns lists the board columns in order.
func (s *BoardService) Columns(_ context.Context) []domain.Column {
	return s.store.Columns()
}

// AddColumn appends a column.
func (s *BoardService) AddColumn(ctx context.Context, label, color string) (*domain.Column, error) {
	col, err := s.store.AddColumn(label, color)
	s.metrics.RecordMutation("add_column", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"label": label})
	}
	s.columnsChanged(ctx, fmt.Sprintf("Added column %q", col.Label), events.ColumnsChangedPayload{Operation: "add", Key: col.Key})
	return &col, nil
}

// RenameColumn relabels a column.
func (s *BoardService) RenameColumn(ctx context.Context, key, label string) (*domain.Column, error) {
	col, err := s.store.RenameColumn(key, label)
	s.metrics.RecordMutation("rename_column", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"key": key})
	}
	s.columnsChanged(ctx, fmt.Sprintf("Renamed column %s to %q", key, col.Label), events.ColumnsChangedPayload{Operation: "rename", Key: key})
	return &col, nil
}

// DeleteColumn removes a column after moving its tickets to open.
func (s *BoardService) DeleteColumn(ctx context.Context, key string) (int, error) {
	migrated, err := s.store.DeleteColumn(key)
	s.metrics.RecordMutation("delete_column", mutationResult(err))
	if err != nil {
		return 0, mapStoreError(err, map[string]any{"key": key})
	}
	if migrated > 0 {
		s.mirror.SaveTickets(ctx, s.store)
	}
	s.columnsChanged(ctx, fmt.Sprintf("Removed column %s, moved %d tickets to open", key, migrated),
		events.ColumnsChangedPayload{Operation: "delete", Key: key, Migrated: migrated})
	return migrated, nil
}

// ReorderColumns moves fromKey into toKey's slot. It reports whether the
// order changed.
func (s *BoardService) ReorderColumns(ctx context.Context, fromKey, toKey string) bool {
	moved := s.store.ReorderColumns(fromKey, toKey)
	if !moved {
		s.metrics.RecordMutation("reorder_columns", "noop")
		return false
	}
	s.metrics.RecordMutation("reorder_columns", mutationResult(nil))
	s.columnsChanged(ctx, fmt.Sprintf("Moved column %s to position of %s", fromKey, toKey),
		events.ColumnsChangedPayload{Operation: "reorder", Key: fromKey})
	return true
}

// Tags lists the catalog.
func (s *BoardService) Tags(_ context.Context) []domain.Tag {
	return s.store.Tags()
}

// CreateTag adds a catalog tag, attaching it to ticketID when given.
func (s *BoardService) CreateTag(ctx context.Context, label, color, ticketID string) (*domain.Tag, error) {
	tag, err := s.store.CreateTag(label, color, ticketID)
	s.metrics.RecordMutation("create_tag", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"label": label, "ticket_id": ticketID})
	}
	if ticketID != "" {
		s.mirror.SaveTickets(ctx, s.store)
		s.activity.Record(ctx, domain.ActionTagsUpdate, "Ticket "+ticketID, "Created tag "+tag.Label)
		s.publishEvent(ctx, events.New(events.EventTicketUpdated, ticketID, events.TicketUpdatedPayload{Field: "tags"}))
	}
	return &tag, nil
}

func (s *BoardService) columnsChanged(ctx context.Context, detail string, payload events.ColumnsChangedPayload) {
	s.mirror.SaveLatest(ctx, repository.KeyBoardColumns, func() any { return s.store.Columns() })
	s.activity.Record(ctx, domain.ActionColumnEdit, "Kanban board", detail)
	s.publishEvent(ctx, events.New(events.EventColumnsChanged, "", payload))
}

func (s *BoardService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/sla"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketView is a ticket with its SLA badge evaluated at read time.
type TicketView struct {
	domain.Ticket
	SLA sla.Result `json:"sla"`
}

// BoardView is everything the Kanban board renders.
type BoardView struct {
	Columns []domain.Column `json:"columns"`
	Tickets []TicketView    `json:"tickets"`
}

// TicketService coordinates ticket workflows on the desk store.
type TicketService struct {
	store      *desk.Store
	mirror     *Mirror
	dispatcher events.Dispatcher
	activity   *ActivityService
	metrics    *observability.Metrics
	logger     *zap.Logger
	clock      sla.Clock
	inbound    events.Subscription
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      *desk.Store
	Mirror     *Mirror
	Dispatcher events.Dispatcher
	Activity   *ActivityService
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      sla.Clock
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &TicketService{
		store:      deps.Store,
		mirror:     deps.Mirror,
		dispatcher: deps.Dispatcher,
		activity:   deps.Activity,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		clock:      deps.Clock,
	}
}

// RegisterHandlers subscribes the board to inbound ticket hand-offs.
func (s *TicketService) RegisterHandlers() {
	if s.dispatcher == nil || s.inbound != nil {
		return
	}
	s.inbound = s.dispatcher.Subscribe(events.EventInboundTicket, s.handleInboundTicket)
}

// Close drops event subscriptions.
func (s *TicketService) Close() {
	if s.inbound != nil {
		s.inbound.Unsubscribe()
		s.inbound = nil
	}
}

// CreateTicket validates input and adds a ticket to the board.
func (s *TicketService) CreateTicket(ctx context.Context, input desk.TicketInput) (*TicketView, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "required"
	}
	if input.Urgency != "" && !input.Urgency.Valid() {
		details["urgency"] = "must be one of low, medium, high, critical"
	}
	if input.Level != "" && !input.Level.Valid() {
		details["level"] = "must be one of L0, L1, L2, L3"
	}
	if input.Source != "" && !input.Source.Valid() {
		details["source"] = "must be one of whatsapp, email, manual"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", details)
	}

	ticket := s.store.CreateTicket(input)
	s.metrics.RecordMutation("create_ticket", mutationResult(nil))
	s.saveTickets(ctx)
	s.activity.Record(ctx, domain.ActionTicketCreate, "Ticket "+ticket.ID, "Source: "+string(ticket.Source))
	s.publishEvent(ctx, events.New(events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Title:   ticket.Title,
		Status:  ticket.Status,
		Urgency: ticket.Urgency,
		Source:  string(ticket.Source),
	}))
	view := s.view(ticket)
	return &view, nil
}

// GetTicket returns one ticket.
func (s *TicketService) GetTicket(_ context.Context, ticketID string) (*TicketView, error) {
	ticket, ok := s.store.Ticket(ticketID)
	if !ok {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	view := s.view(ticket)
	return &view, nil
}

// ListTickets returns tickets matching filter in board order.
func (s *TicketService) ListTickets(_ context.Context, filter desk.TicketFilter) []TicketView {
	return s.views(s.store.Tickets(filter))
}

// Board returns columns and all tickets.
func (s *TicketService) Board(_ context.Context) BoardView {
	return BoardView{
		Columns: s.store.Columns(),
		Tickets: s.views(s.store.Tickets(desk.TicketFilter{})),
	}
}

// UpdateStatus moves a ticket to another column.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID, status string) (*TicketView, error) {
	ticket, previous, err := s.store.UpdateStatus(ticketID, status)
	s.metrics.RecordMutation("update_status", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"ticket_id": ticketID, "status": status})
	}

	s.saveTickets(ctx)
	s.activity.Record(ctx, domain.ActionStatusUpdate, "Ticket "+ticket.ID,
		fmt.Sprintf("Moved from %s to %s", previous, ticket.Status))
	s.publishEvent(ctx, events.New(events.EventTicketStatusChanged, ticket.ID, events.TicketStatusChangedPayload{
		OldStatus: previous,
		NewStatus: ticket.Status,
	}))
	view := s.view(ticket)
	return &view, nil
}

// Assign sets or clears the assignee.
func (s *TicketService) Assign(ctx context.Context, ticketID, memberID string) (*TicketView, error) {
	ticket, err := s.store.Assign(ticketID, memberID)
	s.metrics.RecordMutation("assign", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"ticket_id": ticketID, "member_id": memberID})
	}

	payload := events.TicketAssignedPayload{Title: ticket.Title}
	detail := "Unassigned"
	if ticket.Assignee != nil {
		payload.MemberID = ticket.Assignee.ID
		payload.MemberName = ticket.Assignee.Name
		detail = "Assigned to " + ticket.Assignee.Name
	}
	s.saveTickets(ctx)
	s.activity.Record(ctx, domain.ActionAssigneeUpdate, "Ticket "+ticket.ID, detail)
	s.publishEvent(ctx, events.New(events.EventTicketAssigned, ticket.ID, payload))
	view := s.view(ticket)
	return &view, nil
}

// AddTag attaches a catalog tag.
func (s *TicketService) AddTag(ctx context.Context, ticketID, tagID string) (*TicketView, error) {
	ticket, err := s.store.AddCatalogTag(ticketID, tagID)
	s.metrics.RecordMutation("add_tag", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"ticket_id": ticketID, "tag_id": tagID})
	}
	return s.afterTagChange(ctx, ticket, "Added tag "+tagID), nil
}

// RemoveTag detaches a tag.
func (s *TicketService) RemoveTag(ctx context.Context, ticketID, tagID string) (*TicketView, error) {
	ticket, err := s.store.RemoveTag(ticketID, tagID)
	s.metrics.RecordMutation("remove_tag", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"ticket_id": ticketID, "tag_id": tagID})
	}
	return s.afterTagChange(ctx, ticket, "Removed tag "+tagID), nil
}

func (s *TicketService) afterTagChange(ctx context.Context, ticket domain.Ticket, detail string) *TicketView {
	s.saveTickets(ctx)
	s.activity.Record(ctx, domain.ActionTagsUpdate, "Ticket "+ticket.ID, detail)
	s.publishEvent(ctx, events.New(events.EventTicketUpdated, ticket.ID, events.TicketUpdatedPayload{Field: "tags"}))
	view := s.view(ticket)
	return &view
}

// ToggleChecklistItem flips one checklist step. An out-of-range index
// returns the ticket unchanged.
func (s *TicketService) ToggleChecklistItem(ctx context.Context, ticketID string, index int) (*TicketView, bool, error) {
	ticket, changed, err := s.store.ToggleChecklistItem(ticketID, index)
	s.metrics.RecordMutation("toggle_checklist", mutationResult(err))
	if err != nil {
		return nil, false, mapStoreError(err, map[string]any{"ticket_id": ticketID, "index": index})
	}
	if changed {
		item := ticket.Checklist[index]
		s.saveTickets(ctx)
		s.activity.Record(ctx, domain.ActionChecklistUpdate, "Ticket "+ticket.ID,
			fmt.Sprintf("%q done=%t", item.Text, item.Done))
		s.publishEvent(ctx, events.New(events.EventTicketUpdated, ticket.ID, events.TicketUpdatedPayload{Field: "checklist"}))
	}
	view := s.view(ticket)
	return &view, changed, nil
}

// handleInboundTicket consumes the pending hand-off from the mirror,
// inserts it at the top of the board and clears the hand-off key. The
// ticket carried by the event is used when the mirror copy is missing.
func (s *TicketService) handleInboundTicket(ctx context.Context, event events.Event) error {
	var pending domain.Ticket
	if !s.mirror.Load(ctx, repository.KeyLatestInboundTicket, &pending) {
		carried := inboundPayloadTicket(event.Payload)
		if carried == nil {
			return fmt.Errorf("inbound event %s: no pending ticket", event.ID)
		}
		s.logger.Warn("inbound hand-off missing from mirror, using event payload", zap.String("ticket_id", carried.ID))
		pending = *carried
	}
	ticket := s.store.ImportTicket(pending)
	s.mirror.Remove(ctx, repository.KeyLatestInboundTicket)
	s.metrics.RecordMutation("import_ticket", mutationResult(nil))
	s.saveTickets(ctx)
	s.activity.Record(ctx, domain.ActionTicketCreate, "Ticket "+ticket.ID, "Via WhatsApp inbound")
	s.publishEvent(ctx, events.New(events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Title:   ticket.Title,
		Status:  ticket.Status,
		Urgency: ticket.Urgency,
		Source:  string(ticket.Source),
	}))
	return nil
}

func inboundPayloadTicket(payload any) *domain.Ticket {
	switch p := payload.(type) {
	case events.InboundTicketPayload:
		return p.Ticket
	case *events.InboundTicketPayload:
		if p != nil {
			return p.Ticket
		}
	}
	return nil
}

func (s *TicketService) saveTickets(ctx context.Context) {
	s.mirror.SaveTickets(ctx, s.store)
}

func (s *TicketService) view(t domain.Ticket) TicketView {
	return TicketView{Ticket: t, SLA: sla.EvaluateTicket(t, s.clock())}
}

func (s *TicketService) views(tickets []domain.Ticket) []TicketView {
	now := s.clock()
	out := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketView{Ticket: t, SLA: sla.EvaluateTicket(t, now)})
	}
	return out
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

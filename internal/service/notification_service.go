package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// DefaultNotificationLimit bounds the in-memory feed.
const DefaultNotificationLimit = 200

// NotificationService turns desk events into feed entries and forwards
// them to the configured outbound stubs.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	now        func() time.Time
	limit      int

	mu            sync.RWMutex
	feed          []domain.Notification
	subscriptions []events.Subscription
	warned        map[string]struct{}
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
		limit:      DefaultNotificationLimit,
		warned:     make(map[string]struct{}),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.subscriptions) > 0 {
		return
	}
	n.subscriptions = append(n.subscriptions,
		n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned),
		n.dispatcher.Subscribe(events.EventInboundTicket, n.handleInboundTicket),
		n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged),
		n.dispatcher.Subscribe(events.EventMemberRemoved, n.handleMemberRemoved),
	)
}

// Close drops all subscriptions.
func (n *NotificationService) Close() {
	n.mu.Lock()
	subs := n.subscriptions
	n.subscriptions = nil
	n.mu.Unlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

// List returns the feed newest first.
func (n *NotificationService) List(_ context.Context) []domain.Notification {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]domain.Notification{}, n.feed...)
}

// UnreadCount returns how many entries are unread.
func (n *NotificationService) UnreadCount(_ context.Context) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	count := 0
	for _, item := range n.feed {
		if !item.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one entry as read.
func (n *NotificationService) MarkRead(_ context.Context, id string) (*domain.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.feed {
		if n.feed[i].ID == id {
			n.feed[i].Read = true
			item := n.feed[i]
			return &item, nil
		}
	}
	return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
}

// MarkAllRead flags every entry as read and returns how many changed.
func (n *NotificationService) MarkAllRead(_ context.Context) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	changed := 0
	for i := range n.feed {
		if !n.feed[i].Read {
			n.feed[i].Read = true
			changed++
		}
	}
	return changed
}

// WarnSLA adds an SLA warning for a ticket once per ticket.
func (n *NotificationService) WarnSLA(ctx context.Context, ticket domain.Ticket, label string) bool {
	n.mu.Lock()
	if _, seen := n.warned[ticket.ID]; seen {
		n.mu.Unlock()
		return false
	}
	n.warned[ticket.ID] = struct{}{}
	n.mu.Unlock()

	n.push(domain.Notification{
		Type:    domain.NotificationSLAWarning,
		Title:   "SLA deadline approaching",
		Message: fmt.Sprintf("Ticket %s is close to its resolution limit (%s).", ticket.ID, label),
		Link:    "/tickets",
	})
	n.sendWebhookNotificationStub(ctx, "sla_warning", ticket.ID)
	return true
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok || payload.MemberID == "" {
		return nil
	}
	n.logger.Info("TicketAssigned", zap.String("ticket_id", event.TicketID), zap.String("member_id", payload.MemberID))
	n.push(domain.Notification{
		Type:    domain.NotificationAssignment,
		Title:   "New task assigned",
		Message: fmt.Sprintf("%s is now responsible for ticket %s: %q.", payload.MemberName, event.TicketID, payload.Title),
		Link:    "/tickets",
	})
	n.sendWebhookNotificationStub(ctx, string(event.Type), event.TicketID)
	return nil
}

func (n *NotificationService) handleInboundTicket(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.InboundTicketPayload)
	n.logger.Info("InboundTicket", zap.String("ticket_id", event.TicketID))
	n.push(domain.Notification{
		Type:    domain.NotificationSystem,
		Title:   "New WhatsApp ticket",
		Message: fmt.Sprintf("Ticket %s opened from %s: %q.", event.TicketID, payload.Phone, payload.Title),
		Link:    "/tickets",
	})
	n.sendEmailNotificationStub(ctx, string(event.Type), event.TicketID)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok || !domain.IsTerminalStatus(payload.NewStatus) {
		return nil
	}
	n.mu.Lock()
	delete(n.warned, event.TicketID)
	n.mu.Unlock()
	return nil
}

func (n *NotificationService) handleMemberRemoved(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MemberPayload)
	if !ok || payload.Unassigned == 0 {
		return nil
	}
	n.push(domain.Notification{
		Type:    domain.NotificationSystem,
		Title:   "Tickets unassigned",
		Message: fmt.Sprintf("%d tickets lost their assignee when %s left the team.", payload.Unassigned, payload.Email),
		Link:    "/tickets",
	})
	return nil
}

func (n *NotificationService) push(item domain.Notification) {
	item.ID = uuid.NewString()
	item.Timestamp = n.now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.feed = append([]domain.Notification{item}, n.feed...)
	if len(n.feed) > n.limit {
		n.feed = n.feed[:n.limit]
	}
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, kind, ticketID string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", ticketID),
		zap.String("event_type", kind))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, kind, ticketID string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", ticketID),
		zap.String("event_type", kind))
}

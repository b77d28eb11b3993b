package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const inboundTitleLimit = 30

// WhatsAppTag marks tickets opened through the chat channel.
var WhatsAppTag = domain.Tag{ID: "tag-wa", Label: "WhatsApp", Color: "green"}

// InboundService fabricates tickets for the simulated chat channel and
// hands them to the board through the mirror and an inbound signal.
type InboundService struct {
	store      *desk.Store
	mirror     *Mirror
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewInboundService creates the service.
func NewInboundService(store *desk.Store, mirror *Mirror, dispatcher events.Dispatcher, logger *zap.Logger) *InboundService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InboundService{
		store:      store,
		mirror:     mirror,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// SimulateWhatsApp turns an incoming chat message into a pending ticket and
// signals the board. It returns the ticket as the board stored it.
func (s *InboundService) SimulateWhatsApp(ctx context.Context, phone, message string) (*domain.Ticket, error) {
	phone = strings.TrimSpace(phone)
	message = strings.TrimSpace(message)
	details := map[string]any{}
	if phone == "" {
		details["phone"] = "required"
	}
	if message == "" {
		details["message"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid inbound message", details)
	}

	ticket := BuildWhatsAppTicket(phone, message, s.now())
	s.mirror.Save(ctx, repository.KeyLatestInboundTicket, ticket)
	s.logger.Info("inbound ticket received", zap.String("ticket_id", ticket.ID), zap.String("phone", phone))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.New(events.EventInboundTicket, ticket.ID, events.InboundTicketPayload{
			Phone:  phone,
			Title:  ticket.Title,
			Ticket: &ticket,
		}))
	}

	if stored, ok := s.store.Ticket(ticket.ID); ok {
		return &stored, nil
	}
	return &ticket, nil
}

// BuildWhatsAppTicket shapes a chat message into a new L0 ticket.
func BuildWhatsAppTicket(phone, message string, now time.Time) domain.Ticket {
	title := message
	if runes := []rune(message); len(runes) > inboundTitleLimit {
		title = string(runes[:inboundTitleLimit]) + "..."
	}
	return domain.Ticket{
		ID:           "T-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		CustomerName: "WhatsApp customer (" + phone + ")",
		PhoneNumber:  phone,
		Source:       domain.SourceWhatsApp,
		Title:        title,
		Description:  message,
		Status:       domain.StatusOpen,
		Level:        domain.LevelSelfService,
		Urgency:      domain.UrgencyMedium,
		CreatedAt:    now.UTC(),
		Tags:         []domain.Tag{WhatsAppTag},
		Checklist: []domain.ChecklistItem{
			{Text: "Check conversation history"},
			{Text: "Validate customer by phone number"},
		},
	}
}

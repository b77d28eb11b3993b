package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/spec-kit/support-desk/internal/advisor"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

var bob = domain.TeamMember{ID: "m-bob", Name: "Bob", Email: "bob@example.com", Role: domain.RoleAgent, Status: domain.MemberActive}

type failingMirrorRepository struct{}

func (failingMirrorRepository) Put(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingMirrorRepository) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk full")
}
func (failingMirrorRepository) Delete(context.Context, string) error { return errors.New("disk full") }

// gatedMirrorRepository holds the first write of gateKey until release is
// closed.
type gatedMirrorRepository struct {
	repository.MirrorRepository
	gateKey string
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedMirrorRepository(key string) *gatedMirrorRepository {
	return &gatedMirrorRepository{
		MirrorRepository: repository.NewMemoryMirrorRepository(),
		gateKey:          key,
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
}

func (r *gatedMirrorRepository) Put(ctx context.Context, key string, value []byte) error {
	if key == r.gateKey {
		r.once.Do(func() {
			close(r.entered)
			<-r.release
		})
	}
	return r.MirrorRepository.Put(ctx, key, value)
}

type DeskSuite struct {
	suite.Suite
	ctx        context.Context
	repo       repository.MirrorRepository
	store      *desk.Store
	mirror     *Mirror
	dispatcher events.Dispatcher
	activity   *ActivityService
	tickets    *TicketService
	board      *BoardService
	team       *TeamService
	settings   *SettingsService
	inbound    *InboundService
	notify     *NotificationService

	publishedMu sync.Mutex
	published   []events.Event
}

func (s *DeskSuite) SetupTest() {
	s.ctx = WithActor(context.Background(), "Ana")
	s.repo = repository.NewMemoryMirrorRepository()
	s.build()
}

func (s *DeskSuite) build() {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	clock := func() time.Time { return testNow }
	s.store = desk.NewStore(
		desk.WithClock(clock),
		desk.WithMembers([]domain.TeamMember{bob}),
		desk.WithTags([]domain.Tag{{ID: "tag-vip", Label: "VIP", Color: "amber"}}),
	)
	s.mirror = NewMirror(s.repo, nil, metrics)
	s.dispatcher = events.NewInMemoryDispatcher(nil)
	s.activity = NewActivityService(repository.NewMemoryActivityRepository(50), nil)
	s.activity.now = clock

	s.tickets = NewTicketService(TicketDependencies{
		Store: s.store, Mirror: s.mirror, Dispatcher: s.dispatcher,
		Activity: s.activity, Metrics: metrics, Clock: clock,
	})
	s.tickets.RegisterHandlers()
	s.board = NewBoardService(BoardDependencies{
		Store: s.store, Mirror: s.mirror, Dispatcher: s.dispatcher, Activity: s.activity, Metrics: metrics,
	})
	s.team = NewTeamService(TeamDependencies{
		Store: s.store, Mirror: s.mirror, Dispatcher: s.dispatcher, Activity: s.activity, Metrics: metrics,
	})
	s.settings = NewSettingsService(s.mirror, s.dispatcher, s.activity)
	s.inbound = NewInboundService(s.store, s.mirror, s.dispatcher, nil)
	s.inbound.now = clock
	s.notify = NewNotificationService(s.dispatcher, nil, config.NotificationConfig{})
	s.notify.now = clock
	s.notify.RegisterHandlers()

	s.published = nil
	s.dispatcher.SubscribeAll(func(_ context.Context, e events.Event) error {
		s.publishedMu.Lock()
		s.published = append(s.published, e)
		s.publishedMu.Unlock()
		return nil
	})
}

func (s *DeskSuite) TearDownTest() {
	s.tickets.Close()
	s.notify.Close()
}

func TestDeskSuite(t *testing.T) {
	suite.Run(t, new(DeskSuite))
}

func (s *DeskSuite) mirroredTickets() []domain.Ticket {
	var tickets []domain.Ticket
	require.True(s.T(), s.mirror.Load(s.ctx, repository.KeyTickets, &tickets))
	return tickets
}

func (s *DeskSuite) eventTypes() []events.EventType {
	s.publishedMu.Lock()
	defer s.publishedMu.Unlock()
	out := make([]events.EventType, 0, len(s.published))
	for _, e := range s.published {
		out = append(out, e.Type)
	}
	return out
}

func (s *DeskSuite) TestCreateTicketMirrorsAndRecords() {
	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{
		CustomerName: "Maria",
		Title:        "Payment failed",
		Urgency:      domain.UrgencyCritical,
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), domain.StatusOpen, view.Status)
	assert.Equal(s.T(), "4 hours remaining", view.SLA.Label)

	mirrored := s.mirroredTickets()
	require.Len(s.T(), mirrored, 1)
	assert.Equal(s.T(), view.ID, mirrored[0].ID)

	entries, err := s.activity.List(s.ctx, 10)
	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 1)
	assert.Equal(s.T(), domain.ActionTicketCreate, entries[0].Action)
	assert.Equal(s.T(), "Ana", entries[0].Actor)

	assert.Equal(s.T(), []events.EventType{events.EventTicketCreated}, s.eventTypes())
}

func (s *DeskSuite) TestCreateTicketValidation() {
	_, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{Title: "  ", Urgency: "extreme"})
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(s.T(), domainErr)
	assert.Equal(s.T(), "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(s.T(), domainErr.Details, "title")
	assert.Contains(s.T(), domainErr.Details, "urgency")
	assert.Equal(s.T(), 0, s.store.Len())
}

func (s *DeskSuite) TestUnknownTicketMutationsReturnNotFound() {
	_, err := s.tickets.UpdateStatus(s.ctx, "T-MISSING", domain.StatusResolved)
	assert.Equal(s.T(), "NOT_FOUND", apperrors.ToDomainError(err).Code)

	_, err = s.tickets.Assign(s.ctx, "T-MISSING", bob.ID)
	assert.Equal(s.T(), "NOT_FOUND", apperrors.ToDomainError(err).Code)

	_, _, err = s.tickets.ToggleChecklistItem(s.ctx, "T-MISSING", 0)
	assert.Equal(s.T(), "NOT_FOUND", apperrors.ToDomainError(err).Code)

	assert.Empty(s.T(), s.published)
}

func (s *DeskSuite) TestStatusChangeToUnknownColumnIsRejected() {
	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{Title: "Slow app"})
	require.NoError(s.T(), err)

	_, err = s.tickets.UpdateStatus(s.ctx, view.ID, "archived")
	assert.Equal(s.T(), "NOT_FOUND", apperrors.ToDomainError(err).Code)

	got, err := s.tickets.GetTicket(s.ctx, view.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusOpen, got.Status)
}

func (s *DeskSuite) TestAssignNotifiesAssignee() {
	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{Title: "API error 500"})
	require.NoError(s.T(), err)

	assigned, err := s.tickets.Assign(s.ctx, view.ID, bob.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), assigned.Assignee)
	assert.Equal(s.T(), bob.ID, assigned.Assignee.ID)

	feed := s.notify.List(s.ctx)
	require.Len(s.T(), feed, 1)
	assert.Equal(s.T(), domain.NotificationAssignment, feed[0].Type)
	assert.Contains(s.T(), feed[0].Message, view.ID)
	assert.Equal(s.T(), 1, s.notify.UnreadCount(s.ctx))

	_, err = s.tickets.Assign(s.ctx, view.ID, "m-ghost")
	assert.Equal(s.T(), "NOT_FOUND", apperrors.ToDomainError(err).Code)

	cleared, err := s.tickets.Assign(s.ctx, view.ID, "")
	require.NoError(s.T(), err)
	assert.Nil(s.T(), cleared.Assignee)
	assert.Len(s.T(), s.notify.List(s.ctx), 1)
}

func (s *DeskSuite) TestTagsAndChecklist() {
	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{
		Title:     "Refund",
		Checklist: []domain.ChecklistItem{{Text: "Check order"}},
	})
	require.NoError(s.T(), err)

	tagged, err := s.tickets.AddTag(s.ctx, view.ID, "tag-vip")
	require.NoError(s.T(), err)
	require.Len(s.T(), tagged.Tags, 1)

	tagged, err = s.tickets.AddTag(s.ctx, view.ID, "tag-vip")
	require.NoError(s.T(), err)
	assert.Len(s.T(), tagged.Tags, 1)

	_, err = s.tickets.AddTag(s.ctx, view.ID, "tag-nope")
	assert.Equal(s.T(), "NOT_FOUND", apperrors.ToDomainError(err).Code)

	untagged, err := s.tickets.RemoveTag(s.ctx, view.ID, "tag-vip")
	require.NoError(s.T(), err)
	assert.Empty(s.T(), untagged.Tags)

	toggled, changed, err := s.tickets.ToggleChecklistItem(s.ctx, view.ID, 0)
	require.NoError(s.T(), err)
	assert.True(s.T(), changed)
	assert.True(s.T(), toggled.Checklist[0].Done)

	_, changed, err = s.tickets.ToggleChecklistItem(s.ctx, view.ID, 5)
	require.NoError(s.T(), err)
	assert.False(s.T(), changed)

	assert.True(s.T(), s.mirroredTickets()[0].Checklist[0].Done)
}

func (s *DeskSuite) TestMirrorFailureDoesNotBlockMutation() {
	s.repo = failingMirrorRepository{}
	s.build()

	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{Title: "Still works"})
	require.NoError(s.T(), err)

	moved, err := s.tickets.UpdateStatus(s.ctx, view.ID, domain.StatusInProgress)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.StatusInProgress, moved.Status)
	assert.Equal(s.T(), 1, s.store.Len())
}

func (s *DeskSuite) TestDeleteColumnMigratesAndMirrors() {
	col, err := s.board.AddColumn(s.ctx, "Escalated", "red")
	require.NoError(s.T(), err)

	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{Title: "Escalate me", Status: col.Key})
	require.NoError(s.T(), err)
	require.Equal(s.T(), col.Key, view.Status)

	migrated, err := s.board.DeleteColumn(s.ctx, col.Key)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, migrated)
	assert.Equal(s.T(), domain.StatusOpen, s.mirroredTickets()[0].Status)

	var columns []domain.Column
	require.True(s.T(), s.mirror.Load(s.ctx, repository.KeyBoardColumns, &columns))
	assert.Len(s.T(), columns, len(domain.DefaultColumns()))

	_, err = s.board.DeleteColumn(s.ctx, domain.StatusOpen)
	assert.Equal(s.T(), "CONFLICT", apperrors.ToDomainError(err).Code)
}

func (s *DeskSuite) TestReorderColumns() {
	assert.True(s.T(), s.board.ReorderColumns(s.ctx, domain.StatusResolved, domain.StatusOpen))
	assert.Equal(s.T(), domain.StatusResolved, s.board.Columns(s.ctx)[0].Key)
	assert.False(s.T(), s.board.ReorderColumns(s.ctx, "missing", domain.StatusOpen))
}

func (s *DeskSuite) TestCreateTagAttachesToTicket() {
	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{Title: "Billing"})
	require.NoError(s.T(), err)

	tag, err := s.board.CreateTag(s.ctx, "Billing", "", view.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), desk.DefaultTagColor, tag.Color)

	got, err := s.tickets.GetTicket(s.ctx, view.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.HasTag(tag.ID))
	assert.Len(s.T(), s.board.Tags(s.ctx), 2)
}

func (s *DeskSuite) TestRemoveMemberUnassignsTickets() {
	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{Title: "Owned", AssigneeID: bob.ID})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), view.Assignee)

	unassigned, err := s.team.Remove(s.ctx, bob.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, unassigned)
	assert.Nil(s.T(), s.mirroredTickets()[0].Assignee)
	assert.Empty(s.T(), s.team.Members(s.ctx))

	feed := s.notify.List(s.ctx)
	require.NotEmpty(s.T(), feed)
	assert.Equal(s.T(), domain.NotificationSystem, feed[0].Type)

	_, err = s.team.Remove(s.ctx, bob.ID)
	assert.Equal(s.T(), "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func (s *DeskSuite) TestInviteMember() {
	member, err := s.team.Invite(s.ctx, "new@example.com", "superuser")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.MemberPending, member.Status)
	assert.Equal(s.T(), domain.RoleAgent, member.Role)

	_, err = s.team.Invite(s.ctx, "  ", domain.RoleAgent)
	assert.Equal(s.T(), "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func (s *DeskSuite) TestInboundHandOffClearsPendingKey() {
	message := "My order never arrived and nobody answers the phone"
	ticket, err := s.inbound.SimulateWhatsApp(s.ctx, "+5511999990000", message)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "WhatsApp customer (+5511999990000)", ticket.CustomerName)
	assert.Equal(s.T(), message[:30]+"...", ticket.Title)
	assert.Equal(s.T(), domain.LevelSelfService, ticket.Level)
	assert.Equal(s.T(), domain.SourceWhatsApp, ticket.Source)
	assert.True(s.T(), ticket.HasTag(WhatsAppTag.ID))
	assert.Len(s.T(), ticket.Checklist, 2)

	board := s.tickets.Board(s.ctx)
	require.Len(s.T(), board.Tickets, 1)
	assert.Equal(s.T(), ticket.ID, board.Tickets[0].ID)

	_, err = s.repo.Get(s.ctx, repository.KeyLatestInboundTicket)
	assert.ErrorIs(s.T(), err, repository.ErrKeyNotFound)

	var tagIDs []string
	for _, tag := range s.board.Tags(s.ctx) {
		tagIDs = append(tagIDs, tag.ID)
	}
	assert.Contains(s.T(), tagIDs, WhatsAppTag.ID)

	assert.Contains(s.T(), s.eventTypes(), events.EventInboundTicket)
	assert.Contains(s.T(), s.eventTypes(), events.EventTicketCreated)

	_, err = s.inbound.SimulateWhatsApp(s.ctx, "", "")
	assert.Equal(s.T(), "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func (s *DeskSuite) TestInboundTicketSurvivesMirrorOutage() {
	s.repo = failingMirrorRepository{}
	s.build()

	ticket, err := s.inbound.SimulateWhatsApp(s.ctx, "+551100", "Order missing")
	require.NoError(s.T(), err)

	require.Equal(s.T(), 1, s.store.Len())
	stored, ok := s.store.Ticket(ticket.ID)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "Order missing", stored.Title)
	assert.Equal(s.T(), "+551100", stored.PhoneNumber)
	assert.True(s.T(), stored.HasTag(WhatsAppTag.ID))
	assert.Contains(s.T(), s.eventTypes(), events.EventTicketCreated)
}

func (s *DeskSuite) TestInboundEventWithoutTicketIsIgnored() {
	err := s.dispatcher.Publish(s.ctx, events.New(events.EventInboundTicket, "", events.InboundTicketPayload{Phone: "+1"}))
	require.NoError(s.T(), err)
	assert.Zero(s.T(), s.store.Len())
}

func (s *DeskSuite) TestConcurrentMutationsMirrorLatestSnapshot() {
	gated := newGatedMirrorRepository(repository.KeyTickets)
	s.repo = gated
	s.build()

	var wg sync.WaitGroup
	create := func(title string) {
		defer wg.Done()
		_, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{CustomerName: "Maria", Title: title})
		assert.NoError(s.T(), err)
	}

	wg.Add(1)
	go create("First")
	<-gated.entered

	wg.Add(1)
	go create("Second")
	require.Eventually(s.T(), func() bool { return s.store.Len() == 2 }, time.Second, 5*time.Millisecond)

	close(gated.release)
	wg.Wait()

	assert.Len(s.T(), s.mirroredTickets(), 2)
}

func (s *DeskSuite) TestConcurrentStatusMovesReportPreviousStatus() {
	view, err := s.tickets.CreateTicket(s.ctx, desk.TicketInput{CustomerName: "Maria", Title: "Refund"})
	require.NoError(s.T(), err)

	var wg sync.WaitGroup
	for _, status := range []string{domain.StatusInProgress, domain.StatusResolved} {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			_, err := s.tickets.UpdateStatus(s.ctx, view.ID, status)
			assert.NoError(s.T(), err)
		}(status)
	}
	wg.Wait()

	var moves []events.TicketStatusChangedPayload
	s.publishedMu.Lock()
	for _, e := range s.published {
		if e.Type == events.EventTicketStatusChanged {
			moves = append(moves, e.Payload.(events.TicketStatusChangedPayload))
		}
	}
	s.publishedMu.Unlock()

	require.Len(s.T(), moves, 2)
	first, second := moves[0], moves[1]
	if first.OldStatus != domain.StatusOpen {
		first, second = second, first
	}
	assert.Equal(s.T(), domain.StatusOpen, first.OldStatus)
	assert.Equal(s.T(), first.NewStatus, second.OldStatus)
}

func (s *DeskSuite) TestShortInboundMessageIsNotTruncated() {
	ticket := BuildWhatsAppTicket("123", "Hello", testNow)
	assert.Equal(s.T(), "Hello", ticket.Title)
	assert.Equal(s.T(), "Hello", ticket.Description)
}

func (s *DeskSuite) TestClosedSubscriptionsStopDelivery() {
	s.tickets.Close()
	s.notify.Close()

	_, err := s.inbound.SimulateWhatsApp(s.ctx, "123", "Anyone there?")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 0, s.store.Len())
	assert.Empty(s.T(), s.notify.List(s.ctx))
}

func (s *DeskSuite) TestThemeAndLogo() {
	theme := domain.ThemeConfig{PrimaryColor: "#123456", SidebarColor: "#000", BgColor: "#ffffff", FontFamily: "Roboto"}
	saved, err := s.settings.UpdateTheme(s.ctx, theme)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), theme, saved)

	_, err = s.settings.UpdateTheme(s.ctx, domain.ThemeConfig{PrimaryColor: "teal"})
	assert.Equal(s.T(), "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	assert.Equal(s.T(), theme, s.settings.Theme(s.ctx))

	err = s.settings.SetLogo(s.ctx, "https://example.com/logo.png")
	assert.Equal(s.T(), "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	require.NoError(s.T(), s.settings.SetLogo(s.ctx, "data:image/png;base64,iVBORw0KGgo="))

	restored := NewSettingsService(s.mirror, nil, nil)
	restored.Restore(s.ctx)
	assert.Equal(s.T(), theme, restored.Theme(s.ctx))
	assert.Equal(s.T(), "data:image/png;base64,iVBORw0KGgo=", restored.Logo(s.ctx))

	assert.Equal(s.T(), domain.DefaultTheme(), s.settings.ResetTheme(s.ctx))
	s.settings.RemoveLogo(s.ctx)
	assert.Empty(s.T(), s.settings.Logo(s.ctx))

	assert.Contains(s.T(), s.eventTypes(), events.EventThemeChanged)
	assert.Contains(s.T(), s.eventTypes(), events.EventLogoChanged)
}

func (s *DeskSuite) TestBootstrapSeedsEmptyMirrorThenRestores() {
	seedTickets := []domain.Ticket{
		{ID: "T-1024", Title: "API 500", Status: domain.StatusOpen, Urgency: domain.UrgencyHigh, CreatedAt: testNow},
		{ID: "T-1025", Title: "Slow login", Status: domain.StatusInProgress, Urgency: domain.UrgencyLow, CreatedAt: testNow},
	}
	result := Bootstrap(s.ctx, s.store, s.mirror, s.settings, seedTickets, true, nil)
	assert.True(s.T(), result.Seeded)
	assert.Equal(s.T(), 2, s.store.Len())
	assert.Len(s.T(), s.mirroredTickets(), 2)

	_, err := s.board.AddColumn(s.ctx, "Escalated", "red")
	require.NoError(s.T(), err)
	_, err = s.tickets.UpdateStatus(s.ctx, "T-1024", "escalated")
	require.NoError(s.T(), err)

	fresh := desk.NewStore()
	result = Bootstrap(s.ctx, fresh, s.mirror, nil, seedTickets, true, nil)
	assert.False(s.T(), result.Seeded)
	assert.True(s.T(), result.RestoredColumns)
	assert.Equal(s.T(), 2, result.RestoredTickets)

	got, ok := fresh.Ticket("T-1024")
	require.True(s.T(), ok)
	assert.Equal(s.T(), "escalated", got.Status)
}

func TestBootstrapWithoutSeed(t *testing.T) {
	store := desk.NewStore()
	mirror := NewMirror(repository.NewMemoryMirrorRepository(), nil, nil)

	result := Bootstrap(context.Background(), store, mirror, nil, nil, false, nil)

	assert.False(t, result.Seeded)
	assert.Equal(t, 0, store.Len())
}

type stubAdviser struct {
	advice *domain.Advice
	err    error
}

func (s stubAdviser) Advise(context.Context, string) (*domain.Advice, error) {
	return s.advice, s.err
}

func TestGetAdviceFailsClosed(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{name: "no credential", err: advisor.ErrNoCredential},
		{name: "empty", err: advisor.ErrEmptySituation},
		{name: "malformed", err: advisor.ErrMalformedResponse},
		{name: "transport", err: errors.New("connection refused")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAdvisorService(stubAdviser{err: tc.err}, nil, observability.NewMetrics(prometheus.NewRegistry()))
			assert.Nil(t, svc.GetAdvice(context.Background(), "customer angry"))
		})
	}

	assert.Nil(t, NewAdvisorService(nil, nil, nil).GetAdvice(context.Background(), "x"))

	want := &domain.Advice{Retention: domain.AdviceRetention{RefundRisk: domain.RefundRiskLow}}
	got := NewAdvisorService(stubAdviser{advice: want}, nil, nil).GetAdvice(context.Background(), "x")
	assert.Same(t, want, got)
}

func TestAdviceOutcome(t *testing.T) {
	assert.Equal(t, "ok", adviceOutcome(nil))
	assert.Equal(t, "no_credential", adviceOutcome(advisor.ErrNoCredential))
	assert.Equal(t, "malformed", adviceOutcome(advisor.ErrMalformedResponse))
	assert.Equal(t, "error", adviceOutcome(errors.New("boom")))
}

func TestKnowledgeUploadTracksEviction(t *testing.T) {
	base := advisor.NewKnowledgeBase(2, 1000)
	svc := NewKnowledgeService(base, nil, []domain.Script{
		{ID: "S-01", Title: "Delay", Content: "Sorry for the delay", Tags: []string{"Delivery"}},
		{ID: "S-02", Title: "Refund", Content: "Refund policy", Tags: []string{"billing"}},
	})
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := svc.Upload(ctx, name, strings.Repeat("x", 100))
		require.NoError(t, err)
	}

	docs := svc.Documents(ctx)
	require.Len(t, docs, 2)
	assert.Equal(t, "b.txt", docs[0].Name)
	assert.Equal(t, "c.txt", docs[1].Name)
	assert.Equal(t, 2, base.Len())
	assert.LessOrEqual(t, base.Chars(), 1000)

	_, err := svc.Upload(ctx, "empty.txt", "   ")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	assert.Equal(t, 2, svc.Clear(ctx))
	assert.Empty(t, svc.Documents(ctx))
	assert.Equal(t, 0, base.Len())

	assert.Len(t, svc.Scripts(ctx, ""), 2)
	scripts := svc.Scripts(ctx, "delivery")
	require.Len(t, scripts, 1)
	assert.Equal(t, "S-01", scripts[0].ID)
}

func TestDashboardSummary(t *testing.T) {
	store := desk.NewStore(desk.WithMembers([]domain.TeamMember{bob}))
	store.ImportTicket(domain.Ticket{Title: "breached", Urgency: domain.UrgencyCritical, Level: domain.LevelTechnical, CreatedAt: testNow.Add(-5 * time.Hour)})
	store.ImportTicket(domain.Ticket{Title: "warning", Urgency: domain.UrgencyHigh, CreatedAt: testNow.Add(-7 * time.Hour), Assignee: &bob})
	store.ImportTicket(domain.Ticket{Title: "done", Status: domain.StatusResolved, Urgency: domain.UrgencyCritical, CreatedAt: testNow.Add(-50 * time.Hour)})

	summary := NewDashboardService(store, func() time.Time { return testNow }).Summary(context.Background())

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Pending)
	assert.Equal(t, 1, summary.Unassigned)
	assert.Equal(t, 1, summary.SLABreached)
	assert.Equal(t, 1, summary.SLAWarning)
	assert.Equal(t, 1, summary.ByLevel[domain.LevelTechnical])
	assert.Equal(t, 2, summary.ByLevel[domain.LevelBasic])
	require.Len(t, summary.ByStatus, 4)
	assert.Equal(t, domain.StatusOpen, summary.ByStatus[0].Key)
	assert.Equal(t, 2, summary.ByStatus[0].Count)
}

func TestNotificationMarkRead(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewNotificationService(dispatcher, nil, config.NotificationConfig{WebhookURL: "https://hooks.example.com"})
	svc.RegisterHandlers()
	defer svc.Close()
	ctx := context.Background()

	ticket := domain.Ticket{ID: "T-1", Urgency: domain.UrgencyHigh}
	assert.True(t, svc.WarnSLA(ctx, ticket, "1h left"))
	assert.False(t, svc.WarnSLA(ctx, ticket, "1h left"))

	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventTicketStatusChanged, "T-1",
		events.TicketStatusChangedPayload{OldStatus: domain.StatusOpen, NewStatus: domain.StatusResolved})))
	assert.True(t, svc.WarnSLA(ctx, ticket, "1h left"))

	feed := svc.List(ctx)
	require.Len(t, feed, 2)
	read, err := svc.MarkRead(ctx, feed[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.Equal(t, 1, svc.UnreadCount(ctx))

	_, err = svc.MarkRead(ctx, "missing")
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	assert.Equal(t, 1, svc.MarkAllRead(ctx))
	assert.Equal(t, 0, svc.UnreadCount(ctx))
}

func TestActorDefaultsToSystem(t *testing.T) {
	assert.Equal(t, SystemActor, ActorFrom(context.Background()))
	assert.Equal(t, SystemActor, ActorFrom(WithActor(context.Background(), "  ")))
	assert.Equal(t, "Ana", ActorFrom(WithActor(context.Background(), "Ana")))
}

// Package desk holds the in-memory ticket store: the single source of truth
// for tickets, board columns, the tag catalog and the team during one run.
package desk

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/support-desk/internal/board"
	"github.com/spec-kit/support-desk/internal/domain"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrMemberNotFound = errors.New("team member not found")
	ErrTagNotFound    = errors.New("tag not found")
	ErrInvalidTag     = errors.New("tag label required")
	ErrInvalidEmail   = errors.New("email required")

	ErrColumnNotFound  = board.ErrColumnNotFound
	ErrColumnExists    = board.ErrColumnExists
	ErrProtectedColumn = board.ErrProtectedColumn
	ErrInvalidColumn   = board.ErrInvalidLabel
)

// DefaultTagColor is used for tags created without a style.
const DefaultTagColor = "blue"

// Store owns all desk state. Every mutator holds the write lock for its
// whole duration, so multi-step changes are atomic. On error the state is
// left untouched. Reads hand out deep copies.
type Store struct {
	mu      sync.RWMutex
	now     func() time.Time
	board   *board.Board
	tickets []*domain.Ticket
	byID    map[string]*domain.Ticket
	tags    []domain.Tag
	members []domain.TeamMember
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithColumns sets the initial board layout.
func WithColumns(columns []domain.Column) Option {
	return func(s *Store) { s.board = board.New(columns) }
}

// WithTags seeds the tag catalog.
func WithTags(tags []domain.Tag) Option {
	return func(s *Store) {
		for _, tag := range tags {
			s.registerTag(tag)
		}
	}
}

// WithMembers seeds the team.
func WithMembers(members []domain.TeamMember) Option {
	return func(s *Store) { s.members = append(s.members, members...) }
}

// NewStore creates an empty store with the default columns.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:   time.Now,
		board: board.New(domain.DefaultColumns()),
		byID:  make(map[string]*domain.Ticket),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TicketInput describes a ticket to create.
type TicketInput struct {
	CustomerName string
	PhoneNumber  string
	Source       domain.TicketSource
	Title        string
	Description  string
	Status       string
	Level        domain.SupportLevel
	Urgency      domain.Urgency
	CreatedAt    time.Time
	Tags         []domain.Tag
	Checklist    []domain.ChecklistItem
	AssigneeID   string
}

// TicketFilter narrows ticket listings. Zero values match everything.
type TicketFilter struct {
	Status     string
	AssigneeID string
	TagID      string
	Urgency    domain.Urgency
	Search     string
}

// CreateTicket adds a ticket at the top of the board. It always succeeds:
// unknown status, empty urgency, level or source, and unknown assignees fall
// back to defaults.
func (s *Store) CreateTicket(input TicketInput) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket := &domain.Ticket{
		ID:           s.newTicketID(),
		CustomerName: strings.TrimSpace(input.CustomerName),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Source:       input.Source,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       input.Status,
		Level:        input.Level,
		Urgency:      input.Urgency,
		CreatedAt:    input.CreatedAt,
		Tags:         []domain.Tag{},
		Checklist:    append([]domain.ChecklistItem{}, input.Checklist...),
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = s.now()
	}
	if input.AssigneeID != "" {
		if member, ok := s.member(input.AssigneeID); ok {
			ticket.Assignee = &member
		}
	}
	for _, tag := range input.Tags {
		if tag.ID == "" || ticket.HasTag(tag.ID) {
			continue
		}
		ticket.Tags = append(ticket.Tags, s.registerTag(tag))
	}
	s.applyDefaults(ticket)
	s.prepend(ticket)
	return ticket.Clone()
}

// ImportTicket inserts a ticket built elsewhere, such as an inbound message
// hand-off. A colliding or empty id is replaced and an unknown status falls
// back to open.
func (s *Store) ImportTicket(t domain.Ticket) domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket := t.Clone()
	if _, taken := s.byID[ticket.ID]; ticket.ID == "" || taken {
		ticket.ID = s.newTicketID()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = s.now()
	}
	ticket.Tags = s.dedupeTags(ticket.Tags)
	s.applyDefaults(&ticket)
	s.prepend(&ticket)
	return ticket.Clone()
}

// Ticket returns a ticket by id.
func (s *Store) Ticket(id string) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		return domain.Ticket{}, false
	}
	return t.Clone(), true
}

// Tickets lists tickets in board order.
func (s *Store) Tickets(filter TicketFilter) []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.AssigneeID != "" && (t.Assignee == nil || t.Assignee.ID != filter.AssigneeID) {
			continue
		}
		if filter.TagID != "" && !t.HasTag(filter.TagID) {
			continue
		}
		if filter.Urgency != "" && t.Urgency != filter.Urgency {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// UpdateStatus moves a ticket to another column and returns the status it
// left.
func (s *Store) UpdateStatus(ticketID, status string) (domain.Ticket, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.board.Has(status) {
		return domain.Ticket{}, "", ErrColumnNotFound
	}
	t, ok := s.byID[ticketID]
	if !ok {
		return domain.Ticket{}, "", ErrTicketNotFound
	}
	previous := t.Status
	t.Status = status
	return t.Clone(), previous, nil
}

// Assign sets the ticket's assignee. An empty memberID clears it; an
// unknown member is rejected.
func (s *Store) Assign(ticketID, memberID string) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[ticketID]
	if !ok {
		return domain.Ticket{}, ErrTicketNotFound
	}
	if memberID == "" {
		t.Assignee = nil
		return t.Clone(), nil
	}
	member, ok := s.member(memberID)
	if !ok {
		return domain.Ticket{}, ErrMemberNotFound
	}
	t.Assignee = &member
	return t.Clone(), nil
}

// AddTag attaches a tag. Adding a tag already present is a no-op; a tag not
// yet in the catalog is registered there.
func (s *Store) AddTag(ticketID string, tag domain.Tag) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tag.ID == "" {
		return domain.Ticket{}, ErrTagNotFound
	}
	t, ok := s.byID[ticketID]
	if !ok {
		return domain.Ticket{}, ErrTicketNotFound
	}
	if !t.HasTag(tag.ID) {
		t.Tags = append(t.Tags, s.registerTag(tag))
	}
	return t.Clone(), nil
}

// AddCatalogTag attaches a tag from the catalog by id.
func (s *Store) AddCatalogTag(ticketID, tagID string) (domain.Ticket, error) {
	s.mu.RLock()
	tag, ok := s.catalogTag(tagID)
	s.mu.RUnlock()
	if !ok {
		return domain.Ticket{}, ErrTagNotFound
	}
	return s.AddTag(ticketID, tag)
}

// RemoveTag detaches a tag. Removing an absent tag is a no-op.
func (s *Store) RemoveTag(ticketID, tagID string) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[ticketID]
	if !ok {
		return domain.Ticket{}, ErrTicketNotFound
	}
	kept := t.Tags[:0]
	for _, tag := range t.Tags {
		if tag.ID != tagID {
			kept = append(kept, tag)
		}
	}
	t.Tags = kept
	return t.Clone(), nil
}

// CreateTag adds a tag to the catalog and, when ticketID is set, attaches
// it to that ticket.
func (s *Store) CreateTag(label, color, ticketID string) (domain.Tag, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.Tag{}, ErrInvalidTag
	}
	if color == "" {
		color = DefaultTagColor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var target *domain.Ticket
	if ticketID != "" {
		t, ok := s.byID[ticketID]
		if !ok {
			return domain.Tag{}, ErrTicketNotFound
		}
		target = t
	}
	tag := s.registerTag(domain.Tag{ID: "tag-" + shortID(), Label: label, Color: color})
	if target != nil {
		target.Tags = append(target.Tags, tag)
	}
	return tag, nil
}

// Tags returns the catalog.
func (s *Store) Tags() []domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Tag(nil), s.tags...)
}

// ToggleChecklistItem flips the done flag at index. An out-of-range index
// changes nothing and reports false.
func (s *Store) ToggleChecklistItem(ticketID string, index int) (domain.Ticket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.byID[ticketID]
	if !ok {
		return domain.Ticket{}, false, ErrTicketNotFound
	}
	if index < 0 || index >= len(t.Checklist) {
		return t.Clone(), false, nil
	}
	t.Checklist[index].Done = !t.Checklist[index].Done
	return t.Clone(), true, nil
}

// Columns returns the board columns in order.
func (s *Store) Columns() []domain.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Columns()
}

// AddColumn appends a custom column.
func (s *Store) AddColumn(label, color string) (domain.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Add(label, color)
}

// RenameColumn changes a column label.
func (s *Store) RenameColumn(key, label string) (domain.Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Rename(key, label)
}

// DeleteColumn moves the column's tickets to open and removes it. It
// returns the number of migrated tickets.
func (s *Store) DeleteColumn(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if board.IsProtected(key) {
		return 0, ErrProtectedColumn
	}
	if !s.board.Has(key) {
		return 0, ErrColumnNotFound
	}
	migrated := 0
	for _, t := range s.tickets {
		if t.Status == key {
			t.Status = domain.StatusOpen
			migrated++
		}
	}
	if err := s.board.Remove(key); err != nil {
		return 0, err
	}
	return migrated, nil
}

// ReorderColumns moves fromKey into toKey's position. It reports false when
// nothing moved.
func (s *Store) ReorderColumns(fromKey, toKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Reorder(fromKey, toKey)
}

// Members returns the team.
func (s *Store) Members() []domain.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TeamMember(nil), s.members...)
}

// Member returns a team member by id.
func (s *Store) Member(id string) (domain.TeamMember, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.member(id)
}

// InviteMember adds a pending member. Unknown roles become agent.
func (s *Store) InviteMember(email string, role domain.MemberRole) (domain.TeamMember, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.TeamMember{}, ErrInvalidEmail
	}
	if !role.Valid() {
		role = domain.RoleAgent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	member := domain.TeamMember{
		ID:     uuid.NewString(),
		Name:   "Pending...",
		Email:  email,
		Role:   role,
		Status: domain.MemberPending,
	}
	s.members = append(s.members, member)
	return member, nil
}

// RemoveMember deletes a member and clears them as assignee from every
// ticket. It returns how many tickets were unassigned.
func (s *Store) RemoveMember(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, m := range s.members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrMemberNotFound
	}
	s.members = append(s.members[:idx], s.members[idx+1:]...)

	unassigned := 0
	for _, t := range s.tickets {
		if t.Assignee != nil && t.Assignee.ID == id {
			t.Assignee = nil
			unassigned++
		}
	}
	return unassigned, nil
}

// Snapshot is a copy of the mirrored state.
type Snapshot struct {
	Columns []domain.Column
	Tickets []domain.Ticket
}

// Snapshot returns the current columns and tickets.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Columns: s.board.Columns(), Tickets: make([]domain.Ticket, 0, len(s.tickets))}
	for _, t := range s.tickets {
		snap.Tickets = append(snap.Tickets, t.Clone())
	}
	return snap
}

// Restore replaces columns (when given) and tickets with mirrored state,
// repairing anything that would break the store invariants.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(snap.Columns) > 0 {
		s.board = board.New(snap.Columns)
	}
	s.tickets = nil
	s.byID = make(map[string]*domain.Ticket, len(snap.Tickets))
	for _, in := range snap.Tickets {
		t := in.Clone()
		if _, taken := s.byID[t.ID]; t.ID == "" || taken {
			t.ID = s.newTicketID()
		}
		t.Tags = s.dedupeTags(t.Tags)
		s.applyDefaults(&t)
		s.tickets = append(s.tickets, &t)
		s.byID[t.ID] = &t
	}
}

// Len returns the number of tickets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}

func (s *Store) prepend(t *domain.Ticket) {
	s.tickets = append([]*domain.Ticket{t}, s.tickets...)
	s.byID[t.ID] = t
}

func (s *Store) applyDefaults(t *domain.Ticket) {
	if !s.board.Has(t.Status) {
		t.Status = domain.StatusOpen
	}
	if t.Urgency == "" {
		t.Urgency = domain.UrgencyMedium
	}
	if !t.Level.Valid() {
		t.Level = domain.LevelBasic
	}
	if !t.Source.Valid() {
		t.Source = domain.SourceManual
	}
	if t.Tags == nil {
		t.Tags = []domain.Tag{}
	}
	if t.Checklist == nil {
		t.Checklist = []domain.ChecklistItem{}
	}
}

func (s *Store) dedupeTags(tags []domain.Tag) []domain.Tag {
	out := make([]domain.Tag, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag.ID == "" {
			continue
		}
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		out = append(out, s.registerTag(tag))
	}
	return out
}

// registerTag adds tag to the catalog if its id is new and returns the
// catalog entry.
func (s *Store) registerTag(tag domain.Tag) domain.Tag {
	if existing, ok := s.catalogTag(tag.ID); ok {
		return existing
	}
	if tag.Color == "" {
		tag.Color = DefaultTagColor
	}
	s.tags = append(s.tags, tag)
	return tag
}

func (s *Store) catalogTag(id string) (domain.Tag, bool) {
	for _, tag := range s.tags {
		if tag.ID == id {
			return tag, true
		}
	}
	return domain.Tag{}, false
}

func (s *Store) member(id string) (domain.TeamMember, bool) {
	for _, m := range s.members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.TeamMember{}, false
}

func (s *Store) newTicketID() string {
	for {
		id := "T-" + shortID()
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}

func shortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func matchesSearch(t *domain.Ticket, term string) bool {
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term) ||
		strings.Contains(strings.ToLower(t.CustomerName), term) ||
		strings.Contains(strings.ToLower(t.ID), term)
}

package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
)

// TeamService manages the support team.
type TeamService struct {
	store      *desk.Store
	mirror     *Mirror
	dispatcher events.Dispatcher
	activity   *ActivityService
	metrics    *observability.Metrics
}

// TeamDependencies bundles collaborators for the team service.
type TeamDependencies struct {
	Store      *desk.Store
	Mirror     *Mirror
	Dispatcher events.Dispatcher
	Activity   *ActivityService
	Metrics    *observability.Metrics
}

// NewTeamService creates the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{
		store:      deps.Store,
		mirror:     deps.Mirror,
		dispatcher: deps.Dispatcher,
		activity:   deps.Activity,
		metrics:    deps.Metrics,
	}
}

// Members lists the team.
func (s *TeamService) Members(_ context.Context) []domain.TeamMember {
	return s.store.Members()
}

// Invite adds a pending member.
func (s *TeamService) Invite(ctx context.Context, email string, role domain.MemberRole) (*domain.TeamMember, error) {
	member, err := s.store.InviteMember(email, role)
	s.metrics.RecordMutation("invite_member", mutationResult(err))
	if err != nil {
		return nil, mapStoreError(err, map[string]any{"email": email})
	}
	s.activity.Record(ctx, domain.ActionInviteSent, member.Email, "Role: "+string(member.Role))
	s.publishEvent(ctx, events.New(events.EventMemberInvited, "", events.MemberPayload{
		MemberID: member.ID,
		Email:    member.Email,
	}))
	return &member, nil
}

// Remove deletes a member and unassigns their tickets.
func (s *TeamService) Remove(ctx context.Context, memberID string) (int, error) {
	member, _ := s.store.Member(memberID)
	unassigned, err := s.store.RemoveMember(memberID)
	s.metrics.RecordMutation("remove_member", mutationResult(err))
	if err != nil {
		return 0, mapStoreError(err, map[string]any{"member_id": memberID})
	}
	if unassigned > 0 {
		s.mirror.SaveTickets(ctx, s.store)
	}
	s.activity.Record(ctx, domain.ActionMemberRemoved, member.Email,
		fmt.Sprintf("%s removed, %d tickets unassigned", member.Name, unassigned))
	s.publishEvent(ctx, events.New(events.EventMemberRemoved, "", events.MemberPayload{
		MemberID:   memberID,
		Email:      member.Email,
		Unassigned: unassigned,
	}))
	return unassigned, nil
}

func (s *TeamService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

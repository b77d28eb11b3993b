package service

import (
	"context"
	"time"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/sla"
)

// DashboardSummary is the operational overview computed from live data.
type DashboardSummary struct {
	Total       int                         `json:"total"`
	Pending     int                         `json:"pending"`
	Unassigned  int                         `json:"unassigned"`
	SLABreached int                         `json:"slaBreached"`
	SLAWarning  int                         `json:"slaWarning"`
	ByStatus    []StatusCount               `json:"byStatus"`
	ByLevel     map[domain.SupportLevel]int `json:"byLevel"`
	ByUrgency   map[domain.Urgency]int      `json:"byUrgency"`
	GeneratedAt time.Time                   `json:"generatedAt"`
}

// StatusCount is the number of tickets in one column.
type StatusCount struct {
	Key   string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardService aggregates ticket metrics.
type DashboardService struct {
	store *desk.Store
	clock sla.Clock
}

// NewDashboardService creates the service.
func NewDashboardService(store *desk.Store, clock sla.Clock) *DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardService{store: store, clock: clock}
}

// Summary counts tickets by column, level and SLA state.
func (s *DashboardService) Summary(_ context.Context) DashboardSummary {
	now := s.clock()
	columns := s.store.Columns()
	tickets := s.store.Tickets(desk.TicketFilter{})

	summary := DashboardSummary{
		Total: len(tickets),
		ByLevel: map[domain.SupportLevel]int{
			domain.LevelSelfService: 0,
			domain.LevelBasic:       0,
			domain.LevelTechnical:   0,
			domain.LevelEngineering: 0,
		},
		ByUrgency: map[domain.Urgency]int{
			domain.UrgencyLow:      0,
			domain.UrgencyMedium:   0,
			domain.UrgencyHigh:     0,
			domain.UrgencyCritical: 0,
		},
		GeneratedAt: now.UTC(),
	}

	byStatus := make(map[string]int, len(columns))
	for _, t := range tickets {
		byStatus[t.Status]++
		summary.ByLevel[t.Level]++
		summary.ByUrgency[t.Urgency]++
		if !domain.IsTerminalStatus(t.Status) {
			summary.Pending++
			if t.Assignee == nil {
				summary.Unassigned++
			}
		}
		switch sla.EvaluateTicket(t, now).Severity {
		case sla.SeverityBreached:
			summary.SLABreached++
		case sla.SeverityWarning:
			summary.SLAWarning++
		}
	}

	summary.ByStatus = make([]StatusCount, 0, len(columns))
	for _, col := range columns {
		summary.ByStatus = append(summary.ByStatus, StatusCount{Key: col.Key, Label: col.Label, Count: byStatus[col.Key]})
	}
	return summary
}

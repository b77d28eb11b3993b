// Package sla derives deadline badges for tickets. Nothing here is cached:
// callers evaluate on every read with the current instant.
package sla

import (
	"fmt"
	"math"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Severity grades how close a ticket is to its deadline.
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityBreached Severity = "breached"
)

// LabelDone is shown for tickets in a terminal status.
const LabelDone = "done"

// warningWindowHours is how close to the limit a ticket turns to warning.
const warningWindowHours = 2.0

// Result is the derived SLA badge.
type Result struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// Clock returns the current instant. Tests inject a fixed one.
type Clock func() time.Time

// LimitHours returns the resolution budget for an urgency. Unknown values
// get the low budget.
func LimitHours(urgency domain.Urgency) float64 {
	switch urgency {
	case domain.UrgencyCritical:
		return 4
	case domain.UrgencyHigh:
		return 8
	case domain.UrgencyMedium:
		return 24
	default:
		return 48
	}
}

// Deadline returns the instant the ticket's budget runs out.
func Deadline(createdAt time.Time, urgency domain.Urgency) time.Time {
	return createdAt.Add(time.Duration(LimitHours(urgency) * float64(time.Hour)))
}

// Evaluate maps a ticket's creation time, urgency and status to its badge.
func Evaluate(createdAt time.Time, urgency domain.Urgency, status string, now time.Time) Result {
	if domain.IsTerminalStatus(status) {
		return Result{Label: LabelDone, Severity: SeverityOK}
	}

	elapsed := now.Sub(createdAt).Hours()
	remaining := LimitHours(urgency) - elapsed

	switch {
	case remaining < 0:
		return Result{
			Label:    fmt.Sprintf("overdue by %d hours", int64(math.Abs(roundHalfUp(remaining)))),
			Severity: SeverityBreached,
		}
	case remaining < warningWindowHours:
		return Result{
			Label:    fmt.Sprintf("due in %.1f hours", remaining),
			Severity: SeverityWarning,
		}
	default:
		return Result{
			Label:    fmt.Sprintf("%d hours remaining", int64(roundHalfUp(remaining))),
			Severity: SeverityOK,
		}
	}
}

// EvaluateTicket is Evaluate over a ticket record.
func EvaluateTicket(t domain.Ticket, now time.Time) Result {
	return Evaluate(t.CreatedAt, t.Urgency, t.Status, now)
}

// roundHalfUp rounds halves toward positive infinity, so -1.5 becomes -1.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

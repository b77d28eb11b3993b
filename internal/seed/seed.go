// Package seed loads the demo board shipped with the binary.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/support-desk/internal/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data is the decoded seed document.
type Data struct {
	Columns []domain.Column
	Tags    []domain.Tag
	Team    []domain.TeamMember
	Tickets []domain.Ticket
	Scripts []domain.Script
}

type document struct {
	Columns []struct {
		ID    string `yaml:"id"`
		Label string `yaml:"label"`
		Color string `yaml:"color"`
	} `yaml:"columns"`
	Tags []struct {
		ID    string `yaml:"id"`
		Label string `yaml:"label"`
		Color string `yaml:"color"`
	} `yaml:"tags"`
	Team []struct {
		ID     string `yaml:"id"`
		Name   string `yaml:"name"`
		Email  string `yaml:"email"`
		Role   string `yaml:"role"`
		Status string `yaml:"status"`
	} `yaml:"team"`
	Tickets []struct {
		ID           string   `yaml:"id"`
		CustomerName string   `yaml:"customer_name"`
		PhoneNumber  string   `yaml:"phone_number"`
		Source       string   `yaml:"source"`
		Title        string   `yaml:"title"`
		Description  string   `yaml:"description"`
		Status       string   `yaml:"status"`
		Level        string   `yaml:"level"`
		Urgency      string   `yaml:"urgency"`
		HoursAgo     float64  `yaml:"hours_ago"`
		Tags         []string `yaml:"tags"`
		Assignee     string   `yaml:"assignee"`
		Checklist    []struct {
			Item      string `yaml:"item"`
			Completed bool   `yaml:"completed"`
		} `yaml:"checklist"`
	} `yaml:"tickets"`
	Scripts []domain.Script `yaml:"scripts"`
}

// Default decodes the embedded seed with ticket ages relative to now.
func Default(now time.Time) (*Data, error) {
	return Parse(defaultSeed, now)
}

// Parse decodes a seed document. Ticket tags and assignees must reference
// entries declared in the same document.
func Parse(raw []byte, now time.Time) (*Data, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	data := &Data{Scripts: doc.Scripts}
	for _, c := range doc.Columns {
		data.Columns = append(data.Columns, domain.Column{Key: c.ID, Label: c.Label, Color: c.Color})
	}

	tags := make(map[string]domain.Tag, len(doc.Tags))
	for _, t := range doc.Tags {
		tag := domain.Tag{ID: t.ID, Label: t.Label, Color: t.Color}
		tags[tag.ID] = tag
		data.Tags = append(data.Tags, tag)
	}

	team := make(map[string]domain.TeamMember, len(doc.Team))
	for _, m := range doc.Team {
		member := domain.TeamMember{
			ID:     m.ID,
			Name:   m.Name,
			Email:  m.Email,
			Role:   domain.MemberRole(m.Role),
			Status: domain.MemberStatus(m.Status),
		}
		if !member.Role.Valid() {
			return nil, fmt.Errorf("seed member %s: unknown role %q", m.ID, m.Role)
		}
		team[member.ID] = member
		data.Team = append(data.Team, member)
	}

	for _, t := range doc.Tickets {
		ticket := domain.Ticket{
			ID:           t.ID,
			CustomerName: t.CustomerName,
			PhoneNumber:  t.PhoneNumber,
			Source:       domain.TicketSource(t.Source),
			Title:        t.Title,
			Description:  t.Description,
			Status:       t.Status,
			Level:        domain.SupportLevel(t.Level),
			Urgency:      domain.Urgency(t.Urgency),
			CreatedAt:    now.Add(-time.Duration(t.HoursAgo * float64(time.Hour))),
			Tags:         []domain.Tag{},
			Checklist:    []domain.ChecklistItem{},
		}
		for _, id := range t.Tags {
			tag, ok := tags[id]
			if !ok {
				return nil, fmt.Errorf("seed ticket %s: unknown tag %q", t.ID, id)
			}
			ticket.Tags = append(ticket.Tags, tag)
		}
		if t.Assignee != "" {
			member, ok := team[t.Assignee]
			if !ok {
				return nil, fmt.Errorf("seed ticket %s: unknown assignee %q", t.ID, t.Assignee)
			}
			ticket.Assignee = &member
		}
		for _, item := range t.Checklist {
			ticket.Checklist = append(ticket.Checklist, domain.ChecklistItem{Text: item.Item, Done: item.Completed})
		}
		data.Tickets = append(data.Tickets, ticket)
	}
	return data, nil
}

package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestDefaultSeed(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	data, err := Default(now)
	require.NoError(t, err)

	assert.Len(t, data.Columns, 4)
	assert.Len(t, data.Tags, 8)
	assert.Len(t, data.Team, 3)
	assert.Len(t, data.Scripts, 3)
	require.Len(t, data.Tickets, 5)

	first := data.Tickets[0]
	assert.Equal(t, "T-1024", first.ID)
	assert.Equal(t, domain.UrgencyHigh, first.Urgency)
	assert.Equal(t, now, first.CreatedAt)
	require.NotNil(t, first.Assignee)
	assert.Equal(t, "Carlos Souza", first.Assignee.Name)
	assert.Len(t, first.Checklist, 3)
	assert.True(t, first.Checklist[0].Done)

	assert.Equal(t, now.Add(-20*time.Hour), data.Tickets[2].CreatedAt)
	assert.Equal(t, domain.SourceWhatsApp, data.Tickets[2].Source)

	columns := map[string]bool{}
	for _, c := range data.Columns {
		columns[c.Key] = true
	}
	for _, ticket := range data.Tickets {
		assert.True(t, columns[ticket.Status], ticket.ID)
		assert.True(t, ticket.Level.Valid(), ticket.ID)
		assert.True(t, ticket.Urgency.Valid(), ticket.ID)
	}
}

func TestParseRejectsDanglingReferences(t *testing.T) {
	_, err := Parse([]byte(`
tickets:
  - id: T-1
    tags: [missing]
`), time.Now())
	assert.ErrorContains(t, err, "unknown tag")

	_, err = Parse([]byte(`
tickets:
  - id: T-1
    assignee: nobody
`), time.Now())
	assert.ErrorContains(t, err, "unknown assignee")

	_, err = Parse([]byte(`team: [{id: "1", role: wizard}]`), time.Now())
	assert.ErrorContains(t, err, "unknown role")
}

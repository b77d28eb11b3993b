package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func keys(b *Board) []string {
	out := []string{}
	for _, col := range b.Columns() {
		out = append(out, col.Key)
	}
	return out
}

func abc() *Board {
	return New([]domain.Column{
		{Key: "a", Label: "A"},
		{Key: "b", Label: "B"},
		{Key: "c", Label: "C"},
		{Key: domain.StatusOpen, Label: "Open"},
		{Key: domain.StatusResolved, Label: "Resolved"},
	})
}

func TestNewAddsProtectedColumnsAndDropsDuplicates(t *testing.T) {
	b := New([]domain.Column{{Key: "x"}, {Key: "x"}, {Key: ""}})
	assert.Equal(t, []string{"x", domain.StatusOpen, domain.StatusResolved}, keys(b))
}

func TestReorder(t *testing.T) {
	t.Run("moves first column to last position", func(t *testing.T) {
		b := New([]domain.Column{{Key: "a"}, {Key: "b"}, {Key: "c"}})
		require.True(t, b.Reorder("a", "c"))
		assert.Equal(t, []string{"b", "c", "a", domain.StatusOpen, domain.StatusResolved}, keys(b))
	})

	t.Run("moves later column to earlier position", func(t *testing.T) {
		b := abc()
		require.True(t, b.Reorder("c", "a"))
		assert.Equal(t, []string{"c", "a", "b", domain.StatusOpen, domain.StatusResolved}, keys(b))
	})

	t.Run("same or unknown ids are no-ops", func(t *testing.T) {
		b := abc()
		before := keys(b)
		assert.False(t, b.Reorder("a", "a"))
		assert.False(t, b.Reorder("a", "nope"))
		assert.False(t, b.Reorder("nope", "a"))
		assert.Equal(t, before, keys(b))
	})
}

func TestAddRenameRemove(t *testing.T) {
	b := New(domain.DefaultColumns())

	col, err := b.Add("  Code   Review ", "")
	require.NoError(t, err)
	assert.Equal(t, "code_review", col.Key)
	assert.Equal(t, "Code   Review", col.Label)
	assert.Equal(t, DefaultColor, col.Color)

	_, err = b.Add("code review", "red")
	assert.ErrorIs(t, err, ErrColumnExists)

	_, err = b.Add("   ", "")
	assert.ErrorIs(t, err, ErrInvalidLabel)

	renamed, err := b.Rename("code_review", "Review")
	require.NoError(t, err)
	assert.Equal(t, "code_review", renamed.Key)
	assert.Equal(t, "Review", renamed.Label)

	_, err = b.Rename("missing", "x")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	require.NoError(t, b.Remove("code_review"))
	assert.False(t, b.Has("code_review"))
	assert.ErrorIs(t, b.Remove("code_review"), ErrColumnNotFound)
}

func TestProtectedColumnsCannotBeRemoved(t *testing.T) {
	b := New(domain.DefaultColumns())
	before := keys(b)
	assert.ErrorIs(t, b.Remove(domain.StatusOpen), ErrProtectedColumn)
	assert.ErrorIs(t, b.Remove(domain.StatusResolved), ErrProtectedColumn)
	assert.Equal(t, before, keys(b))
}

func TestColumnsReturnsCopy(t *testing.T) {
	b := New(domain.DefaultColumns())
	cols := b.Columns()
	cols[0].Label = "mutated"
	got, ok := b.Get(cols[0].Key)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", got.Label)
}

// Package board models the ordered set of status columns on the Kanban
// board. A Board is not safe for concurrent use; the desk store guards it.
package board

import (
	"errors"
	"regexp"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrColumnExists    = errors.New("column already exists")
	ErrProtectedColumn = errors.New("column is protected")
	ErrInvalidLabel    = errors.New("column label required")
)

// DefaultColor is used for columns created without a style.
const DefaultColor = "slate"

var whitespace = regexp.MustCompile(`\s+`)

// Board is the ordered list of columns. Slice order is left-to-right.
type Board struct {
	columns []domain.Column
}

// New builds a board from the given columns. Duplicate keys are dropped and
// the protected columns are appended if missing.
func New(columns []domain.Column) *Board {
	b := &Board{}
	for _, col := range columns {
		if col.Key == "" || b.index(col.Key) >= 0 {
			continue
		}
		b.columns = append(b.columns, col)
	}
	for _, def := range domain.DefaultColumns() {
		if IsProtected(def.Key) && b.index(def.Key) < 0 {
			b.columns = append(b.columns, def)
		}
	}
	return b
}

// IsProtected reports whether a column can never be deleted.
func IsProtected(key string) bool {
	return key == domain.StatusOpen || key == domain.StatusResolved
}

// KeyFromLabel derives an immutable column key from its first label.
func KeyFromLabel(label string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
}

// Columns returns a copy of the columns in board order.
func (b *Board) Columns() []domain.Column {
	return append([]domain.Column(nil), b.columns...)
}

// Has reports whether key names a column.
func (b *Board) Has(key string) bool {
	return b.index(key) >= 0
}

// Get returns the column with the given key.
func (b *Board) Get(key string) (domain.Column, bool) {
	i := b.index(key)
	if i < 0 {
		return domain.Column{}, false
	}
	return b.columns[i], true
}

// Add appends a new column built from label.
func (b *Board) Add(label, color string) (domain.Column, error) {
	label = strings.TrimSpace(label)
	key := KeyFromLabel(label)
	if key == "" {
		return domain.Column{}, ErrInvalidLabel
	}
	if b.Has(key) {
		return domain.Column{}, ErrColumnExists
	}
	if color == "" {
		color = DefaultColor
	}
	col := domain.Column{Key: key, Label: label, Color: color}
	b.columns = append(b.columns, col)
	return col, nil
}

// Rename changes a column's label; the key stays.
func (b *Board) Rename(key, label string) (domain.Column, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return domain.Column{}, ErrInvalidLabel
	}
	i := b.index(key)
	if i < 0 {
		return domain.Column{}, ErrColumnNotFound
	}
	b.columns[i].Label = label
	return b.columns[i], nil
}

// Remove deletes a non-protected column. Callers must migrate the column's
// tickets first.
func (b *Board) Remove(key string) error {
	if IsProtected(key) {
		return ErrProtectedColumn
	}
	i := b.index(key)
	if i < 0 {
		return ErrColumnNotFound
	}
	b.columns = append(b.columns[:i], b.columns[i+1:]...)
	return nil
}

// Reorder moves the column fromKey into the current position of toKey.
// It reports false and leaves the order alone when the keys are equal or
// either is unknown.
func (b *Board) Reorder(fromKey, toKey string) bool {
	if fromKey == toKey {
		return false
	}
	from, to := b.index(fromKey), b.index(toKey)
	if from < 0 || to < 0 {
		return false
	}
	moved := b.columns[from]
	cols := append(b.columns[:from:from], b.columns[from+1:]...)
	cols = append(cols[:to], append([]domain.Column{moved}, cols[to:]...)...)
	b.columns = cols
	return true
}

func (b *Board) index(key string) int {
	for i, col := range b.columns {
		if col.Key == key {
			return i
		}
	}
	return -1
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type sqliteMirrorRepository struct {
	db *sqlx.DB
}

// NewSQLiteMirrorRepository builds a mirror on the mirror_entries table.
func NewSQLiteMirrorRepository(db *sqlx.DB) MirrorRepository {
	return &sqliteMirrorRepository{db: db}
}

func (r *sqliteMirrorRepository) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO mirror_entries (key, value, updated_at)
		VALUES (?, ?, ?)`,
		key, string(value), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing mirror key %s: %w", key, err)
	}
	return nil
}

func (r *sqliteMirrorRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT value FROM mirror_entries WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading mirror key %s: %w", key, err)
	}
	return []byte(value), nil
}

func (r *sqliteMirrorRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM mirror_entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting mirror key %s: %w", key, err)
	}
	return nil
}

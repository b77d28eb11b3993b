package repository

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// ActivityRepository stores system log entries.
type ActivityRepository interface {
	Append(ctx context.Context, entry domain.ActivityEntry) error
	List(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

type memoryActivityRepository struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
	limit   int
}

// NewMemoryActivityRepository keeps the newest limit entries in memory.
func NewMemoryActivityRepository(limit int) ActivityRepository {
	if limit <= 0 {
		limit = 500
	}
	return &memoryActivityRepository{limit: limit}
}

func (r *memoryActivityRepository) Append(_ context.Context, entry domain.ActivityEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if overflow := len(r.entries) - r.limit; overflow > 0 {
		r.entries = append([]domain.ActivityEntry(nil), r.entries[overflow:]...)
	}
	return nil
}

// List returns newest first.
func (r *memoryActivityRepository) List(_ context.Context, limit int) ([]domain.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	result := make([]domain.ActivityEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.entries[i])
	}
	return result, nil
}

type postgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityRepository builds repository.
func NewPostgresActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &postgresActivityRepository{pool: pool}
}

func (r *postgresActivityRepository) Append(ctx context.Context, entry domain.ActivityEntry) error {
	const query = `
        INSERT INTO activity_log (id, action, target, actor, details, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		string(entry.Action),
		entry.Target,
		entry.Actor,
		entry.Details,
		entry.Timestamp,
	)
	return err
}

func (r *postgresActivityRepository) List(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	const query = `
        SELECT id, action, target, actor, details, created_at
        FROM activity_log ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityEntry
	for rows.Next() {
		var (
			entry  domain.ActivityEntry
			action string
		)
		if err := rows.Scan(
			&entry.ID,
			&action,
			&entry.Target,
			&entry.Actor,
			&entry.Details,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}
		entry.Action = domain.ActivityAction(action)
		result = append(result, entry)
	}
	return result, rows.Err()
}

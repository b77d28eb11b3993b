package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresMirrorRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMirrorRepository builds repository.
func NewPostgresMirrorRepository(pool *pgxpool.Pool) MirrorRepository {
	return &postgresMirrorRepository{pool: pool}
}

func (r *postgresMirrorRepository) Put(ctx context.Context, key string, value []byte) error {
	const query = `
        INSERT INTO mirror_entries (key, value, updated_at)
        VALUES ($1, $2::jsonb, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query, key, string(value))
	return err
}

func (r *postgresMirrorRepository) Get(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT value::text FROM mirror_entries WHERE key=$1`
	var value string
	if err := r.pool.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *postgresMirrorRepository) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM mirror_entries WHERE key=$1`, key)
	return err
}

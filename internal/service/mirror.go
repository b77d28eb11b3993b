package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
)

// Mirror writes best-effort JSON copies of desk state. Write failures are
// logged and counted, never returned to the mutation that caused them.
// Writes are serialized so a later snapshot never lands before an earlier one.
type Mirror struct {
	mu      sync.Mutex
	repo    repository.MirrorRepository
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewMirror wraps repo. A nil repo disables mirroring.
func NewMirror(repo repository.MirrorRepository, logger *zap.Logger, metrics *observability.Metrics) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{repo: repo, logger: logger, metrics: metrics}
}

// Save marshals value under key.
func (m *Mirror) Save(ctx context.Context, key string, value any) {
	if m == nil || m.repo == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(ctx, key, value)
}

// SaveLatest writes the value returned by read under key. read runs while
// the write lock is held, so the stored copy is never older than one taken
// by a write that finished earlier.
func (m *Mirror) SaveLatest(ctx context.Context, key string, read func() any) {
	if m == nil || m.repo == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(ctx, key, read())
}

// SaveTickets mirrors the current ticket list of store.
func (m *Mirror) SaveTickets(ctx context.Context, store *desk.Store) {
	m.SaveLatest(ctx, repository.KeyTickets, func() any { return store.Snapshot().Tickets })
}

func (m *Mirror) put(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err == nil {
		err = m.repo.Put(ctx, key, payload)
	}
	m.metrics.RecordMirrorWrite(key, err)
	if err != nil {
		m.logger.Warn("mirror write failed", zap.String("key", key), zap.Error(err))
	}
}

// Remove deletes key.
func (m *Mirror) Remove(ctx context.Context, key string) {
	if m == nil || m.repo == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.repo.Delete(ctx, key)
	m.metrics.RecordMirrorWrite(key, err)
	if err != nil {
		m.logger.Warn("mirror delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Load decodes key into dst. It reports false when the key is absent or
// unreadable; unreadable values are logged.
func (m *Mirror) Load(ctx context.Context, key string, dst any) bool {
	if m == nil || m.repo == nil {
		return false
	}
	payload, err := m.repo.Get(ctx, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return false
	}
	if err != nil {
		m.logger.Warn("mirror read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		m.logger.Warn("mirror value unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

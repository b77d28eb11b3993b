package repository

import (
	"context"
	"errors"
	"sync"
)

// Mirror keys.
const (
	KeyTickets             = "tickets"
	KeyBoardColumns        = "board-columns"
	KeyThemeConfig         = "theme-config"
	KeyCustomLogo          = "custom-logo"
	KeyLatestInboundTicket = "latest-inbound-ticket"
)

// ErrKeyNotFound is returned by Get for an absent key.
var ErrKeyNotFound = errors.New("mirror key not found")

// MirrorRepository stores JSON blobs by key. Writes replace the whole value.
type MirrorRepository interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type memoryMirrorRepository struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryMirrorRepository builds a process-local mirror.
func NewMemoryMirrorRepository() MirrorRepository {
	return &memoryMirrorRepository{entries: make(map[string][]byte)}
}

func (r *memoryMirrorRepository) Put(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = append([]byte(nil), value...)
	return nil
}

func (r *memoryMirrorRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (r *memoryMirrorRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

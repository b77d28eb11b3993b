// Package credential resolves the advice API key from the environment or
// the OS keyring.
package credential

import (
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"
)

const (
	ServiceName     = "support-desk"
	AdvisorKeyItem  = "advisor-api-key"
	fileKeyringPass = "support-desk-file-key"
)

// Open returns the OS keyring for the service.
func Open() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: ServiceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/support-desk/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt(fileKeyringPass),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Resolver finds the advice API key. An explicit key wins; otherwise the
// keyring item is read when a ring is set.
type Resolver struct {
	ring keyring.Keyring
}

// NewResolver builds a resolver. ring may be nil to disable keyring lookup.
func NewResolver(ring keyring.Keyring) *Resolver {
	return &Resolver{ring: ring}
}

// AdvisorKey returns the key, or "" when none is configured. A missing
// keyring item is not an error.
func (r *Resolver) AdvisorKey(explicit string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	if r == nil || r.ring == nil {
		return "", nil
	}
	item, err := r.ring.Get(AdvisorKeyItem)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", AdvisorKeyItem, err)
	}
	return strings.TrimSpace(string(item.Data)), nil
}

// StoreAdvisorKey writes the key into the ring.
func (r *Resolver) StoreAdvisorKey(value string) error {
	if r == nil || r.ring == nil {
		return errors.New("keyring not configured")
	}
	err := r.ring.Set(keyring.Item{Key: AdvisorKeyItem, Data: []byte(value)})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", AdvisorKeyItem, err)
	}
	return nil
}

package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvisorKeyPrefersExplicitValue(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: AdvisorKeyItem, Data: []byte("from-ring")}})

	key, err := NewResolver(ring).AdvisorKey("  from-env ")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestAdvisorKeyFallsBackToKeyring(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	r := NewResolver(ring)

	key, err := r.AdvisorKey("")
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, r.StoreAdvisorKey("stored"))
	key, err = r.AdvisorKey("")
	require.NoError(t, err)
	assert.Equal(t, "stored", key)
}

func TestAdvisorKeyWithoutKeyring(t *testing.T) {
	r := NewResolver(nil)
	key, err := r.AdvisorKey("")
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Error(t, r.StoreAdvisorKey("x"))
}

package usecase

import (
	"testing"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultStoreAndGet(t *testing.T) {
	v := NewVault()
	v.Store(101, &models.CredentialReveal{Password: "hunter2", RevealedAt: time.Now()})

	reveal, ok := v.Get(101)
	require.True(t, ok)
	assert.Equal(t, "hunter2", reveal.Password)

	_, ok = v.Get(102)
	assert.False(t, ok)
}

func TestVaultGetReturnsCopy(t *testing.T) {
	v := NewVault()
	v.Store(101, &models.CredentialReveal{Password: "hunter2", RevealedAt: time.Now()})

	reveal, ok := v.Get(101)
	require.True(t, ok)
	reveal.Password = "mutated"

	again, ok := v.Get(101)
	require.True(t, ok)
	assert.Equal(t, "hunter2", again.Password)
}

func TestVaultExpiryOnRead(t *testing.T) {
	v := NewVault()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return current }

	v.Store(101, &models.CredentialReveal{Password: "hunter2", RevealedAt: current})

	_, ok := v.Get(101)
	assert.True(t, ok)

	// One second past the default five minute window.
	current = current.Add(5*time.Minute + time.Second)
	_, ok = v.Get(101)
	assert.False(t, ok, "expired credentials must be purged on read")

	_, ok = v.Get(101)
	assert.False(t, ok)
}

func TestVaultPurge(t *testing.T) {
	v := NewVault()
	v.Store(101, &models.CredentialReveal{Password: "hunter2", RevealedAt: time.Now()})

	v.Purge(101)
	_, ok := v.Get(101)
	assert.False(t, ok)

	// Purging again is a no-op.
	v.Purge(101)
}

func TestVaultAlreadyExpiredPayloadNeverStored(t *testing.T) {
	v := NewVault()
	v.Store(101, &models.CredentialReveal{
		Password:   "hunter2",
		RevealedAt: time.Now().Add(-time.Hour),
	})

	_, ok := v.Get(101)
	assert.False(t, ok)
}

func TestVaultReplaceResetsWindow(t *testing.T) {
	v := NewVault()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return current }

	v.Store(101, &models.CredentialReveal{Password: "first", RevealedAt: current})

	current = current.Add(4 * time.Minute)
	v.Store(101, &models.CredentialReveal{Password: "second", RevealedAt: current})

	current = current.Add(4 * time.Minute)
	reveal, ok := v.Get(101)
	require.True(t, ok, "the window restarts with the replacing payload")
	assert.Equal(t, "second", reveal.Password)
}

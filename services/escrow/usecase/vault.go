package usecase

import (
	"sync"
	"time"

	"github.com/okwaro/sokopesa/internal/pkg/models"
)

// Vault holds revealed credentials in memory only, keyed by transaction.
// Entries self-destruct when their window lapses. Nothing here is ever
// serialized, cached, or logged.
type Vault struct {
	mu      sync.Mutex
	entries map[int64]*models.CredentialReveal
	timers  map[int64]*time.Timer
	now     func() time.Time
}

// NewVault creates an empty vault
func NewVault() *Vault {
	return &Vault{
		entries: make(map[int64]*models.CredentialReveal),
		timers:  make(map[int64]*time.Timer),
		now:     time.Now,
	}
}

// Store keeps the reveal payload until its self-destruct window lapses,
// replacing any previous entry for the transaction.
func (v *Vault) Store(transactionID int64, reveal *models.CredentialReveal) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if t, ok := v.timers[transactionID]; ok {
		t.Stop()
	}

	cp := *reveal
	if cp.RevealedAt.IsZero() {
		cp.RevealedAt = v.now()
	}
	v.entries[transactionID] = &cp

	remaining := cp.ExpiresAt().Sub(v.now())
	if remaining <= 0 {
		delete(v.entries, transactionID)
		delete(v.timers, transactionID)
		return
	}
	v.timers[transactionID] = time.AfterFunc(remaining, func() {
		v.Purge(transactionID)
	})
}

// Get returns a copy of the stored payload. Expired entries are purged on
// read so a stopped timer cannot leak secrets past the window.
func (v *Vault) Get(transactionID int64) (*models.CredentialReveal, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.entries[transactionID]
	if !ok {
		return nil, false
	}
	if entry.Expired(v.now()) {
		v.purgeLocked(transactionID)
		return nil, false
	}
	cp := *entry
	return &cp, true
}

// Purge removes the payload for a transaction immediately.
func (v *Vault) Purge(transactionID int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.purgeLocked(transactionID)
}

func (v *Vault) purgeLocked(transactionID int64) {
	if t, ok := v.timers[transactionID]; ok {
		t.Stop()
		delete(v.timers, transactionID)
	}
	if entry, ok := v.entries[transactionID]; ok {
		// Overwrite the secret material before dropping the reference.
		entry.Password = ""
		entry.TwoFASecret = ""
		delete(v.entries, transactionID)
	}
}

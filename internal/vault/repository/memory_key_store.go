package repository

import (
	"context"
	"sync"

	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

// MemoryKeyStore is a process-local KeyStore. Entries do not survive a restart.
type MemoryKeyStore struct {
	mu      sync.RWMutex
	entries map[string]vaultDomain.MasterKeyEntry
}

// NewMemoryKeyStore creates an empty MemoryKeyStore.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{entries: make(map[string]vaultDomain.MasterKeyEntry)}
}

// Get returns a copy of the entry stored under alias.
func (s *MemoryKeyStore) Get(ctx context.Context, alias string) (*vaultDomain.MasterKeyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[alias]
	if !ok {
		return nil, vaultDomain.ErrKeyNotFound
	}
	entry.SealedKey = append([]byte(nil), entry.SealedKey...)
	return &entry, nil
}

// Create stores a copy of entry, returning ErrKeyExists if the alias is taken.
func (s *MemoryKeyStore) Create(ctx context.Context, entry *vaultDomain.MasterKeyEntry) error {
	if err := vaultDomain.ValidateAlias(entry.Alias); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.Alias]; ok {
		return vaultDomain.ErrKeyExists
	}
	stored := *entry
	stored.SealedKey = append([]byte(nil), entry.SealedKey...)
	s.entries[entry.Alias] = stored
	return nil
}

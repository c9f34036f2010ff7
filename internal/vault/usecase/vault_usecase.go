// Package usecase implements the master key vault.
//
// Master keys are 256-bit keys generated inside the vault, sealed by a KMS keeper
// (gocloud.dev/secrets) and persisted through a KeyStore. Once unsealed they are held in
// memguard enclaves, encrypted at rest in process memory, and only opened into guarded
// buffers for the duration of a single Wrap or Unwrap.
//
// Creation is race-safe at two levels: callers in one process are collapsed per alias with
// singleflight, and processes sharing a store rely on KeyStore.Create being an atomic
// create-if-absent. The loser of a cross-process race re-reads the entry and adopts the
// winner's key, so every caller converges on one key per alias.
package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/awnumar/memguard"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	cryptoService "github.com/allisson/modelguard/internal/crypto/service"
	apperrors "github.com/allisson/modelguard/internal/errors"
	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

// unsealedKey is a master key resident in memory.
type unsealedKey struct {
	handle  vaultDomain.KeyHandle
	enclave *memguard.Enclave
}

type vaultUseCase struct {
	store       KeyStore
	keeper      cryptoDomain.KMSKeeper
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
	logger      *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	keys   map[string]*unsealedKey
	closed bool
}

// NewVault creates a Vault. New master keys use algorithm; existing keys keep the
// algorithm recorded in their entry. The keeper is borrowed and not closed by the vault.
func NewVault(
	store KeyStore,
	keeper cryptoDomain.KMSKeeper,
	aeadManager cryptoService.AEADManager,
	algorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) Vault {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &vaultUseCase{
		store:       store,
		keeper:      keeper,
		aeadManager: aeadManager,
		algorithm:   algorithm,
		logger:      logger,
		keys:        make(map[string]*unsealedKey),
	}
}

// EnsureKey returns the handle for alias, creating the master key if none exists.
func (v *vaultUseCase) EnsureKey(ctx context.Context, alias string) (vaultDomain.KeyHandle, error) {
	if err := vaultDomain.ValidateAlias(alias); err != nil {
		return vaultDomain.KeyHandle{}, err
	}

	key, err := v.cached(alias)
	if err != nil {
		return vaultDomain.KeyHandle{}, err
	}
	if key != nil {
		return key.handle, nil
	}

	result, err, _ := v.group.Do(alias, func() (any, error) {
		key, err := v.load(ctx, alias)
		if err == nil {
			return key, nil
		}
		if !apperrors.Is(err, vaultDomain.ErrKeyNotFound) {
			return nil, err
		}

		key, err = v.create(ctx, alias)
		if apperrors.Is(err, vaultDomain.ErrKeyExists) {
			v.logger.Info("master key created by another process, adopting it",
				slog.String("alias", alias),
			)
			return v.load(ctx, alias)
		}
		return key, err
	})
	if err != nil {
		return vaultDomain.KeyHandle{}, err
	}
	return result.(*unsealedKey).handle, nil
}

// Key returns the handle for an existing alias.
func (v *vaultUseCase) Key(ctx context.Context, alias string) (vaultDomain.KeyHandle, error) {
	if err := vaultDomain.ValidateAlias(alias); err != nil {
		return vaultDomain.KeyHandle{}, err
	}
	key, err := v.load(ctx, alias)
	if err != nil {
		return vaultDomain.KeyHandle{}, err
	}
	return key.handle, nil
}

// Wrap encrypts plaintext under the master key referenced by handle.
func (v *vaultUseCase) Wrap(
	ctx context.Context,
	handle vaultDomain.KeyHandle,
	plaintext []byte,
) (iv, ciphertext, tag []byte, err error) {
	key, err := v.resolve(ctx, handle)
	if err != nil {
		return nil, nil, nil, err
	}

	aead, buf, err := v.openCipher(key)
	if err != nil {
		return nil, nil, nil, err
	}
	defer buf.Destroy()

	sealed, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, nil, nil, apperrors.Join(vaultDomain.ErrCipherFailure, err)
	}

	n := len(sealed) - cryptoDomain.TagSize
	return nonce, sealed[:n:n], sealed[n:], nil
}

// Unwrap verifies and decrypts a ciphertext produced by Wrap.
func (v *vaultUseCase) Unwrap(
	ctx context.Context,
	handle vaultDomain.KeyHandle,
	iv, ciphertext, tag []byte,
) ([]byte, error) {
	if len(iv) != cryptoDomain.IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d",
			vaultDomain.ErrCipherFailure, cryptoDomain.IVSize, len(iv))
	}
	if len(tag) != cryptoDomain.TagSize {
		return nil, fmt.Errorf("%w: tag must be %d bytes, got %d",
			vaultDomain.ErrCipherFailure, cryptoDomain.TagSize, len(tag))
	}

	key, err := v.resolve(ctx, handle)
	if err != nil {
		return nil, err
	}

	aead, buf, err := v.openCipher(key)
	if err != nil {
		return nil, err
	}
	defer buf.Destroy()

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Decrypt(sealed, iv, nil)
	if err != nil {
		if apperrors.Is(err, cryptoDomain.ErrDecryptionFailed) {
			return nil, apperrors.Join(vaultDomain.ErrAuthenticationFailed, err)
		}
		return nil, apperrors.Join(vaultDomain.ErrCipherFailure, err)
	}
	return plaintext, nil
}

// Close drops the resident enclaves.
func (v *vaultUseCase) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	clear(v.keys)
	return nil
}

func (v *vaultUseCase) cached(alias string) (*unsealedKey, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.closed {
		return nil, vaultDomain.ErrVaultClosed
	}
	return v.keys[alias], nil
}

// remember caches key unless another goroutine got there first, and returns the winner.
func (v *vaultUseCase) remember(key *unsealedKey) (*unsealedKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, vaultDomain.ErrVaultClosed
	}
	if existing, ok := v.keys[key.handle.Alias]; ok {
		return existing, nil
	}
	v.keys[key.handle.Alias] = key
	return key, nil
}

// resolve finds the key a handle points to, loading it if it is not resident yet.
// A handle whose ID no longer matches the stored key is treated as unknown.
func (v *vaultUseCase) resolve(ctx context.Context, handle vaultDomain.KeyHandle) (*unsealedKey, error) {
	if err := vaultDomain.ValidateAlias(handle.Alias); err != nil {
		return nil, apperrors.Join(vaultDomain.ErrKeyNotFound, err)
	}

	key, err := v.load(ctx, handle.Alias)
	if err != nil {
		return nil, err
	}
	if key.handle.ID != handle.ID {
		return nil, fmt.Errorf("%w: handle %s does not match stored key %s",
			vaultDomain.ErrKeyNotFound, handle.ID, key.handle.ID)
	}
	return key, nil
}

// load returns the resident key for alias, unsealing it from the store if needed.
func (v *vaultUseCase) load(ctx context.Context, alias string) (*unsealedKey, error) {
	key, err := v.cached(alias)
	if err != nil || key != nil {
		return key, err
	}

	entry, err := v.store.Get(ctx, alias)
	if err != nil {
		return nil, err
	}

	raw, err := v.keeper.Decrypt(ctx, entry.SealedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unseal master key: %w", vaultDomain.ErrCipherFailure, err)
	}
	if len(raw) != cryptoDomain.MasterKeySize {
		cryptoDomain.Zero(raw)
		return nil, fmt.Errorf("%w: unsealed master key has %d bytes",
			vaultDomain.ErrCipherFailure, len(raw))
	}

	return v.remember(&unsealedKey{
		handle:  entry.Handle(),
		enclave: memguard.NewEnclave(raw),
	})
}

// create generates a master key, seals it and persists it.
func (v *vaultUseCase) create(ctx context.Context, alias string) (*unsealedKey, error) {
	raw := make([]byte, cryptoDomain.MasterKeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("%w: failed to generate master key: %w", vaultDomain.ErrCipherFailure, err)
	}

	sealed, err := v.keeper.Encrypt(ctx, raw)
	if err != nil {
		cryptoDomain.Zero(raw)
		return nil, fmt.Errorf("%w: failed to seal master key: %w", vaultDomain.ErrCipherFailure, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		cryptoDomain.Zero(raw)
		return nil, fmt.Errorf("%w: failed to generate key id: %w", vaultDomain.ErrCipherFailure, err)
	}

	entry := &vaultDomain.MasterKeyEntry{
		ID:        id,
		Alias:     alias,
		Algorithm: v.algorithm,
		SealedKey: sealed,
		CreatedAt: time.Now().UTC(),
	}
	if err := v.store.Create(ctx, entry); err != nil {
		cryptoDomain.Zero(raw)
		return nil, err
	}

	v.logger.Info("master key created",
		slog.String("alias", alias),
		slog.String("key_id", id.String()),
		slog.String("algorithm", string(v.algorithm)),
	)

	return v.remember(&unsealedKey{
		handle:  entry.Handle(),
		enclave: memguard.NewEnclave(raw),
	})
}

// openCipher opens the enclave into a guarded buffer and builds the AEAD over it.
// The caller must Destroy the buffer once done.
func (v *vaultUseCase) openCipher(key *unsealedKey) (cryptoService.AEAD, *memguard.LockedBuffer, error) {
	buf, err := key.enclave.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to open enclave: %w", vaultDomain.ErrCipherFailure, err)
	}

	aead, err := v.aeadManager.CreateCipher(buf.Bytes(), key.handle.Algorithm)
	if err != nil {
		buf.Destroy()
		return nil, nil, apperrors.Join(vaultDomain.ErrCipherFailure, err)
	}
	return aead, buf, nil
}

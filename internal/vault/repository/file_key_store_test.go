package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	apperrors "github.com/allisson/modelguard/internal/errors"
	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

func newEntry(alias string) *vaultDomain.MasterKeyEntry {
	return &vaultDomain.MasterKeyEntry{
		ID:        uuid.Must(uuid.NewV7()),
		Alias:     alias,
		Algorithm: cryptoDomain.AESGCM,
		SealedKey: []byte("sealed-" + alias),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestNewFileKeyStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keystore")

	_, err := NewFileKeyStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}

func TestFileKeyStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileKeyStore(t.TempDir())
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		entry := newEntry("MODEL_AES_KEY_ALIAS")
		require.NoError(t, store.Create(ctx, entry))

		got, err := store.Get(ctx, entry.Alias)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
		assert.Equal(t, entry.Alias, got.Alias)
		assert.Equal(t, entry.Algorithm, got.Algorithm)
		assert.Equal(t, entry.SealedKey, got.SealedKey)
		assert.True(t, entry.CreatedAt.Equal(got.CreatedAt))

		info, err := os.Stat(store.path(entry.Alias))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, vaultDomain.ErrKeyNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_Exists", func(t *testing.T) {
		first := newEntry("taken")
		require.NoError(t, store.Create(ctx, first))

		err := store.Create(ctx, newEntry("taken"))
		assert.ErrorIs(t, err, vaultDomain.ErrKeyExists)

		got, err := store.Get(ctx, "taken")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	})

	t.Run("Error_InvalidAlias", func(t *testing.T) {
		err := store.Create(ctx, newEntry("../escape"))
		assert.ErrorIs(t, err, vaultDomain.ErrInvalidAlias)

		_, err = store.Get(ctx, "../escape")
		assert.ErrorIs(t, err, vaultDomain.ErrInvalidAlias)
	})

	t.Run("Error_CorruptEntry", func(t *testing.T) {
		require.NoError(t, os.WriteFile(store.path("corrupt"), []byte("{not json"), 0o600))

		_, err := store.Get(ctx, "corrupt")
		assert.ErrorIs(t, err, vaultDomain.ErrKeyStoreFailure)
	})

	t.Run("NoTemporaryFilesLeft", func(t *testing.T) {
		matches, err := filepath.Glob(filepath.Join(store.dir, ".*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestFileKeyStore_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Separate store instances stand in for separate processes.
			store, err := NewFileKeyStore(dir)
			if !assert.NoError(t, err) {
				return
			}
			err = store.Create(ctx, newEntry("shared"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case apperrors.Is(err, vaultDomain.ErrKeyExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

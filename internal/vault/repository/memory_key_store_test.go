package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

func TestMemoryKeyStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKeyStore()

	t.Run("CreateAndGet", func(t *testing.T) {
		entry := newEntry("alias")
		require.NoError(t, store.Create(ctx, entry))

		got, err := store.Get(ctx, "alias")
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
		assert.Equal(t, entry.SealedKey, got.SealedKey)
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		got, err := store.Get(ctx, "alias")
		require.NoError(t, err)
		got.SealedKey[0] ^= 0xff

		again, err := store.Get(ctx, "alias")
		require.NoError(t, err)
		assert.Equal(t, []byte("sealed-alias"), again.SealedKey)
	})

	t.Run("Error_Exists", func(t *testing.T) {
		assert.ErrorIs(t, store.Create(ctx, newEntry("alias")), vaultDomain.ErrKeyExists)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, vaultDomain.ErrKeyNotFound)
	})
}

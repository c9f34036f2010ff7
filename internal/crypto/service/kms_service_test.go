package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
)

func localKeeperURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	svc := NewKMSService()

	keeper, err := svc.OpenKeeper(ctx, localKeeperURI(t))
	require.NoError(t, err)
	_, ok := keeper.(*secrets.Keeper)
	assert.True(t, ok)
	assert.NoError(t, keeper.Close())

	keeper, err = svc.OpenKeeper(ctx, "")
	assert.ErrorIs(t, err, cryptoDomain.ErrKMSKeyURIRequired)
	assert.Nil(t, keeper)

	keeper, err = svc.OpenKeeper(ctx, "invalid://uri")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scheme "invalid"`)
	assert.Nil(t, keeper)
}

func TestKMSService_NewLocalKeyURI(t *testing.T) {
	ctx := context.Background()
	svc := NewKMSService()

	uri, err := svc.NewLocalKeyURI()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "base64key://"))

	raw, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(uri, "base64key://"))
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	other, err := svc.NewLocalKeyURI()
	require.NoError(t, err)
	assert.NotEqual(t, uri, other)

	keeper, err := svc.OpenKeeper(ctx, uri)
	require.NoError(t, err)
	assert.NoError(t, keeper.Close())
}

func TestKMSService_SealMasterKey(t *testing.T) {
	ctx := context.Background()
	svc := NewKMSService()
	uri := localKeeperURI(t)

	opened, err := svc.OpenKeeper(ctx, uri)
	require.NoError(t, err)
	defer func() { assert.NoError(t, opened.Close()) }()
	keeper := opened.(*secrets.Keeper)

	masterKey := make([]byte, 32)
	_, err = rand.Read(masterKey)
	require.NoError(t, err)

	sealed, err := keeper.Encrypt(ctx, masterKey)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), string(masterKey))

	t.Run("same uri reopens", func(t *testing.T) {
		reopened, err := svc.OpenKeeper(ctx, uri)
		require.NoError(t, err)
		defer func() { assert.NoError(t, reopened.Close()) }()

		unsealed, err := reopened.Decrypt(ctx, sealed)
		require.NoError(t, err)
		assert.Equal(t, masterKey, unsealed)
	})

	t.Run("different key rejects", func(t *testing.T) {
		other, err := svc.OpenKeeper(ctx, localKeeperURI(t))
		require.NoError(t, err)
		defer func() { assert.NoError(t, other.Close()) }()

		unsealed, err := other.Decrypt(ctx, sealed)
		assert.Error(t, err)
		assert.Nil(t, unsealed)
	})

	t.Run("garbage rejects", func(t *testing.T) {
		unsealed, err := keeper.Decrypt(ctx, []byte("not a sealed key"))
		assert.Error(t, err)
		assert.Nil(t, unsealed)
	})
}

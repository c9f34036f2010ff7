package app

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets/localsecrets"

	"github.com/allisson/modelguard/internal/config"
	"github.com/allisson/modelguard/internal/metrics"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	secret, err := localsecrets.NewRandomKey()
	require.NoError(t, err)

	dataDir := t.TempDir()
	return &config.Config{
		LogLevel:           "error",
		DataDir:            dataDir,
		KeyStoreDir:        filepath.Join(dataDir, "keystore"),
		WrappedKeyPath:     filepath.Join(dataDir, "wrapped_key.bin"),
		ArtifactDir:        filepath.Join(dataDir, "artifacts"),
		MasterKeyAlias:     config.DefaultMasterKeyAlias,
		MasterKeyAlgorithm: "aes-gcm",
		KMSKeyURI:          "base64key://" + base64.URLEncoding.EncodeToString(secret[:]),
		DecryptChunkSize:   8192,
		TransferMaxRetries: 1,
		TransferTimeout:    time.Minute,
		MetricsEnabled:     true,
		MetricsNamespace:   "modelguard",
		MetricsTextfile:    filepath.Join(dataDir, "metrics", "modelguard.prom"),
	}
}

func TestNewContainer(t *testing.T) {
	cfg := newTestConfig(t)

	container := NewContainer(cfg)

	require.NotNil(t, container)
	assert.Same(t, cfg, container.Config())
}

func TestContainerLogger(t *testing.T) {
	container := NewContainer(&config.Config{LogLevel: "debug"})

	logger := container.Logger()
	require.NotNil(t, logger)
	assert.Same(t, logger, container.Logger())

	assert.NotNil(t, NewContainer(&config.Config{LogLevel: "invalid"}).Logger())
}

func TestContainerKMSKeeper(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingURI", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.KMSKeyURI = ""
		container := NewContainer(cfg)

		_, err := container.KMSKeeper(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "KMS_KEY_URI")

		// The failure is remembered.
		_, err = container.Vault(ctx)
		assert.Error(t, err)
		_, err = container.KMSKeeper(ctx)
		assert.Error(t, err)
	})

	t.Run("UnknownScheme", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.KMSKeyURI = "nosuchkms://key"
		container := NewContainer(cfg)

		_, err := container.KMSKeeper(ctx)
		assert.Error(t, err)
	})
}

func TestContainerVaultInvalidAlgorithm(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MasterKeyAlgorithm = "rot13"
	container := NewContainer(cfg)

	_, err := container.Vault(context.Background())
	assert.Error(t, err)
}

func TestContainerWiring(t *testing.T) {
	ctx := context.Background()
	cfg := newTestConfig(t)
	container := NewContainer(cfg)

	loader, err := container.Loader(ctx)
	require.NoError(t, err)
	require.NotNil(t, loader)

	again, err := container.Loader(ctx)
	require.NoError(t, err)
	assert.Same(t, loader, again)

	contentKeys, err := container.ContentKeyUseCase(ctx)
	require.NoError(t, err)

	raw := []byte("0123456789abcdef")
	require.NoError(t, contentKeys.StoreContentKey(ctx, raw))

	key, err := contentKeys.LoadContentKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, raw, key.Bytes())
	key.Zero()

	_, err = os.Stat(cfg.WrappedKeyPath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.KeyStoreDir, cfg.MasterKeyAlias+".json"))
	require.NoError(t, err)

	require.NoError(t, container.Shutdown(ctx))

	data, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "modelguard_operations_total")
	assert.Contains(t, string(data), `operation="content_key_load"`)
}

func TestContainerMetricsDisabled(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.MetricsEnabled = false
	container := NewContainer(cfg)

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	businessMetrics, err := container.BusinessMetrics()
	require.NoError(t, err)
	assert.IsType(t, &metrics.NoOpBusinessMetrics{}, businessMetrics)

	_, err = container.Engine()
	require.NoError(t, err)

	require.NoError(t, container.Shutdown(context.Background()))
	_, err = os.Stat(cfg.MetricsTextfile)
	assert.True(t, os.IsNotExist(err))
}

func TestContainerShutdownWithoutInitialization(t *testing.T) {
	container := NewContainer(newTestConfig(t))

	assert.NoError(t, container.Shutdown(context.Background()))
}

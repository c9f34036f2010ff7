package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/modelguard/internal/errors"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "./data", cfg.DataDir)
				assert.Equal(t, filepath.Join("./data", "keystore"), cfg.KeyStoreDir)
				assert.Equal(t, filepath.Join("./data", "wrapped_key.bin"), cfg.WrappedKeyPath)
				assert.Equal(t, filepath.Join("./data", "artifacts"), cfg.ArtifactDir)
				assert.Empty(t, cfg.DecryptOutputDir)
				assert.Equal(t, DefaultMasterKeyAlias, cfg.MasterKeyAlias)
				assert.Equal(t, "aes-gcm", cfg.MasterKeyAlgorithm)
				assert.Empty(t, cfg.KMSKeyURI)
				assert.Equal(t, 8192, cfg.DecryptChunkSize)
				assert.Equal(t, 3, cfg.TransferMaxRetries)
				assert.Equal(t, 300*time.Second, cfg.TransferTimeout)
				assert.True(t, cfg.MetricsEnabled)
				assert.Equal(t, "modelguard", cfg.MetricsNamespace)
				assert.Empty(t, cfg.MetricsTextfile)
			},
		},
		{
			name: "paths follow data dir",
			envVars: map[string]string{
				"DATA_DIR": "/var/lib/modelguard",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/var/lib/modelguard/keystore", cfg.KeyStoreDir)
				assert.Equal(t, "/var/lib/modelguard/wrapped_key.bin", cfg.WrappedKeyPath)
				assert.Equal(t, "/var/lib/modelguard/artifacts", cfg.ArtifactDir)
			},
		},
		{
			name: "explicit paths win",
			envVars: map[string]string{
				"DATA_DIR":           "/var/lib/modelguard",
				"KEYSTORE_DIR":       "/secure/keys",
				"WRAPPED_KEY_PATH":   "/secure/model.key",
				"DECRYPT_OUTPUT_DIR": "/dev/shm/models",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/secure/keys", cfg.KeyStoreDir)
				assert.Equal(t, "/secure/model.key", cfg.WrappedKeyPath)
				assert.Equal(t, "/var/lib/modelguard/artifacts", cfg.ArtifactDir)
				assert.Equal(t, "/dev/shm/models", cfg.DecryptOutputDir)
			},
		},
		{
			name: "load custom key and transfer configuration",
			envVars: map[string]string{
				"MASTER_KEY_ALIAS":         "edge-model",
				"MASTER_KEY_ALGORITHM":     "chacha20-poly1305",
				"KMS_KEY_URI":              "hashivault://modelguard",
				"DECRYPT_CHUNK_SIZE":       "65536",
				"TRANSFER_MAX_RETRIES":     "5",
				"TRANSFER_TIMEOUT_SECONDS": "30",
				"METRICS_ENABLED":          "false",
				"METRICS_TEXTFILE":         "/var/lib/node_exporter/modelguard.prom",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "edge-model", cfg.MasterKeyAlias)
				assert.Equal(t, "chacha20-poly1305", cfg.MasterKeyAlgorithm)
				assert.Equal(t, "hashivault://modelguard", cfg.KMSKeyURI)
				assert.Equal(t, 65536, cfg.DecryptChunkSize)
				assert.Equal(t, 5, cfg.TransferMaxRetries)
				assert.Equal(t, 30*time.Second, cfg.TransferTimeout)
				assert.False(t, cfg.MetricsEnabled)
				assert.Equal(t, "/var/lib/node_exporter/modelguard.prom", cfg.MetricsTextfile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func validConfig() *Config {
	return &Config{
		LogLevel:           "info",
		DataDir:            "./data",
		KeyStoreDir:        "./data/keystore",
		WrappedKeyPath:     "./data/wrapped_key.bin",
		ArtifactDir:        "./data/artifacts",
		MasterKeyAlias:     DefaultMasterKeyAlias,
		MasterKeyAlgorithm: "aes-gcm",
		KMSKeyURI:          "base64key://YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXoxMjM0NTY=",
		DecryptChunkSize:   8192,
		TransferMaxRetries: 3,
		TransferTimeout:    time.Minute,
		MetricsEnabled:     true,
		MetricsNamespace:   "modelguard",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		errMsg string
	}{
		{name: "valid", mutate: func(cfg *Config) {}},
		{name: "kms uri optional", mutate: func(cfg *Config) { cfg.KMSKeyURI = "" }},
		{
			name:   "unknown log level",
			mutate: func(cfg *Config) { cfg.LogLevel = "trace" },
			errMsg: "LogLevel",
		},
		{
			name:   "blank keystore dir",
			mutate: func(cfg *Config) { cfg.KeyStoreDir = "  " },
			errMsg: "KeyStoreDir",
		},
		{
			name:   "alias with separator",
			mutate: func(cfg *Config) { cfg.MasterKeyAlias = "../escape" },
			errMsg: "MasterKeyAlias",
		},
		{
			name:   "unsupported algorithm",
			mutate: func(cfg *Config) { cfg.MasterKeyAlgorithm = "aes-cbc" },
			errMsg: "MasterKeyAlgorithm",
		},
		{
			name:   "unsupported kms scheme",
			mutate: func(cfg *Config) { cfg.KMSKeyURI = "file:///tmp/key" },
			errMsg: "KMSKeyURI",
		},
		{
			name:   "chunk too small",
			mutate: func(cfg *Config) { cfg.DecryptChunkSize = 8 },
			errMsg: "DecryptChunkSize",
		},
		{
			name:   "negative retries",
			mutate: func(cfg *Config) { cfg.TransferMaxRetries = -1 },
			errMsg: "TransferMaxRetries",
		},
		{
			name:   "bad metric namespace",
			mutate: func(cfg *Config) { cfg.MetricsNamespace = "model-guard" },
			errMsg: "MetricsNamespace",
		},
		{
			name: "namespace ignored when metrics disabled",
			mutate: func(cfg *Config) {
				cfg.MetricsEnabled = false
				cfg.MetricsNamespace = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

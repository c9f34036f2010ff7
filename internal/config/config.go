// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	customValidation "github.com/allisson/modelguard/internal/validation"
)

// DefaultMasterKeyAlias is the alias of the master key that wraps model content keys.
const DefaultMasterKeyAlias = "MODEL_AES_KEY_ALIAS"

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// DataDir is the root directory for local state. The other paths default below it.
	DataDir string
	// KeyStoreDir holds the KMS-sealed master keys, one file per alias.
	KeyStoreDir string
	// WrappedKeyPath is the wrapped content key record.
	WrappedKeyPath string
	// ArtifactDir receives fetched encrypted artifacts.
	ArtifactDir string
	// DecryptOutputDir receives decrypted artifacts. Empty means next to the artifact.
	DecryptOutputDir string

	// MasterKeyAlias names the master key used to wrap the content key.
	MasterKeyAlias string
	// MasterKeyAlgorithm is the AEAD used with the master key (aes-gcm or chacha20-poly1305).
	MasterKeyAlgorithm string
	// KMSKeyURI is the gocloud.dev secrets URI of the keeper sealing master keys.
	KMSKeyURI string

	// DecryptChunkSize is the read buffer size of the streaming decryptor.
	DecryptChunkSize int

	// TransferMaxRetries is the number of retries after the first download attempt.
	TransferMaxRetries int
	// TransferTimeout bounds a single download attempt.
	TransferTimeout time.Duration

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsTextfile is written on shutdown for the node_exporter textfile collector.
	MetricsTextfile string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	dataDir := env.GetString("DATA_DIR", "./data")

	return &Config{
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Storage
		DataDir:          dataDir,
		KeyStoreDir:      env.GetString("KEYSTORE_DIR", filepath.Join(dataDir, "keystore")),
		WrappedKeyPath:   env.GetString("WRAPPED_KEY_PATH", filepath.Join(dataDir, "wrapped_key.bin")),
		ArtifactDir:      env.GetString("ARTIFACT_DIR", filepath.Join(dataDir, "artifacts")),
		DecryptOutputDir: env.GetString("DECRYPT_OUTPUT_DIR", ""),

		// Keys
		MasterKeyAlias:     env.GetString("MASTER_KEY_ALIAS", DefaultMasterKeyAlias),
		MasterKeyAlgorithm: env.GetString("MASTER_KEY_ALGORITHM", string(cryptoDomain.AESGCM)),
		KMSKeyURI:          env.GetString("KMS_KEY_URI", ""),

		DecryptChunkSize: env.GetInt("DECRYPT_CHUNK_SIZE", 8192),

		// Transfer
		TransferMaxRetries: env.GetInt("TRANSFER_MAX_RETRIES", 3),
		TransferTimeout:    env.GetDuration("TRANSFER_TIMEOUT_SECONDS", 300, time.Second),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "modelguard"),
		MetricsTextfile:  env.GetString("METRICS_TEXTFILE", ""),
	}
}

// Validate checks the configuration. KMSKeyURI is only checked when set, since
// commands that do not touch master keys run without it.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.DataDir, validation.Required, customValidation.NotBlank),
		validation.Field(&c.KeyStoreDir, validation.Required, customValidation.NotBlank),
		validation.Field(&c.WrappedKeyPath, validation.Required, customValidation.NotBlank),
		validation.Field(&c.ArtifactDir, validation.Required, customValidation.NotBlank),
		validation.Field(&c.MasterKeyAlias, validation.Required, customValidation.KeyAlias),
		validation.Field(&c.MasterKeyAlgorithm, validation.Required, customValidation.Algorithm),
		validation.Field(&c.KMSKeyURI, customValidation.NoWhitespace, customValidation.KMSKeyURI),
		validation.Field(&c.DecryptChunkSize, validation.Required, validation.Min(16), validation.Max(64<<20)),
		validation.Field(&c.TransferMaxRetries, validation.Min(0), validation.Max(100)),
		validation.Field(&c.TransferTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MetricsNamespace,
			validation.When(c.MetricsEnabled, validation.Required, customValidation.MetricName),
		),
	)
	return customValidation.WrapValidationError(err)
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
